package session

import (
	"sort"

	"github.com/nathoo/turfwar/types"
)

// Purse is a simple item-count wallet.
type Purse struct {
	items map[string]int
}

// NewPurse creates a purse holding the given items.
func NewPurse(items map[string]int) *Purse {
	p := &Purse{items: map[string]int{}}
	for k, v := range items {
		p.items[k] = v
	}
	return p
}

func (p *Purse) ItemCount(item string) int { return p.items[item] }

func (p *Purse) RemoveItem(item string, n int) bool {
	if n < 0 || p.items[item] < n {
		return false
	}
	p.items[item] -= n
	if p.items[item] == 0 {
		delete(p.items, item)
	}
	return true
}

func (p *Purse) AddItem(item string, n int) {
	if n <= 0 {
		return
	}
	p.items[item] += n
}

// Items returns the purse contents sorted by item name.
func (p *Purse) Items() []Stack {
	out := make([]Stack, 0, len(p.items))
	for k, v := range p.items {
		out = append(out, Stack{Item: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// Stack is one line of a purse listing.
type Stack struct {
	Item  string
	Count int
}

// Rumor is a line an NPC has heard.
type Rumor struct {
	Category types.RumorCategory
	Text     string
}

// World is the stand-in for everything outside the engine when playing at
// the console: one player, a roster of NPCs and what they've heard. It
// implements notify.Sink.
type World struct {
	Player types.Player
	NPCs   []types.NPC
	Purse  *Purse

	rumors map[string][]Rumor
}

// NewWorld creates an empty world with the player at pos.
func NewWorld(pos types.Vec, purse *Purse) *World {
	return &World{
		Player: types.Player{Pos: pos, Wallet: purse},
		Purse:  purse,
		rumors: map[string][]Rumor{},
	}
}

// DemoWorld is the stock console world: the player outside the chippy with
// a bit of cash, and a handful of locals from each faction.
func DemoWorld() *World {
	w := NewWorld(types.Vec{X: 15.5, Z: 1.5}, NewPurse(map[string]int{"coin": 100}))
	w.NPCs = []types.NPC{
		{ID: "vinnie", Name: "Vinnie Marchetti", Faction: types.Marchetti, Pos: types.Vec{X: 4, Z: 6}},
		{ID: "carla", Name: "Carla Marchetti", Faction: types.Marchetti, Pos: types.Vec{X: 7, Z: 12}},
		{ID: "dazza", Name: "Dazza", Faction: types.StreetLads, Pos: types.Vec{X: 14, Z: 5}},
		{ID: "kyle", Name: "Big Kyle", Faction: types.StreetLads, Pos: types.Vec{X: 17, Z: 9}},
		{ID: "cllr_price", Name: "Cllr Price", Faction: types.Council, Pos: types.Vec{X: 24, Z: 4}},
		{ID: "pcso_hughes", Name: "PCSO Hughes", Faction: types.Council, Pos: types.Vec{X: 22, Z: 14}},
		{ID: "maureen", Name: "Maureen", Pos: types.Vec{X: 15, Z: 1}},
		{ID: "tariq", Name: "Tariq", Pos: types.Vec{X: 16, Z: 2}},
	}
	return w
}

// AddRumor records that npc heard text.
func (w *World) AddRumor(npc types.NPC, category types.RumorCategory, text string) {
	w.rumors[npc.ID] = append(w.rumors[npc.ID], Rumor{Category: category, Text: text})
}

// SetHostile flips npc hostile in the roster.
func (w *World) SetHostile(npc types.NPC) {
	for i := range w.NPCs {
		if w.NPCs[i].ID == npc.ID {
			w.NPCs[i].Hostile = true
		}
	}
}

// Calm resets every NPC to non-hostile whose faction no longer hates the
// player. The world owns NPC behaviour; the engine only ever turns NPCs
// hostile.
func (w *World) Calm(stillHostile func(types.Faction) bool) {
	for i := range w.NPCs {
		if w.NPCs[i].Hostile && !stillHostile(w.NPCs[i].Faction) {
			w.NPCs[i].Hostile = false
		}
	}
}

// Rumors returns what npc has heard, oldest first.
func (w *World) Rumors(id string) []Rumor {
	return append([]Rumor(nil), w.rumors[id]...)
}

// RumorCount returns the total number of rumours heard across all NPCs.
func (w *World) RumorCount() int {
	n := 0
	for _, r := range w.rumors {
		n += len(r)
	}
	return n
}
