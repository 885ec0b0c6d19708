// Package notify is the engine's outward contract: seeding rumours into
// nearby NPCs and switching NPCs hostile. The world implements Sink; the
// engine never fails because nobody is listening.
package notify

import (
	"sort"

	"github.com/nathoo/turfwar/types"
)

// Sink is implemented by the world outside the engine.
type Sink interface {
	AddRumor(npc types.NPC, category types.RumorCategory, text string)
	SetHostile(npc types.NPC)
}

// Funcs adapts plain functions to Sink. Nil fields are no-ops.
type Funcs struct {
	Rumor   func(npc types.NPC, category types.RumorCategory, text string)
	Hostile func(npc types.NPC)
}

func (f Funcs) AddRumor(npc types.NPC, category types.RumorCategory, text string) {
	if f.Rumor != nil {
		f.Rumor(npc, category, text)
	}
}

func (f Funcs) SetHostile(npc types.NPC) {
	if f.Hostile != nil {
		f.Hostile(npc)
	}
}

// Bridge picks the NPCs a notification reaches.
type Bridge struct {
	sink   Sink
	radius float64
	fanout int
}

// New creates a bridge. A nil sink turns every call into a no-op.
func New(sink Sink, radius float64, fanout int) *Bridge {
	return &Bridge{sink: sink, radius: radius, fanout: fanout}
}

// Seed tells a rumour to the fanout NPCs nearest origin within radius and
// returns how many heard it.
func (b *Bridge) Seed(npcs []types.NPC, origin types.Vec, category types.RumorCategory, text string) int {
	if b.sink == nil || b.fanout <= 0 {
		return 0
	}
	targets := Nearby(npcs, origin, b.radius, b.fanout)
	for _, npc := range targets {
		b.sink.AddRumor(npc, category, text)
	}
	return len(targets)
}

// Broadcast tells a rumour to at most fanout NPCs, the nearest to origin
// however far away they are. Unlike Seed it ignores the radius.
func (b *Bridge) Broadcast(npcs []types.NPC, origin types.Vec, category types.RumorCategory, text string) int {
	if b.sink == nil || b.fanout <= 0 {
		return 0
	}
	targets := Nearby(npcs, origin, -1, b.fanout)
	for _, npc := range targets {
		b.sink.AddRumor(npc, category, text)
	}
	return len(targets)
}

// SetHostile turns every NPC accepted by keep hostile, skipping those that
// already are, and returns the NPCs it changed.
func (b *Bridge) SetHostile(npcs []types.NPC, keep func(types.NPC) bool) []types.NPC {
	if b.sink == nil {
		return nil
	}
	var changed []types.NPC
	for _, npc := range npcs {
		if npc.Hostile || !keep(npc) {
			continue
		}
		b.sink.SetHostile(npc)
		changed = append(changed, npc)
	}
	return changed
}

// Nearby returns up to limit NPCs ordered by distance from origin. A
// negative radius means unlimited range. Ties keep input order.
func Nearby(npcs []types.NPC, origin types.Vec, radius float64, limit int) []types.NPC {
	type candidate struct {
		npc  types.NPC
		dist float64
	}
	var cands []candidate
	for _, npc := range npcs {
		dx, dz := npc.Pos.X-origin.X, npc.Pos.Z-origin.Z
		d := dx*dx + dz*dz
		if radius >= 0 && d > radius*radius {
			continue
		}
		cands = append(cands, candidate{npc: npc, dist: d})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if limit >= 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]types.NPC, len(cands))
	for i, c := range cands {
		out[i] = c.npc
	}
	return out
}
