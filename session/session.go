// Package session drives the engine from typed console commands. It owns a
// stand-in world (player, wallet, NPC roster) so the cli and tui drivers can
// play the faction game without the rest of the simulation.
package session

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/nathoo/turfwar/engine"
	"github.com/nathoo/turfwar/engine/dialogue"
	"github.com/nathoo/turfwar/engine/events"
	"github.com/nathoo/turfwar/engine/parser"
	"github.com/nathoo/turfwar/engine/resolve"
	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/engine/territory"
	"github.com/nathoo/turfwar/types"
)

// Frame is the simulated time one action command takes, in seconds.
const Frame = 1.0

// MaxWait caps a single wait command.
const MaxWait = 3600.0

// Session pairs an engine with its world.
type Session struct {
	Engine *engine.Engine
	Defs   *state.Defs
	World  *World

	achievements []string
}

// New creates a session over the demo world.
func New(defs *state.Defs, opts ...engine.Option) *Session {
	return NewWithWorld(defs, DemoWorld(), opts...)
}

// NewWithWorld creates a session over w. The session registers itself as
// the engine's sink and achievement handler; opts may add a seed or logger.
func NewWithWorld(defs *state.Defs, w *World, opts ...engine.Option) *Session {
	s := &Session{Defs: defs, World: w}
	opts = append(opts,
		engine.WithSink(w),
		engine.WithAchievements(func(name string) { s.achievements = append(s.achievements, name) }),
	)
	s.Engine = engine.New(defs, opts...)
	s.Engine.SetScene(w.Player, w.NPCs)
	return s
}

// Achievements returns every achievement unlocked so far, in order.
func (s *Session) Achievements() []string {
	return append([]string(nil), s.achievements...)
}

// Intro returns the opening lines.
func (s *Session) Intro() []string {
	g := s.Defs.Game
	out := []string{fmt.Sprintf("%s v%s (%s)", g.Title, g.Version, g.Town)}
	if g.Intro != "" {
		out = append(out, "", g.Intro)
	}
	out = append(out, "")
	return append(out, s.status()...)
}

// Step runs one console command and returns what happened.
func (s *Session) Step(input string) types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return types.Result{}
	}

	s.Engine.SetScene(s.World.Player, s.World.NPCs)

	var out []string
	acted := false
	switch intent.Verb {
	case "status":
		return lines(s.status()...)
	case "map":
		return lines(s.renderMap()...)
	case "npcs":
		return lines(s.roster()...)
	case "wallet":
		return lines(s.wallet()...)
	case "missions":
		return lines(s.missions()...)
	case "rumours":
		return lines(s.rumours(subject(intent))...)
	case "talk":
		return lines(s.talk(subject(intent))...)
	case "wait":
		return s.wait(intent)

	case "hit":
		out, acted = s.hit(subject(intent))
	case "damage":
		out, acted = s.atCell(intent, "Nothing to smash there, it's nobody's.", func(x, z int) (string, bool) {
			owner := s.Engine.DamageStructure(x, z)
			if owner == types.NoFaction {
				return "", false
			}
			return fmt.Sprintf("You put the window in on a %s place.", s.Defs.Faction(owner).Name), true
		})
	case "graffiti":
		out, acted = s.atCell(intent, "No point tagging that wall.", func(x, z int) (string, bool) {
			owner := s.Engine.Owner(x, z)
			if !s.Engine.Graffiti(x, z) {
				return "", false
			}
			return fmt.Sprintf("You tag %s.", s.Defs.Faction(owner).Territory), true
		})
	case "buy":
		out, acted = s.buyRound()
	case "arrest":
		out, acted = s.arrest(intent)
	case "offer":
		out, acted = s.offer(subject(intent))
	case "complete":
		out, acted = s.complete(subject(intent))
	case "respect":
		out, acted = s.respect(intent)
	case "move":
		out, acted = s.move(intent)
	default:
		return lines(fmt.Sprintf("I don't know how to %q.", intent.Verb))
	}

	if !acted {
		return lines(out...)
	}
	r := s.advance(Frame)
	r.Output = append(out, r.Output...)
	return r
}

// Advance moves the simulation forward by dt seconds in one frame.
func (s *Session) Advance(dt float64) types.Result {
	return s.advance(dt)
}

func (s *Session) advance(dt float64) types.Result {
	r := s.Engine.Advance(dt, s.World.Player, s.World.NPCs)
	s.World.Calm(func(f types.Faction) bool {
		return f.Valid() && (s.Engine.IsHostile(f) || s.Engine.EveryoneHatesYou())
	})
	r.Output = s.describe(r.Events)
	return r
}

// wait advances whole frames until the requested time has passed.
func (s *Session) wait(intent types.Intent) types.Result {
	secs := 10.0
	if fields := strings.Fields(subject(intent)); len(fields) > 0 {
		nums, ok := parser.Numbers(fields[0])
		if !ok {
			return lines("Wait how long?")
		}
		secs = nums[0]
		if len(fields) > 1 && strings.HasPrefix(fields[1], "min") {
			secs *= 60
		}
	}
	if secs <= 0 || math.IsNaN(secs) {
		return lines("Time doesn't work like that.")
	}
	secs = math.Min(secs, MaxWait)

	var total types.Result
	for left := secs; left > 0; left -= Frame {
		r := s.advance(math.Min(left, Frame))
		total.Events = append(total.Events, r.Events...)
		total.Output = append(total.Output, r.Output...)
	}
	total.Output = append([]string{fmt.Sprintf("You hang about for %s.", seconds(secs))}, total.Output...)
	return total
}

func (s *Session) hit(name string) ([]string, bool) {
	if name == "" {
		return []string{"Hit who?"}, false
	}
	npc, err := resolve.NPC(s.World.NPCs, name)
	if err != nil {
		var nf *resolve.NotFoundError
		if !errors.As(err, &nf) {
			return []string{err.Error()}, false
		}
		// "hit lads": pick the nearest member of that faction.
		f, ferr := resolve.Faction(s.Defs, name)
		if ferr != nil {
			return []string{err.Error()}, false
		}
		npc = s.nearestOf(f)
	}
	if !s.Engine.HitNPC(npc) {
		return []string{fmt.Sprintf("You shove %s. Nobody cares.", npc.Name)}, false
	}
	return []string{fmt.Sprintf("You lamp %s.", npcLabel(npc, s.Defs))}, true
}

func (s *Session) nearestOf(f types.Faction) types.NPC {
	best := types.NPC{Faction: f, Name: "one of " + s.Defs.Faction(f).Name}
	bestDist := math.Inf(1)
	for _, npc := range s.World.NPCs {
		if npc.Faction != f {
			continue
		}
		dx, dz := npc.Pos.X-s.World.Player.Pos.X, npc.Pos.Z-s.World.Player.Pos.Z
		if d := dx*dx + dz*dz; d < bestDist {
			best, bestDist = npc, d
		}
	}
	return best
}

// atCell runs fn on the cell named in the intent, or the player's cell.
func (s *Session) atCell(intent types.Intent, miss string, fn func(x, z int) (string, bool)) ([]string, bool) {
	x, z := territory.CellOf(s.World.Player.Pos)
	if fx, fz, ok := parser.Coords(intent); ok {
		x, z = territory.CellOf(types.Vec{X: fx, Z: fz})
	}
	line, ok := fn(x, z)
	if !ok {
		return []string{miss}, false
	}
	return []string{line}, true
}

func (s *Session) buyRound() ([]string, bool) {
	tu := s.Defs.Tuning
	if !s.Engine.BuyRound() {
		return []string{fmt.Sprintf("A round costs %s %s. You've got %s.",
			humanize.Comma(int64(tu.RoundCost)), tu.CoinItem,
			humanize.Comma(int64(s.World.Purse.ItemCount(tu.CoinItem))))}, false
	}
	return []string{"\"Same again for everyone!\""}, true
}

func (s *Session) arrest(intent types.Intent) ([]string, bool) {
	pos := s.World.Player.Pos
	if x, z, ok := parser.Coords(intent); ok {
		pos = types.Vec{X: x, Z: z}
	}
	f := s.Engine.Arrested(pos)
	if f == types.NoFaction {
		return []string{"You get nicked out in the sticks. Nobody notices."}, true
	}
	return []string{fmt.Sprintf("You get nicked on %s's doorstep and keep your mouth shut.", s.Defs.Faction(f).Name)}, true
}

func (s *Session) offer(name string) ([]string, bool) {
	f, err := s.faction(name)
	if err != nil {
		return []string{err.Error()}, false
	}
	m, ok := s.Engine.OfferMission(f)
	if !ok {
		return []string{s.Defs.Faction(f).Name + " have nothing for you."}, false
	}
	return []string{fmt.Sprintf("%q: %s You've got %s.", m.Title, m.Description, seconds(m.Duration))}, true
}

func (s *Session) complete(name string) ([]string, bool) {
	f, err := s.faction(name)
	if err != nil {
		return []string{err.Error()}, false
	}
	r, ok := s.Engine.TryCompleteMission(f)
	if !ok {
		return []string{"You're not doing anything for " + s.Defs.Faction(f).Name + "."}, false
	}
	line := fmt.Sprintf("Paid %s %s.", humanize.Comma(int64(r.Coins)), s.Defs.Tuning.CoinItem)
	if r.Item != "" && r.Count > 0 {
		line += fmt.Sprintf(" And %d %s.", r.Count, r.Item)
	}
	return []string{line}, true
}

func (s *Session) respect(intent types.Intent) ([]string, bool) {
	name, delta, ok := intent.Object, 0, false
	if nums, numOK := parser.Numbers(intent.Target); numOK && len(nums) == 1 {
		delta, ok = int(nums[0]), true
	} else {
		name, delta, ok = parser.SplitTrailingNumber(intent.Object)
	}
	if !ok {
		return []string{"Usage: respect <faction> <delta>"}, false
	}
	f, err := s.faction(name)
	if err != nil {
		return []string{err.Error()}, false
	}
	ch := s.Engine.ApplyRespectDelta(f, delta)
	return []string{fmt.Sprintf("%s: %d -> %d", s.Defs.Faction(f).Name, ch.Before, ch.After)}, true
}

func (s *Session) move(intent types.Intent) ([]string, bool) {
	x, z, ok := parser.Coords(intent)
	if !ok {
		return []string{"Move where? Give an x and z."}, false
	}
	s.World.Player.Pos = types.Vec{X: x, Z: z}
	owner := s.Engine.Territory().OwnerAt(s.World.Player.Pos)
	where := "no-man's-land"
	if owner != types.NoFaction {
		where = s.Defs.Faction(owner).Territory
	}
	return []string{fmt.Sprintf("You wander over to %s.", where)}, true
}

func (s *Session) faction(name string) (types.Faction, error) {
	if name == "" {
		return types.NoFaction, errors.New("which faction?")
	}
	return resolve.Faction(s.Defs, name)
}

// describe turns engine events into console lines, each followed by any
// reactions it triggers. Standing changes have no text of their own and
// are summarised here.
func (s *Session) describe(evs []types.Event) []string {
	var out []string
	for _, ev := range evs {
		if ev.Type == types.EventRespectChanged {
			f, _ := ev.Data["faction"].(types.Faction)
			before, _ := ev.Data["before"].(int)
			after, _ := ev.Data["after"].(int)
			if !f.Valid() || before == after {
				continue
			}
			out = append(out, fmt.Sprintf("  %s %d -> %d", s.Defs.Faction(f).Name, before, after))
		} else if ev.Text != "" {
			out = append(out, ev.Text)
		}
		out = append(out, events.Dispatch([]types.Event{ev}, s.Defs.Reactions)...)
	}
	return out
}

func (s *Session) status() []string {
	snap := s.Engine.Snapshot()
	out := []string{fmt.Sprintf("%s, %s in.", s.Defs.Game.Town, seconds(snap.Clock))}
	for _, v := range snap.Factions {
		line := fmt.Sprintf("  %-16s %3d %-8s %5.1f%% of town", v.Name, v.Standing, v.Band, v.Fraction*100)
		if v.Mission != nil {
			line += fmt.Sprintf("  [job: %s, %s left]", v.Mission.Title, seconds(v.Mission.Remaining))
		}
		out = append(out, line)
	}
	if snap.Allied != types.NoFaction {
		out = append(out, "  You're in with "+s.Defs.Faction(snap.Allied).Name+".")
	}
	if snap.Hostile {
		out = append(out, fmt.Sprintf("  Everyone hates you. Fences charge %.1fx.", snap.Fence))
	}
	if snap.Victor != types.NoFaction {
		out = append(out, "  "+s.Defs.Faction(snap.Victor).Name+" have won the town.")
	}
	return out
}

func (s *Session) missions() []string {
	var out []string
	for _, f := range types.Factions {
		m, ok := s.Engine.ActiveMission(f)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %q (%s), %s left, pays %s %s",
			s.Defs.Faction(f).Name, m.Title, m.Kind, seconds(m.Remaining),
			humanize.Comma(int64(m.Coins)), s.Defs.Tuning.CoinItem))
	}
	if len(out) == 0 {
		return []string{"Nobody has a job on for you."}
	}
	return out
}

func (s *Session) wallet() []string {
	items := s.World.Purse.Items()
	if len(items) == 0 {
		return []string{"Skint."}
	}
	out := make([]string, 0, len(items))
	for _, st := range items {
		out = append(out, fmt.Sprintf("  %s x%s", st.Item, humanize.Comma(int64(st.Count))))
	}
	return out
}

func (s *Session) roster() []string {
	out := make([]string, 0, len(s.World.NPCs))
	for _, npc := range s.World.NPCs {
		mood := "calm"
		if npc.Hostile {
			mood = "HOSTILE"
		}
		out = append(out, fmt.Sprintf("  %-18s %-16s (%4.1f, %4.1f) %-7s %s",
			npc.Name, npcFaction(npc, s.Defs), npc.Pos.X, npc.Pos.Z, mood,
			english.Plural(len(s.World.Rumors(npc.ID)), "rumour", "")))
	}
	return out
}

func (s *Session) rumours(name string) []string {
	if name == "" {
		return []string{fmt.Sprintf("%s going round. Ask about someone: rumours <name>.",
			english.Plural(s.World.RumorCount(), "rumour", ""))}
	}
	npc, err := resolve.NPC(s.World.NPCs, name)
	if err != nil {
		return []string{err.Error()}
	}
	heard := s.World.Rumors(npc.ID)
	if len(heard) == 0 {
		return []string{npc.Name + " hasn't heard anything."}
	}
	out := make([]string, 0, len(heard))
	for _, r := range heard {
		out = append(out, fmt.Sprintf("  [%s] %s", r.Category, r.Text))
	}
	return out
}

func (s *Session) talk(name string) []string {
	if name == "" {
		return []string{"Talk to who?"}
	}
	npc, err := resolve.NPC(s.World.NPCs, name)
	if err != nil {
		return []string{err.Error()}
	}
	band := standing.Neutral
	if npc.Faction.Valid() {
		band = s.Engine.Snapshot().Factions[npc.Faction.Index()].Band
	}
	heard := s.World.Rumors(npc.ID)
	texts := make([]string, len(heard))
	for i, r := range heard {
		texts[i] = r.Text
	}
	return dialogue.Talk(npc, band, s.Engine.EveryoneHatesYou(), texts)
}

// renderMap draws the territory grid: M, L and C for the factions, '.' for
// unclaimed ground and '@' for the player.
func (s *Session) renderMap() []string {
	m := s.Engine.Territory()
	px, pz := territory.CellOf(s.World.Player.Pos)
	glyph := map[types.Faction]byte{
		types.NoFaction:  '.',
		types.Marchetti:  'M',
		types.StreetLads: 'L',
		types.Council:    'C',
	}
	out := make([]string, 0, m.Depth()+1)
	for z := 0; z < m.Depth(); z++ {
		var b strings.Builder
		for x := 0; x < m.Width(); x++ {
			if x == px && z == pz {
				b.WriteByte('@')
				continue
			}
			b.WriteByte(glyph[m.Owner(x, z)])
		}
		out = append(out, b.String())
	}
	counts := m.Counts()
	keys := make([]string, 0, types.NumFactions)
	for _, f := range types.Factions {
		keys = append(keys, fmt.Sprintf("%c=%s %d", glyph[f], s.Defs.Faction(f).Name, counts[f]))
	}
	return append(out, strings.Join(keys, ", "))
}

func subject(intent types.Intent) string {
	if intent.Object != "" {
		return intent.Object
	}
	return intent.Target
}

func npcLabel(npc types.NPC, defs *state.Defs) string {
	if npc.Faction.Valid() {
		return fmt.Sprintf("%s (%s)", npc.Name, defs.Faction(npc.Faction).Name)
	}
	return npc.Name
}

func npcFaction(npc types.NPC, defs *state.Defs) string {
	if !npc.Faction.Valid() {
		return "-"
	}
	return defs.Faction(npc.Faction).Name
}

func seconds(secs float64) string {
	d := int(math.Round(secs))
	if d < 60 {
		return english.Plural(d, "second", "")
	}
	m, sec := d/60, d%60
	if sec == 0 {
		return english.Plural(m, "minute", "")
	}
	return fmt.Sprintf("%s %s", english.Plural(m, "minute", ""), english.Plural(sec, "second", ""))
}

func lines(out ...string) types.Result {
	return types.Result{Output: out}
}
