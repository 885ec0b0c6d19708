package engine

import (
	"strings"
	"testing"

	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

type rumor struct {
	npc      string
	category types.RumorCategory
	text     string
}

type recorder struct {
	rumors  []rumor
	hostile []string
}

func (r *recorder) AddRumor(npc types.NPC, category types.RumorCategory, text string) {
	r.rumors = append(r.rumors, rumor{npc: npc.ID, category: category, text: text})
}

func (r *recorder) SetHostile(npc types.NPC) {
	r.hostile = append(r.hostile, npc.ID)
}

func (r *recorder) count(category types.RumorCategory) int {
	n := 0
	for _, ru := range r.rumors {
		if ru.category == category {
			n++
		}
	}
	return n
}

type bag map[string]int

func (b bag) ItemCount(item string) int { return b[item] }

func (b bag) RemoveItem(item string, n int) bool {
	if b[item] < n {
		return false
	}
	b[item] -= n
	return true
}

func (b bag) AddItem(item string, n int) { b[item] += n }

// townNPCs puts one NPC of each faction plus a civilian near the origin.
func townNPCs() []types.NPC {
	return []types.NPC{
		{ID: "vinnie", Name: "Vinnie", Faction: types.Marchetti, Pos: types.Vec{X: 1, Z: 1}},
		{ID: "dazza", Name: "Dazza", Faction: types.StreetLads, Pos: types.Vec{X: 2, Z: 1}},
		{ID: "cllr_price", Name: "Cllr Price", Faction: types.Council, Pos: types.Vec{X: 3, Z: 1}},
		{ID: "maureen", Name: "Maureen", Pos: types.Vec{X: 4, Z: 1}},
	}
}

type harness struct {
	e        *Engine
	sink     *recorder
	wallet   bag
	player   types.Player
	npcs     []types.NPC
	unlocked []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{sink: &recorder{}, wallet: bag{}, npcs: townNPCs()}
	h.player = types.Player{Pos: types.Vec{X: 0, Z: 0}, Wallet: h.wallet}
	h.e = New(state.DefaultDefs(),
		WithSeed(42),
		WithSink(h.sink),
		WithAchievements(func(name string) { h.unlocked = append(h.unlocked, name) }),
	)
	h.e.SetScene(h.player, h.npcs)
	return h
}

func (h *harness) advance(dt float64) types.Result {
	return h.e.Advance(dt, h.player, h.npcs)
}

func (h *harness) set(f types.Faction, v int) {
	h.e.ApplyRespectDelta(f, v-h.e.Respect(f))
}

func (h *harness) achieved(name string) int {
	n := 0
	for _, a := range h.unlocked {
		if a == name {
			n++
		}
	}
	return n
}

func hasEvent(r types.Result, typ string) bool {
	return countEvents(r, typ) > 0
}

func countEvents(r types.Result, typ string) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t)
	for _, f := range types.Factions {
		if got := h.e.Respect(f); got != 50 {
			t.Errorf("%s standing = %d, want 50", f, got)
		}
		if h.e.Ownership(f) != 180.0/600.0 {
			t.Errorf("%s ownership = %v", f, h.e.Ownership(f))
		}
	}
	if h.e.EveryoneHatesYou() || h.e.VictoriousFaction() != types.NoFaction {
		t.Error("fresh engine should have no endgame state")
	}
	if h.e.FencePriceMultiplier() != 1.0 {
		t.Errorf("fence = %v", h.e.FencePriceMultiplier())
	}
}

func TestHitNPC_OnlyThatFaction(t *testing.T) {
	h := newHarness(t)
	if !h.e.HitNPC(h.npcs[0]) {
		t.Fatal("HitNPC on a Marchetti NPC returned false")
	}
	if got := h.e.Respect(types.Marchetti); got != 35 {
		t.Errorf("Marchetti = %d, want 35", got)
	}
	if h.e.Respect(types.StreetLads) != 50 || h.e.Respect(types.Council) != 50 {
		t.Error("other factions changed")
	}
	if h.sink.count(types.RumorPlayerAction) == 0 {
		t.Error("expected a rumour about the assault")
	}
	if !h.e.Pulsing(types.Marchetti) || h.e.Pulsing(types.Council) {
		t.Error("only Marchetti should pulse")
	}
}

func TestHitNPC_Civilian(t *testing.T) {
	h := newHarness(t)
	if h.e.HitNPC(h.npcs[3]) {
		t.Error("hitting a civilian should be a no-op")
	}
	for _, f := range types.Factions {
		if h.e.Respect(f) != 50 {
			t.Errorf("%s changed", f)
		}
	}
}

func TestApplyRespectDelta_Clamps(t *testing.T) {
	h := newHarness(t)
	h.set(types.StreetLads, 5)
	ch := h.e.ApplyRespectDelta(types.StreetLads, -20)
	if ch.After != 0 || h.e.Respect(types.StreetLads) != 0 {
		t.Errorf("standing = %d, want 0", h.e.Respect(types.StreetLads))
	}
	h.e.ApplyRespectDelta(types.Council, 500)
	if h.e.Respect(types.Council) != 100 {
		t.Errorf("Council = %d, want 100", h.e.Respect(types.Council))
	}
}

func TestApplyRespectDelta_AlwaysInRange(t *testing.T) {
	h := newHarness(t)
	deltas := []int{-15, 37, -90, 12, 200, -3, -250, 8, 99, -1}
	for i, d := range deltas {
		f := types.Factions[i%types.NumFactions]
		h.e.ApplyRespectDelta(f, d)
		for _, g := range types.Factions {
			if v := h.e.Respect(g); v < 0 || v > 100 {
				t.Fatalf("after delta %d, %s = %d", d, g, v)
			}
		}
	}
}

func TestAdvance_TransferOnWideGap(t *testing.T) {
	h := newHarness(t)
	h.set(types.Marchetti, 80)
	h.set(types.StreetLads, 40)
	h.e.Drain()

	r := h.advance(0.1)

	if got := countEvents(r, types.EventTurfTransferred); got != 1 {
		t.Fatalf("transfers = %d, want 1", got)
	}
	if got := h.e.Territory().Owned(types.Marchetti); got != 198 {
		t.Errorf("Marchetti cells = %d, want 198", got)
	}
	if got := h.e.Territory().Owned(types.StreetLads); got != 162 {
		t.Errorf("Street Lads cells = %d, want 162", got)
	}
	if h.sink.count(types.RumorTerritory) == 0 {
		t.Error("expected a territory rumour")
	}
}

func TestAdvance_TransferThreshold(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want bool
	}{
		{"gap 30", 80, 50, false},
		{"gap 31", 81, 50, true},
		{"gap 0", 50, 50, false},
		{"reversed gap 40", 40, 80, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			// Council sits between the two so only the Marchetti/Lads pair can trigger.
			h.set(types.Council, (tt.a+tt.b)/2)
			h.set(types.Marchetti, tt.a)
			h.set(types.StreetLads, tt.b)
			r := h.advance(0.1)
			if got := hasEvent(r, types.EventTurfTransferred); got != tt.want {
				t.Errorf("transfer = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvance_ConservesCells(t *testing.T) {
	h := newHarness(t)
	h.set(types.Marchetti, 100)
	h.set(types.StreetLads, 0)
	h.set(types.Council, 60)
	m := h.e.Territory()
	for i := 0; i < 40; i++ {
		h.advance(0.1)
		sum := m.Unclaimed()
		for _, f := range types.Factions {
			sum += m.Owned(f)
		}
		if sum != m.Total() {
			t.Fatalf("tick %d: %d cells accounted for, want %d", i, sum, m.Total())
		}
	}
	if m.Owned(types.StreetLads) >= 180 {
		t.Errorf("Street Lads kept %d cells", m.Owned(types.StreetLads))
	}
}

func TestAdvance_TransferDeterministic(t *testing.T) {
	run := func() []types.Faction {
		h := newHarness(t)
		h.set(types.Council, 90)
		h.set(types.Marchetti, 20)
		h.advance(0.1)
		m := h.e.Territory()
		var owners []types.Faction
		for z := 0; z < m.Depth(); z++ {
			for x := 0; x < m.Width(); x++ {
				owners = append(owners, m.Owner(x, z))
			}
		}
		return owners
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d differs between runs with the same seed", i)
		}
	}
}

func TestAdvance_UniversalHostility(t *testing.T) {
	h := newHarness(t)
	for _, f := range types.Factions {
		h.set(f, 25)
	}

	r := h.advance(0.1)
	if !h.e.EveryoneHatesYou() {
		t.Fatal("hostility should be active")
	}
	if !hasEvent(r, types.EventHostilityStarted) {
		t.Error("missing hostility_started event")
	}
	global := h.sink.count(types.RumorEndgame)
	if global == 0 {
		t.Fatal("expected the global rumour")
	}
	if len(h.sink.hostile) != 3 {
		t.Errorf("hostile NPCs = %v, want the three faction NPCs", h.sink.hostile)
	}
	for _, id := range h.sink.hostile {
		if id == "maureen" {
			t.Error("civilian set hostile")
		}
	}
	if h.e.FencePriceMultiplier() != 1.5 {
		t.Errorf("fence = %v, want 1.5", h.e.FencePriceMultiplier())
	}
	if h.achieved("everyone_hates_you") != 1 {
		t.Errorf("achievements = %v", h.unlocked)
	}

	r = h.advance(0.1)
	if hasEvent(r, types.EventHostilityStarted) {
		t.Error("hostility started twice")
	}
	if h.sink.count(types.RumorEndgame) != global {
		t.Error("global rumour fired again on a steady tick")
	}
}

func TestAdvance_HostilityToggles(t *testing.T) {
	h := newHarness(t)
	for _, f := range types.Factions {
		h.set(f, 25)
	}
	h.advance(0.1)

	h.set(types.Council, 40)
	r := h.advance(0.1)
	if h.e.EveryoneHatesYou() || !hasEvent(r, types.EventHostilityEnded) {
		t.Error("hostility should end once one faction recovers")
	}
	if h.e.FencePriceMultiplier() != 1.0 {
		t.Errorf("fence = %v", h.e.FencePriceMultiplier())
	}

	h.set(types.Council, 25)
	r = h.advance(0.1)
	if !hasEvent(r, types.EventHostilityStarted) {
		t.Error("hostility should start again")
	}
	if h.achieved("everyone_hates_you") != 2 {
		t.Errorf("achievement fired %d times, want once per edge", h.achieved("everyone_hates_you"))
	}
}

func TestAdvance_HostileBandTurnsNPCs(t *testing.T) {
	h := newHarness(t)
	h.set(types.StreetLads, 15)
	h.set(types.Marchetti, 40)
	h.set(types.Council, 40)
	r := h.advance(0.1)

	if len(h.sink.hostile) != 1 || h.sink.hostile[0] != "dazza" {
		t.Errorf("hostile = %v, want [dazza]", h.sink.hostile)
	}
	if !hasEvent(r, types.EventThresholdCrossed) {
		t.Error("expected a threshold crossing event")
	}
	if !hasEvent(r, types.EventNPCHostile) {
		t.Error("expected an npc_hostile event")
	}
}

func TestAdvance_HostilityDoesNotTurnNPCTwice(t *testing.T) {
	h := newHarness(t)
	for _, f := range types.Factions {
		h.set(f, 15)
	}
	h.advance(0.1)

	seen := map[string]int{}
	for _, id := range h.sink.hostile {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("%s set hostile %d times", id, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("hostile = %v", h.sink.hostile)
	}
}

func TestAdvance_Victory(t *testing.T) {
	h := newHarness(t)
	m := h.e.Territory()
	// Hand the Council 62% of the map.
	need := 372
	for z := 0; z < m.Depth() && m.Owned(types.Council) < need; z++ {
		for x := 0; x < m.Width() && m.Owned(types.Council) < need; x++ {
			m.Claim(x, z, types.Council)
		}
	}
	h.set(types.Council, 92)

	r := h.advance(0.1)
	if h.e.VictoriousFaction() != types.Council {
		t.Fatalf("victor = %s, want Council", h.e.VictoriousFaction())
	}
	if countEvents(r, types.EventFactionVictory) != 1 {
		t.Error("expected one victory event")
	}
	if h.achieved("council_victory") != 1 {
		t.Errorf("achievements = %v", h.unlocked)
	}

	for i := 0; i < 3; i++ {
		if r := h.advance(0.1); hasEvent(r, types.EventFactionVictory) {
			t.Fatal("victory re-fired")
		}
	}

	h.set(types.Council, 10)
	h.advance(0.1)
	if h.e.VictoriousFaction() != types.Council {
		t.Error("victory should be sticky")
	}
	if got := h.e.Snapshot().Victor; got != types.Council {
		t.Errorf("snapshot victor = %s", got)
	}
	if h.achieved("council_victory") != 1 {
		t.Error("victory achievement fired twice")
	}
}

func TestAdvance_SecondFactionCannotWin(t *testing.T) {
	h := newHarness(t)
	m := h.e.Territory()
	claimAll := func(f types.Faction) {
		for z := 0; z < m.Depth(); z++ {
			for x := 0; x < m.Width(); x++ {
				m.Claim(x, z, f)
			}
		}
	}

	claimAll(types.Council)
	h.set(types.Council, 100)
	h.advance(0.1)
	if h.e.VictoriousFaction() != types.Council {
		t.Fatalf("victor = %s, want Council", h.e.VictoriousFaction())
	}

	claimAll(types.Marchetti)
	h.set(types.Council, 0)
	h.set(types.Marchetti, 100)
	r := h.advance(0.1)
	if hasEvent(r, types.EventFactionVictory) {
		t.Error("a second faction won")
	}
	if h.achieved("marchetti_victory") != 0 {
		t.Errorf("achievements = %v", h.unlocked)
	}
	if h.e.VictoriousFaction() != types.Council {
		t.Errorf("victor = %s, want Council", h.e.VictoriousFaction())
	}
	snap := h.e.Snapshot()
	if snap.Victor != types.Council || snap.Factions[types.Marchetti.Index()].Won {
		t.Errorf("snapshot victor = %s, marchetti won = %t", snap.Victor, snap.Factions[types.Marchetti.Index()].Won)
	}
}

func TestMission_ExpiresWithPenalty(t *testing.T) {
	h := newHarness(t)
	m, ok := h.e.OfferMission(types.Marchetti)
	if !ok {
		t.Fatal("no mission offered")
	}
	if m.Duration != 300 {
		t.Errorf("duration = %v, want 300", m.Duration)
	}

	h.advance(150)
	if _, ok := h.e.ActiveMission(types.Marchetti); !ok {
		t.Fatal("mission expired early")
	}
	r := h.advance(150)
	if !hasEvent(r, types.EventMissionExpired) {
		t.Error("missing mission_expired event")
	}
	if got := h.e.Respect(types.Marchetti); got != 40 {
		t.Errorf("Marchetti = %d, want 40", got)
	}
	if _, ok := h.e.ActiveMission(types.Marchetti); ok {
		t.Error("expired mission still active")
	}
	if _, ok := h.e.TryCompleteMission(types.Marchetti); ok {
		t.Error("completed an expired mission")
	}
}

func TestMission_Complete(t *testing.T) {
	h := newHarness(t)
	m, _ := h.e.OfferMission(types.Council)
	reward, ok := h.e.TryCompleteMission(types.Council)
	if !ok {
		t.Fatal("completion failed")
	}
	if reward.Coins != m.Coins || h.wallet["coin"] != m.Coins {
		t.Errorf("coins: reward %d, wallet %d, mission %d", reward.Coins, h.wallet["coin"], m.Coins)
	}
	if m.RewardItem != "" && h.wallet[m.RewardItem] != m.RewardCount {
		t.Errorf("%s = %d, want %d", m.RewardItem, h.wallet[m.RewardItem], m.RewardCount)
	}
	if h.e.Respect(types.Council) != 70 {
		t.Errorf("Council = %d, want 70", h.e.Respect(types.Council))
	}
	if h.e.Respect(types.Marchetti) != 40 || h.e.Respect(types.StreetLads) != 40 {
		t.Error("rivals should drop by 10")
	}
	if _, ok := h.e.ActiveMission(types.Council); ok {
		t.Error("completed mission still active")
	}

	h.e.OfferMission(types.Council)
	h.e.TryCompleteMission(types.Council)
	if h.achieved("first_mission") != 1 {
		t.Errorf("first_mission fired %d times", h.achieved("first_mission"))
	}
}

func TestMission_CompleteWithoutOffer(t *testing.T) {
	h := newHarness(t)
	if _, ok := h.e.TryCompleteMission(types.StreetLads); ok {
		t.Error("completed a mission that was never offered")
	}
	if h.e.Respect(types.StreetLads) != 50 {
		t.Error("standing changed")
	}
}

func TestMission_OfferReplaces(t *testing.T) {
	h := newHarness(t)
	first, _ := h.e.OfferMission(types.StreetLads)
	h.advance(100)
	second, _ := h.e.OfferMission(types.StreetLads)
	if first.ID == second.ID {
		t.Error("replacement kept the old ID")
	}
	active, _ := h.e.ActiveMission(types.StreetLads)
	if active.ID != second.ID || active.Remaining != 300 {
		t.Errorf("active = %+v", active)
	}
	if h.e.Respect(types.StreetLads) != 50 {
		t.Error("replacing a mission should cost nothing")
	}
}

func TestBuyRound(t *testing.T) {
	h := newHarness(t)
	h.wallet["coin"] = 25
	if !h.e.BuyRound() {
		t.Fatal("could not afford a round with 25 coins")
	}
	if h.wallet["coin"] != 5 {
		t.Errorf("coins = %d, want 5", h.wallet["coin"])
	}
	for _, f := range types.Factions {
		if h.e.Respect(f) != 52 {
			t.Errorf("%s = %d, want 52", f, h.e.Respect(f))
		}
	}
	if h.e.BuyRound() {
		t.Error("bought a round with 5 coins")
	}
	if h.e.Respect(types.Council) != 52 {
		t.Error("failed round changed standing")
	}
}

func TestDamageStructure(t *testing.T) {
	h := newHarness(t)
	// x=15 sits in the Street Lads' district.
	if got := h.e.DamageStructure(15, 10); got != types.StreetLads {
		t.Fatalf("owner = %s", got)
	}
	if h.e.Respect(types.StreetLads) != 40 {
		t.Errorf("Street Lads = %d, want 40", h.e.Respect(types.StreetLads))
	}
	if h.e.Respect(types.Marchetti) != 55 || h.e.Respect(types.Council) != 55 {
		t.Error("rivals should gain 5")
	}
	if got := h.e.DamageStructure(15, 0); got != types.NoFaction {
		t.Errorf("unclaimed row returned %s", got)
	}
}

func TestGraffiti(t *testing.T) {
	tests := []struct {
		name      string
		council   int
		x         int
		want      bool
		marchetti int
		wantCncl  int
	}{
		{"no ally", 50, 5, true, 45, 50},
		{"ally gains", 80, 5, true, 45, 88},
		{"own ally's turf", 80, 25, false, 50, 80},
		{"unclaimed", 80, -1, false, 50, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.set(types.Council, tt.council)
			z := 10
			if tt.x < 0 {
				tt.x, z = 5, 0
			}
			if got := h.e.Graffiti(tt.x, z); got != tt.want {
				t.Errorf("Graffiti = %v, want %v", got, tt.want)
			}
			if h.e.Respect(types.Marchetti) != tt.marchetti {
				t.Errorf("Marchetti = %d, want %d", h.e.Respect(types.Marchetti), tt.marchetti)
			}
			if h.e.Respect(types.Council) != tt.wantCncl {
				t.Errorf("Council = %d, want %d", h.e.Respect(types.Council), tt.wantCncl)
			}
		})
	}
}

func TestArrested(t *testing.T) {
	h := newHarness(t)
	if got := h.e.Arrested(types.Vec{X: 25.5, Z: 0.5}); got != types.Council {
		t.Fatalf("nearest = %s, want Council", got)
	}
	if h.e.Respect(types.Council) != 53 {
		t.Errorf("Council = %d, want 53", h.e.Respect(types.Council))
	}
	if got := h.e.Arrested(types.Vec{X: 200, Z: 200}); got != types.NoFaction {
		t.Errorf("far away arrest credited %s", got)
	}
}

func TestPulse_Decays(t *testing.T) {
	h := newHarness(t)
	h.e.ApplyRespectDelta(types.Council, 1)
	h.advance(0.3)
	if !h.e.Pulsing(types.Council) {
		t.Error("pulse ended early")
	}
	h.advance(0.3)
	if h.e.Pulsing(types.Council) {
		t.Error("pulse should have decayed")
	}
}

func TestDrain_ReturnsHookEvents(t *testing.T) {
	h := newHarness(t)
	h.e.OfferMission(types.Marchetti)
	r := h.e.Drain()
	if !hasEvent(r, types.EventMissionOffered) {
		t.Fatalf("events = %+v", r.Events)
	}
	if len(r.Output) == 0 || !strings.Contains(r.Output[0], "Marchetti Crew") {
		t.Errorf("output = %v", r.Output)
	}
	if r := h.e.Drain(); len(r.Events) != 0 {
		t.Error("drain should clear pending events")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	h := newHarness(t)
	h.e.OfferMission(types.Marchetti)
	h.advance(1)
	s := h.e.Snapshot()
	if s.Ticks != 1 || h.e.Tick() != 1 {
		t.Errorf("ticks = %d", s.Ticks)
	}
	mv := s.Factions[types.Marchetti.Index()]
	if mv.Mission == nil || mv.Mission.Remaining != 299 {
		t.Fatalf("mission view = %+v", mv.Mission)
	}
	mv.Mission.Remaining = 0
	if m, _ := h.e.ActiveMission(types.Marchetti); m.Remaining != 299 {
		t.Error("snapshot mutation leaked into the engine")
	}
	if s.Total != 600 || s.Unclaimed != 60 {
		t.Errorf("total=%d unclaimed=%d", s.Total, s.Unclaimed)
	}
}

func TestEngines_Independent(t *testing.T) {
	a := newHarness(t)
	b := newHarness(t)
	for _, f := range types.Factions {
		a.set(f, 10)
	}
	a.advance(0.1)
	b.advance(0.1)
	if !a.e.EveryoneHatesYou() || b.e.EveryoneHatesYou() {
		t.Error("engines share endgame state")
	}
}

func TestNilSink_Silent(t *testing.T) {
	e := New(state.DefaultDefs())
	e.HitNPC(types.NPC{ID: "x", Faction: types.Council})
	for _, f := range types.Factions {
		e.ApplyRespectDelta(f, -40)
	}
	e.Advance(0.1, types.Player{}, nil)
	if !e.EveryoneHatesYou() {
		t.Error("hostility should still be tracked without a sink")
	}
	if e.BuyRound() {
		t.Error("bought a round without a wallet")
	}
}
