package endgame

import (
	"testing"

	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

type fixedStandings [types.NumFactions]int

func (s *fixedStandings) Get(f types.Faction) int { return s[f.Index()] }

type fixedTerritory [types.NumFactions]float64

func (t *fixedTerritory) Fraction(f types.Faction) float64 { return t[f.Index()] }

func setup() (*Evaluator, *fixedStandings, *fixedTerritory) {
	return New(state.DefaultTuning()), &fixedStandings{50, 50, 50}, &fixedTerritory{0.3, 0.3, 0.3}
}

func TestHostility_AllBelowThirty(t *testing.T) {
	tests := []struct {
		name      string
		standings fixedStandings
		want      bool
	}{
		{"all 25", fixedStandings{25, 25, 25}, true},
		{"all 29", fixedStandings{29, 29, 29}, true},
		{"one at 30", fixedStandings{29, 30, 29}, false},
		{"one high", fixedStandings{0, 0, 80}, false},
		{"all 0", fixedStandings{0, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, terr := setup()
			s := tt.standings
			out := e.Evaluate(&s, terr)
			if e.HostilityActive() != tt.want {
				t.Errorf("HostilityActive = %v, want %v", e.HostilityActive(), tt.want)
			}
			if out.HostilityStarted != tt.want {
				t.Errorf("HostilityStarted = %v, want %v", out.HostilityStarted, tt.want)
			}
		})
	}
}

func TestHostility_EdgeFiresOnce(t *testing.T) {
	e, s, terr := setup()
	*s = fixedStandings{25, 25, 25}

	if out := e.Evaluate(s, terr); !out.HostilityStarted {
		t.Fatal("expected hostility to start")
	}
	if out := e.Evaluate(s, terr); out.HostilityStarted || out.HostilityEnded {
		t.Errorf("steady state reported an edge: %+v", out)
	}
	if !e.HostilityActive() {
		t.Error("hostility should still be active")
	}
}

func TestHostility_Toggles(t *testing.T) {
	e, s, terr := setup()

	var started, ended int
	sequence := []fixedStandings{
		{25, 25, 25}, // on
		{25, 25, 25},
		{40, 25, 25}, // off
		{40, 25, 25},
		{20, 20, 20}, // on again
		{20, 20, 20},
	}
	for _, st := range sequence {
		*s = st
		out := e.Evaluate(s, terr)
		if out.HostilityStarted {
			started++
		}
		if out.HostilityEnded {
			ended++
		}
	}
	if started != 2 || ended != 1 {
		t.Errorf("started=%d ended=%d, want 2/1", started, ended)
	}
	if !e.HostilityActive() {
		t.Error("hostility should be active at the end")
	}
}

func TestFencePriceMultiplier(t *testing.T) {
	e, s, terr := setup()
	if e.FencePriceMultiplier() != 1.0 {
		t.Errorf("calm multiplier = %v", e.FencePriceMultiplier())
	}
	*s = fixedStandings{10, 10, 10}
	e.Evaluate(s, terr)
	if e.FencePriceMultiplier() != 1.5 {
		t.Errorf("hostile multiplier = %v, want 1.5", e.FencePriceMultiplier())
	}
	*s = fixedStandings{50, 10, 10}
	e.Evaluate(s, terr)
	if e.FencePriceMultiplier() != 1.0 {
		t.Errorf("multiplier after recovery = %v", e.FencePriceMultiplier())
	}
}

func TestVictory_RequiresBothConditions(t *testing.T) {
	tests := []struct {
		name     string
		standing int
		fraction float64
		want     bool
	}{
		{"both met", 92, 0.62, true},
		{"exact thresholds", 90, 0.60, true},
		{"standing short", 89, 0.9, false},
		{"territory short", 100, 0.59, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, s, terr := setup()
			s[types.Council.Index()] = tt.standing
			terr[types.Council.Index()] = tt.fraction
			out := e.Evaluate(s, terr)
			if got := out.Victory == types.Council; got != tt.want {
				t.Errorf("victory = %v, want %v", got, tt.want)
			}
			if e.HasWon(types.Council) != tt.want {
				t.Errorf("HasWon = %v, want %v", e.HasWon(types.Council), tt.want)
			}
		})
	}
}

func TestVictory_Sticky(t *testing.T) {
	e, s, terr := setup()
	s[types.Council.Index()] = 92
	terr[types.Council.Index()] = 0.62

	out := e.Evaluate(s, terr)
	if out.Victory != types.Council {
		t.Fatalf("expected council victory, got %s", out.Victory)
	}
	if e.Victor() != types.Council {
		t.Errorf("Victor = %s", e.Victor())
	}

	// Still satisfied: nothing new.
	for i := 0; i < 5; i++ {
		if out := e.Evaluate(s, terr); out.Victory != types.NoFaction {
			t.Fatalf("victory fired again: %s", out.Victory)
		}
	}

	// Standing collapses: still the victor.
	s[types.Council.Index()] = 10
	e.Evaluate(s, terr)
	if e.Victor() != types.Council {
		t.Errorf("Victor after collapse = %s", e.Victor())
	}

	// Recovers: still no second fire.
	s[types.Council.Index()] = 95
	if out := e.Evaluate(s, terr); out.Victory != types.NoFaction {
		t.Errorf("victory re-fired after recovery: %s", out.Victory)
	}
}

func TestVictory_OnlyFirstFactionWins(t *testing.T) {
	e, s, terr := setup()
	s[types.Marchetti.Index()] = 95
	terr[types.Marchetti.Index()] = 0.7
	e.Evaluate(s, terr)

	s[types.Marchetti.Index()] = 40
	terr[types.Marchetti.Index()] = 0.1
	s[types.StreetLads.Index()] = 91
	terr[types.StreetLads.Index()] = 0.65
	if out := e.Evaluate(s, terr); out.Victory != types.NoFaction {
		t.Errorf("second faction won too: %s", out.Victory)
	}
	if e.HasWon(types.StreetLads) {
		t.Error("Street Lads should not have won")
	}
	if e.Victor() != types.Marchetti || !e.HasWon(types.Marchetti) {
		t.Errorf("Victor = %s, want first winner", e.Victor())
	}
}

func TestVictory_SimultaneousGoesToEarlierFaction(t *testing.T) {
	e, s, terr := setup()
	*s = fixedStandings{95, 95, 95}
	*terr = fixedTerritory{0.6, 0.6, 0.6}
	if out := e.Evaluate(s, terr); out.Victory != types.Marchetti {
		t.Errorf("Victory = %s, want marchetti", out.Victory)
	}
	if e.HasWon(types.StreetLads) || e.HasWon(types.Council) {
		t.Error("only one faction may win")
	}
}

func TestEvaluators_Independent(t *testing.T) {
	a, s, terr := setup()
	b := New(state.DefaultTuning())
	*s = fixedStandings{10, 10, 10}
	a.Evaluate(s, terr)
	if b.HostilityActive() {
		t.Error("separate evaluators share state")
	}
	if out := b.Evaluate(s, terr); !out.HostilityStarted {
		t.Error("second evaluator should see its own edge")
	}
}

func TestVictor_NoneYet(t *testing.T) {
	e, _, _ := setup()
	if e.Victor() != types.NoFaction {
		t.Errorf("Victor = %s, want none", e.Victor())
	}
}
