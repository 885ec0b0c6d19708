// Package endgame detects the two global narrative states: universal
// hostility, re-derived every tick, and faction victory, which is sticky
// and fires once per session: the first faction to win is the only one.
package endgame

import (
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

// Standings is the read side of the standing ledger.
type Standings interface {
	Get(f types.Faction) int
}

// Territory is the read side of the territory map.
type Territory interface {
	Fraction(f types.Faction) float64
}

// Outcome is what changed during one evaluation.
type Outcome struct {
	HostilityStarted bool
	HostilityEnded   bool
	Victory          types.Faction // the faction that won on this evaluation, or NoFaction
}

// Evaluator carries the one-time state for a single game session.
type Evaluator struct {
	tuning  state.Tuning
	hostile bool
	victor  types.Faction
}

// New creates an evaluator with no hostility and no victor.
func New(tuning state.Tuning) *Evaluator {
	return &Evaluator{tuning: tuning}
}

// Evaluate re-derives hostility and, until some faction has won, checks
// every faction for the victory condition in faction order.
func (e *Evaluator) Evaluate(standings Standings, territory Territory) Outcome {
	var out Outcome

	hostile := true
	for _, f := range types.Factions {
		if standings.Get(f) >= e.tuning.HostilityCeiling {
			hostile = false
			break
		}
	}
	switch {
	case hostile && !e.hostile:
		out.HostilityStarted = true
	case !hostile && e.hostile:
		out.HostilityEnded = true
	}
	e.hostile = hostile

	if e.victor != types.NoFaction {
		return out
	}
	for _, f := range types.Factions {
		if standings.Get(f) >= e.tuning.VictoryStanding && territory.Fraction(f) >= e.tuning.VictoryFraction {
			e.victor = f
			out.Victory = f
			break
		}
	}
	return out
}

// HostilityActive reports whether every faction currently hates the player.
func (e *Evaluator) HostilityActive() bool {
	return e.hostile
}

// Victor returns the faction that won, or NoFaction.
func (e *Evaluator) Victor() types.Faction {
	return e.victor
}

// HasWon reports whether f is the victor.
func (e *Evaluator) HasWon(f types.Faction) bool {
	return f.Valid() && e.victor == f
}

// FencePriceMultiplier is the markup fences charge while everyone hates the
// player.
func (e *Evaluator) FencePriceMultiplier() float64 {
	if e.hostile {
		return e.tuning.FenceMarkup
	}
	return 1.0
}
