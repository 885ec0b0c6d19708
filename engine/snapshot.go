package engine

import (
	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/types"
)

// FactionView is a copy of one faction's state at the time of a Snapshot.
type FactionView struct {
	Faction  types.Faction
	Name     string
	Standing int
	Band     standing.Band
	Pulsing  bool
	Cells    int
	Fraction float64
	Mission  *types.Mission // nil when no mission is active
	Won      bool
}

// Snapshot is a value copy of the engine state. Drivers render from it; it
// shares nothing with the live engine.
type Snapshot struct {
	Ticks     int64
	Clock     float64
	Factions  [types.NumFactions]FactionView
	Unclaimed int
	Total     int
	Allied    types.Faction
	Hostile   bool
	Victor    types.Faction
	Fence     float64
	RNGPos    int64
	Completed int
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Ticks:     e.ticks,
		Clock:     e.clock,
		Unclaimed: e.turf.Unclaimed(),
		Total:     e.turf.Total(),
		Allied:    e.ledger.Allied(),
		Hostile:   e.endgame.HostilityActive(),
		Victor:    e.endgame.Victor(),
		Fence:     e.endgame.FencePriceMultiplier(),
		RNGPos:    e.RNG.Position(),
		Completed: e.completed,
	}
	for i, f := range types.Factions {
		v := FactionView{
			Faction:  f,
			Name:     e.Defs.Faction(f).Name,
			Standing: e.ledger.Get(f),
			Band:     e.ledger.BandOf(f),
			Pulsing:  e.ledger.Pulsing(f),
			Cells:    e.turf.Owned(f),
			Fraction: e.turf.Fraction(f),
			Won:      e.endgame.HasWon(f),
		}
		if m, ok := e.board.Active(f); ok {
			v.Mission = &m
		}
		s.Factions[i] = v
	}
	return s
}

// Tick returns how many times Advance has run.
func (e *Engine) Tick() int64 {
	return e.ticks
}
