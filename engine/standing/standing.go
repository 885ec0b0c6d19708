// Package standing implements the ledger of each faction's standing toward
// the player. ApplyDelta is the only mutation entry point and clamps every
// value to [MinStanding, MaxStanding].
package standing

import (
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

const (
	MinStanding = 0
	MaxStanding = 100
)

// Band is the coarse attitude derived from a standing value.
type Band int

const (
	Neutral Band = iota
	Hostile
	Friendly
)

func (b Band) String() string {
	switch b {
	case Hostile:
		return "hostile"
	case Friendly:
		return "friendly"
	default:
		return "neutral"
	}
}

// Change describes one applied delta.
type Change struct {
	Faction types.Faction
	Before  int
	After   int
}

// Applied returns the delta actually applied after clamping.
func (c Change) Applied() int {
	return c.After - c.Before
}

// Crossing records a faction moving from one band to another.
type Crossing struct {
	Faction types.Faction
	From    Band
	To      Band
	Value   int
}

// Ledger holds the standing of every faction.
type Ledger struct {
	tuning   state.Tuning
	values   [types.NumFactions]int
	pulse    [types.NumFactions]float64
	observed [types.NumFactions]Band
}

// New creates a ledger with every faction at the initial standing.
func New(tuning state.Tuning) *Ledger {
	l := &Ledger{tuning: tuning}
	initial := clamp(tuning.InitialStanding)
	for i := range l.values {
		l.values[i] = initial
	}
	for _, f := range types.Factions {
		l.observed[f.Index()] = l.BandOf(f)
	}
	return l
}

// ApplyDelta adds delta to f's standing and clamps the result. It also arms
// the faction's "recently changed" pulse.
func (l *Ledger) ApplyDelta(f types.Faction, delta int) Change {
	i := f.Index()
	before := l.values[i]
	l.values[i] = clamp(before + delta)
	l.pulse[i] = l.tuning.PulseWindow
	return Change{Faction: f, Before: before, After: l.values[i]}
}

// Get returns f's current standing.
func (l *Ledger) Get(f types.Faction) int {
	return l.values[f.Index()]
}

// Values returns a copy of every standing, indexed by Faction.Index.
func (l *Ledger) Values() [types.NumFactions]int {
	return l.values
}

// IsHostile reports whether f's standing is at or below the hostile line.
func (l *Ledger) IsHostile(f types.Faction) bool {
	return l.Get(f) <= l.tuning.HostileAt
}

// IsFriendly reports whether f's standing is at or above the friendly line.
func (l *Ledger) IsFriendly(f types.Faction) bool {
	return l.Get(f) >= l.tuning.FriendlyAt
}

// BandOf returns f's current band.
func (l *Ledger) BandOf(f types.Faction) Band {
	switch {
	case l.IsHostile(f):
		return Hostile
	case l.IsFriendly(f):
		return Friendly
	default:
		return Neutral
	}
}

// Crossings returns the band changes since the previous call, in faction
// order, and records the current bands as observed.
func (l *Ledger) Crossings() []Crossing {
	var out []Crossing
	for _, f := range types.Factions {
		i := f.Index()
		now := l.BandOf(f)
		if now != l.observed[i] {
			out = append(out, Crossing{Faction: f, From: l.observed[i], To: now, Value: l.values[i]})
			l.observed[i] = now
		}
	}
	return out
}

// Tick decays the pulse timers by dt seconds.
func (l *Ledger) Tick(dt float64) {
	for i := range l.pulse {
		if l.pulse[i] <= 0 {
			continue
		}
		l.pulse[i] -= dt
		if l.pulse[i] < 0 {
			l.pulse[i] = 0
		}
	}
}

// Pulsing reports whether f's standing changed within the pulse window.
func (l *Ledger) Pulsing(f types.Faction) bool {
	return l.pulse[f.Index()] > 0
}

// Allied returns the friendliest faction that is in the friendly band, or
// NoFaction if none is. Ties go to the earlier faction.
func (l *Ledger) Allied() types.Faction {
	best := types.NoFaction
	bestVal := -1
	for _, f := range types.Factions {
		if l.IsFriendly(f) && l.Get(f) > bestVal {
			best, bestVal = f, l.Get(f)
		}
	}
	return best
}

func clamp(v int) int {
	if v < MinStanding {
		return MinStanding
	}
	if v > MaxStanding {
		return MaxStanding
	}
	return v
}
