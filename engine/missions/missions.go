// Package missions runs the faction job board: at most one active mission
// per faction, counted down every tick, paid out on completion and
// penalised on expiry.
package missions

import (
	"github.com/google/uuid"

	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

// Rand picks a template index. engine.RNG satisfies it.
type Rand interface {
	Intn(n int) int
}

// Expiry reports a mission that ran out of time.
type Expiry struct {
	Mission types.Mission
	Penalty standing.Change
}

// Completion reports a finished mission and the standing ripple it caused.
type Completion struct {
	Mission types.Mission
	Reward  types.Reward
	Changes []standing.Change // faction gain first, then each rival
}

// Board holds the active missions.
type Board struct {
	defs   *state.Defs
	ledger *standing.Ledger
	rng    Rand
	active [types.NumFactions]*types.Mission

	// NewID generates mission IDs.
	NewID func() string
}

// New creates an empty board.
func New(defs *state.Defs, ledger *standing.Ledger, rng Rand) *Board {
	return &Board{
		defs:   defs,
		ledger: ledger,
		rng:    rng,
		NewID:  uuid.NewString,
	}
}

// Offer builds a mission for f from one of its templates, chosen uniformly,
// and makes it f's active mission. Any previous mission is dropped without
// penalty. Returns false when f has no templates.
func (b *Board) Offer(f types.Faction) (types.Mission, bool) {
	templates := b.defs.Templates(f)
	if len(templates) == 0 {
		return types.Mission{}, false
	}
	tpl := templates[b.rng.Intn(len(templates))]
	m := &types.Mission{
		ID:          b.NewID(),
		Faction:     f,
		Kind:        tpl.Kind,
		Title:       tpl.Title,
		Description: tpl.Description,
		RewardItem:  tpl.RewardItem,
		RewardCount: tpl.RewardCount,
		Coins:       tpl.Coins,
		Duration:    b.defs.Tuning.MissionDuration,
		Remaining:   b.defs.Tuning.MissionDuration,
	}
	b.active[f.Index()] = m
	return *m, true
}

// Active returns a copy of f's active mission.
func (b *Board) Active(f types.Faction) (types.Mission, bool) {
	m := b.active[f.Index()]
	if m == nil {
		return types.Mission{}, false
	}
	return *m, true
}

// Tick counts every active mission down by dt seconds. Missions reaching
// zero cost their faction the failure penalty and are discarded.
func (b *Board) Tick(dt float64) []Expiry {
	var expired []Expiry
	for _, f := range types.Factions {
		m := b.active[f.Index()]
		if m == nil {
			continue
		}
		m.Remaining -= dt
		if m.Remaining > 0 {
			continue
		}
		m.Remaining = 0
		b.active[f.Index()] = nil
		ch := b.ledger.ApplyDelta(f, b.defs.Tuning.MissionFailPenalty)
		expired = append(expired, Expiry{Mission: *m, Penalty: ch})
	}
	return expired
}

// TryComplete finishes f's active mission: the coin and item rewards go
// into wallet (when non-nil), f gains standing and each rival loses some.
// Returns false and does nothing when f has no active mission. Tick clears
// a slot as soon as its mission runs out, so an active mission always has
// time left.
func (b *Board) TryComplete(f types.Faction, wallet types.Wallet) (Completion, bool) {
	m := b.active[f.Index()]
	if m == nil {
		return Completion{}, false
	}
	b.active[f.Index()] = nil

	reward := types.Reward{
		Mission: m.ID,
		Coins:   m.Coins,
		Item:    m.RewardItem,
		Count:   m.RewardCount,
	}
	if wallet != nil {
		if reward.Coins > 0 {
			wallet.AddItem(b.defs.Tuning.CoinItem, reward.Coins)
		}
		if reward.Item != "" && reward.Count > 0 {
			wallet.AddItem(reward.Item, reward.Count)
		}
	}

	return Completion{
		Mission: *m,
		Reward:  reward,
		Changes: Ripple(b.ledger, b.defs, f),
	}, true
}

// Ripple applies the "mission completed" standing change: f gains, each of
// its rivals loses.
func Ripple(ledger *standing.Ledger, defs *state.Defs, f types.Faction) []standing.Change {
	changes := []standing.Change{ledger.ApplyDelta(f, defs.Tuning.MissionGainDelta)}
	for _, rival := range defs.Rivals(f) {
		changes = append(changes, ledger.ApplyDelta(rival, defs.Tuning.MissionRivalDelta))
	}
	return changes
}
