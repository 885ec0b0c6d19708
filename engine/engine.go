// Package engine provides the Advance() orchestrator that wires the standing
// ledger, territory map, mission board and endgame evaluator into a single
// per-frame tick, plus the player-action hooks other gameplay code calls.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/turfwar/engine/endgame"
	"github.com/nathoo/turfwar/engine/missions"
	"github.com/nathoo/turfwar/engine/notify"
	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/engine/territory"
	"github.com/nathoo/turfwar/types"
)

// Engine holds the definitions and all mutable faction state for one game
// session. It is not safe for concurrent use.
type Engine struct {
	Defs *state.Defs
	RNG  *RNG

	ledger  *standing.Ledger
	turf    *territory.Map
	board   *missions.Board
	endgame *endgame.Evaluator
	bridge  *notify.Bridge

	sink    notify.Sink
	log     *slog.Logger
	achieve func(name string)

	player  types.Player
	npcs    []types.NPC
	pending []types.Event
	turned  map[string]bool // NPC IDs set hostile during the current Advance

	ticks     int64
	clock     float64
	completed int
	seed      int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the RNG used for mission templates and turf sampling.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSink connects the engine to the world's rumour and NPC systems.
func WithSink(s notify.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithAchievements registers a callback fired with an achievement name.
func WithAchievements(fn func(name string)) Option {
	return func(e *Engine) { e.achieve = fn }
}

// New creates an engine with every faction at the initial standing and the
// map seeded into districts.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{Defs: defs}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}

	e.RNG = NewRNG(e.seed)
	e.ledger = standing.New(defs.Tuning)
	e.turf = territory.New(defs.Map.Width, defs.Map.Depth)
	e.turf.SeedDistricts(defs.Map.NeutralRows)
	e.board = missions.New(defs, e.ledger, e.RNG)
	e.endgame = endgame.New(defs.Tuning)
	e.bridge = notify.New(e.sink, defs.Tuning.RumorRadius, defs.Tuning.RumorFanout)

	e.log.Info("turf engine started",
		"seed", e.seed,
		"cells", e.turf.Total(),
		"unclaimed", e.turf.Unclaimed(),
	)
	return e
}

// Territory returns the map for layout setup. Callers must not mutate it
// once the game is running.
func (e *Engine) Territory() *territory.Map {
	return e.turf
}

// SetScene records the player and live NPCs that hooks called between ticks
// should use for rumour targets and wallet access.
func (e *Engine) SetScene(player types.Player, npcs []types.NPC) {
	e.player = player
	e.npcs = npcs
}

// Advance runs one frame: pulse decay, mission timers, territory scan,
// threshold crossings, NPC hostility refresh and endgame evaluation, in that
// order. It returns every event emitted since the previous Advance or Drain.
func (e *Engine) Advance(dt float64, player types.Player, npcs []types.NPC) types.Result {
	e.SetScene(player, npcs)
	e.turned = map[string]bool{}
	e.ticks++
	e.clock += dt

	// 1. "Recently changed" indicators.
	e.ledger.Tick(dt)

	// 2. Mission timers.
	for _, x := range e.board.Tick(dt) {
		e.missionExpired(x)
	}

	// 3. Territory scan.
	e.scanTurf()

	// 4. Threshold crossings.
	for _, c := range e.ledger.Crossings() {
		e.thresholdCrossed(c)
	}

	// 5. NPC hostility refresh.
	e.refreshHostility()

	// 6. Endgame.
	e.evaluateEndgame()

	return e.Drain()
}

// Drain returns and clears the pending events.
func (e *Engine) Drain() types.Result {
	var r types.Result
	r.Events = e.pending
	for _, ev := range e.pending {
		if ev.Text != "" {
			r.Output = append(r.Output, ev.Text)
		}
	}
	e.pending = nil
	return r
}

// scanTurf checks every unordered faction pair and moves turf from the
// lower-standing faction to the higher one when the gap is too wide.
func (e *Engine) scanTurf() {
	tu := e.Defs.Tuning
	for i := 0; i < types.NumFactions; i++ {
		for j := i + 1; j < types.NumFactions; j++ {
			a, b := types.Factions[i], types.Factions[j]
			winner, loser := a, b
			if e.ledger.Get(b) > e.ledger.Get(a) {
				winner, loser = b, a
			}
			gap := e.ledger.Get(winner) - e.ledger.Get(loser)
			if gap <= tu.TransferGap {
				continue
			}
			moved := e.turf.Transfer(loser, winner, tu.TransferPercent, e.RNG)
			if len(moved) == 0 {
				continue
			}
			e.turfTransferred(winner, loser, len(moved), gap)
		}
	}
}

// refreshHostility turns faction NPCs hostile while their faction's
// standing sits in the hostile band.
func (e *Engine) refreshHostility() {
	changed := e.bridge.SetHostile(e.npcs, func(npc types.NPC) bool {
		return npc.Faction.Valid() && e.ledger.IsHostile(npc.Faction)
	})
	for _, npc := range changed {
		e.turned[npc.ID] = true
	}
	if len(changed) > 0 {
		e.emit(types.EventNPCHostile, "", map[string]any{"count": len(changed)})
	}
}

func (e *Engine) evaluateEndgame() {
	out := e.endgame.Evaluate(e.ledger, e.turf)

	if out.HostilityStarted {
		e.hostilityStarted()
	}
	if out.HostilityEnded {
		e.emit(types.EventHostilityEnded, "Word on the street is you're not quite so hated any more.", nil)
		e.log.Info("universal hostility ended", "tick", e.ticks)
	}
	if out.Victory != types.NoFaction {
		e.factionVictory(out.Victory)
	}
}

func (e *Engine) hostilityStarted() {
	text := "Everyone in town hates you. Every crew, every councillor, every lad on every corner."
	e.bridge.Broadcast(e.npcs, e.player.Pos, types.RumorEndgame, "Nobody in "+e.Defs.Game.Town+" will give that one the time of day.")
	changed := e.bridge.SetHostile(e.npcs, func(npc types.NPC) bool {
		return npc.Faction.Valid() && !e.turned[npc.ID]
	})
	e.emit(types.EventHostilityStarted, text, map[string]any{"npcs_turned": len(changed)})
	e.unlock("everyone_hates_you")
	e.log.Info("universal hostility started", "tick", e.ticks, "npcs_turned", len(changed))
}

func (e *Engine) factionVictory(f types.Faction) {
	def := e.Defs.Faction(f)
	e.bridge.Broadcast(e.npcs, e.player.Pos, types.RumorEndgame, def.Name+" run "+e.Defs.Game.Town+" now.")
	e.emit(types.EventFactionVictory, def.VictoryText, map[string]any{
		"faction":  f,
		"standing": e.ledger.Get(f),
		"fraction": e.turf.Fraction(f),
		"x":        e.player.Pos.X,
		"z":        e.player.Pos.Z,
	})
	e.unlock(f.Key() + "_victory")
	e.log.Info("faction victory", "faction", def.Name, "tick", e.ticks, "fraction", e.turf.Fraction(f))
}

func (e *Engine) missionExpired(x missions.Expiry) {
	def := e.Defs.Faction(x.Mission.Faction)
	e.emit(types.EventMissionExpired,
		fmt.Sprintf("You ran out of time on %q. %s are not impressed.", x.Mission.Title, def.Name),
		map[string]any{"faction": x.Mission.Faction, "mission": x.Mission.ID})
	e.respectChanged(x.Penalty, "mission_failed")
	e.bridge.Seed(e.npcs, e.player.Pos, types.RumorGangActivity, "Heard someone let "+def.Name+" down.")
	e.log.Info("mission expired", "faction", def.Name, "mission", x.Mission.Title)
}

func (e *Engine) turfTransferred(winner, loser types.Faction, cells, gap int) {
	w, l := e.Defs.Faction(winner), e.Defs.Faction(loser)
	e.emit(types.EventTurfTransferred,
		fmt.Sprintf("%s take %d blocks of %s from %s.", w.Name, cells, l.Territory, l.Name),
		map[string]any{"winner": winner, "loser": loser, "cells": cells, "gap": gap})
	e.bridge.Seed(e.npcs, e.player.Pos, types.RumorTerritory, w.Name+" are moving in on "+l.Territory+".")
	e.log.Info("turf transferred",
		"winner", w.Name,
		"loser", l.Name,
		"cells", cells,
		"gap", gap,
	)
}

func (e *Engine) thresholdCrossed(c standing.Crossing) {
	def := e.Defs.Faction(c.Faction)
	var text string
	switch c.To {
	case standing.Hostile:
		text = def.Name + " now consider you an enemy."
	case standing.Friendly:
		text = def.Name + " now consider you a friend."
	default:
		text = def.Name + " no longer feel strongly about you either way."
	}
	e.emit(types.EventThresholdCrossed, text, map[string]any{
		"faction": c.Faction,
		"from":    c.From.String(),
		"to":      c.To.String(),
		"value":   c.Value,
	})
	e.bridge.Seed(e.npcs, e.player.Pos, types.RumorGangActivity, text)
}

func (e *Engine) respectChanged(ch standing.Change, cause string) {
	e.emit(types.EventRespectChanged, "", map[string]any{
		"faction": ch.Faction,
		"before":  ch.Before,
		"after":   ch.After,
		"cause":   cause,
	})
}

func (e *Engine) emit(typ, text string, data map[string]any) {
	e.pending = append(e.pending, types.Event{Type: typ, Text: text, Data: data})
	e.log.Debug("event", "type", typ, "tick", e.ticks)
}

func (e *Engine) unlock(name string) {
	if e.achieve != nil {
		e.achieve(name)
	}
}
