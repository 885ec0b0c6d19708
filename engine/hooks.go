package engine

import (
	"fmt"

	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/engine/territory"
	"github.com/nathoo/turfwar/types"
)

// ApplyRespectDelta changes f's standing by delta, clamped to [0,100].
func (e *Engine) ApplyRespectDelta(f types.Faction, delta int) standing.Change {
	ch := e.ledger.ApplyDelta(f, delta)
	e.respectChanged(ch, "direct")
	return ch
}

// Respect returns f's current standing.
func (e *Engine) Respect(f types.Faction) int {
	return e.ledger.Get(f)
}

// Pulsing reports whether f's standing changed within the display window.
func (e *Engine) Pulsing(f types.Faction) bool {
	return e.ledger.Pulsing(f)
}

// IsHostile reports whether f treats the player as an enemy.
func (e *Engine) IsHostile(f types.Faction) bool {
	return e.ledger.IsHostile(f)
}

// IsFriendly reports whether f treats the player as a friend.
func (e *Engine) IsFriendly(f types.Faction) bool {
	return e.ledger.IsFriendly(f)
}

// AlliedFaction returns the player's friendliest faction, or NoFaction.
func (e *Engine) AlliedFaction() types.Faction {
	return e.ledger.Allied()
}

// HitNPC records the player attacking npc. Civilians carry no faction and
// the call is then a no-op returning false.
func (e *Engine) HitNPC(npc types.NPC) bool {
	if !npc.Faction.Valid() {
		return false
	}
	def := e.Defs.Faction(npc.Faction)
	e.change(npc.Faction, e.Defs.Tuning.HitNPCDelta, "hit_npc")
	e.bridge.Seed(e.npcs, npc.Pos, types.RumorPlayerAction,
		fmt.Sprintf("Someone just battered %s. %s won't forget that.", npcName(npc), def.Name))
	return true
}

// DamageStructure records the player damaging the block at (x, z). The
// owner loses standing and each of its rivals gains some. Returns the owner,
// or NoFaction for unclaimed ground.
func (e *Engine) DamageStructure(x, z int) types.Faction {
	owner := e.turf.Owner(x, z)
	if owner == types.NoFaction {
		return types.NoFaction
	}
	tu := e.Defs.Tuning
	def := e.Defs.Faction(owner)
	e.change(owner, tu.StructureOwnerDelta, "structure_damaged")
	for _, rival := range e.Defs.Rivals(owner) {
		e.change(rival, tu.StructureRivalDelta, "rival_structure_damaged")
	}
	e.bridge.Seed(e.npcs, cellCentre(x, z), types.RumorPlayerAction,
		"Somebody's been smashing up "+def.Territory+".")
	return owner
}

// BuyRound spends the round cost from the player's wallet and gives every
// faction a small bump. Returns false, changing nothing, when the player
// can't pay.
func (e *Engine) BuyRound() bool {
	tu := e.Defs.Tuning
	w := e.player.Wallet
	if w == nil || w.ItemCount(tu.CoinItem) < tu.RoundCost || !w.RemoveItem(tu.CoinItem, tu.RoundCost) {
		return false
	}
	for _, f := range types.Factions {
		e.change(f, tu.RoundDelta, "round_bought")
	}
	e.emit(types.EventRoundBought, "You get a round in for the whole pub.", map[string]any{"cost": tu.RoundCost})
	e.bridge.Seed(e.npcs, e.player.Pos, types.RumorPlayerAction, "That one bought the whole pub a drink.")
	return true
}

// Graffiti records the player tagging the block at (x, z). It only counts
// in rival territory: the owner loses standing and the player's allied
// faction, if there is one, gains. Returns false on unclaimed ground or on
// the allied faction's own turf.
func (e *Engine) Graffiti(x, z int) bool {
	owner := e.turf.Owner(x, z)
	allied := e.ledger.Allied()
	if owner == types.NoFaction || owner == allied {
		return false
	}
	tu := e.Defs.Tuning
	e.change(owner, tu.GraffitiVictimDelta, "graffiti")
	if allied != types.NoFaction {
		e.change(allied, tu.GraffitiAllyDelta, "graffiti_for_ally")
	}
	e.bridge.Seed(e.npcs, cellCentre(x, z), types.RumorPlayerAction,
		"Fresh tags all over "+e.Defs.Faction(owner).Territory+".")
	return true
}

// Arrested records the player being nicked at pos. The faction owning the
// nearest block within the arrest radius gains a little standing. Returns
// that faction, or NoFaction when no claimed block is close enough.
func (e *Engine) Arrested(pos types.Vec) types.Faction {
	x, z := territory.CellOf(pos)
	f := e.turf.NearestOwner(x, z, e.Defs.Tuning.ArrestRadius)
	if f == types.NoFaction {
		return types.NoFaction
	}
	e.change(f, e.Defs.Tuning.ArrestDelta, "arrested")
	e.bridge.Seed(e.npcs, pos, types.RumorPlayerAction, "Saw the police drag that one off. Kept their mouth shut, mind.")
	return f
}

// OfferMission gives f a fresh mission, replacing any current one.
func (e *Engine) OfferMission(f types.Faction) (types.Mission, bool) {
	m, ok := e.board.Offer(f)
	if !ok {
		return types.Mission{}, false
	}
	e.emit(types.EventMissionOffered,
		fmt.Sprintf("%s have a job for you: %s.", e.Defs.Faction(f).Name, m.Title),
		map[string]any{"faction": f, "mission": m.ID, "kind": m.Kind})
	e.log.Info("mission offered", "faction", e.Defs.Faction(f).Name, "mission", m.Title, "id", m.ID)
	return m, true
}

// ActiveMission returns a copy of f's active mission.
func (e *Engine) ActiveMission(f types.Faction) (types.Mission, bool) {
	return e.board.Active(f)
}

// TryCompleteMission completes f's active mission, paying the reward into
// the player's wallet and applying the standing ripple.
func (e *Engine) TryCompleteMission(f types.Faction) (types.Reward, bool) {
	c, ok := e.board.TryComplete(f, e.player.Wallet)
	if !ok {
		return types.Reward{}, false
	}
	for _, ch := range c.Changes {
		e.respectChanged(ch, "mission_completed")
	}
	def := e.Defs.Faction(f)
	e.emit(types.EventMissionCompleted,
		fmt.Sprintf("Job done: %s. %s pay you %d coins.", c.Mission.Title, def.Name, c.Reward.Coins),
		map[string]any{"faction": f, "mission": c.Mission.ID, "coins": c.Reward.Coins})
	e.bridge.Seed(e.npcs, e.player.Pos, types.RumorGangActivity, "Word is you're doing jobs for "+def.Name+" now.")
	e.log.Info("mission completed", "faction", def.Name, "mission", c.Mission.Title, "coins", c.Reward.Coins)

	e.completed++
	if e.completed == 1 {
		e.unlock("first_mission")
	}
	return c.Reward, true
}

// EveryoneHatesYou reports whether universal hostility is active.
func (e *Engine) EveryoneHatesYou() bool {
	return e.endgame.HostilityActive()
}

// VictoriousFaction returns the faction that won the town, or NoFaction.
func (e *Engine) VictoriousFaction() types.Faction {
	return e.endgame.Victor()
}

// FencePriceMultiplier returns the fence markup currently in force.
func (e *Engine) FencePriceMultiplier() float64 {
	return e.endgame.FencePriceMultiplier()
}

// Ownership returns the share of the map f controls.
func (e *Engine) Ownership(f types.Faction) float64 {
	return e.turf.Fraction(f)
}

// Owner returns who controls the block at (x, z).
func (e *Engine) Owner(x, z int) types.Faction {
	return e.turf.Owner(x, z)
}

func (e *Engine) change(f types.Faction, delta int, cause string) standing.Change {
	ch := e.ledger.ApplyDelta(f, delta)
	e.respectChanged(ch, cause)
	return ch
}

func npcName(npc types.NPC) string {
	if npc.Name != "" {
		return npc.Name
	}
	return "one of theirs"
}

func cellCentre(x, z int) types.Vec {
	return types.Vec{X: float64(x) + 0.5, Z: float64(z) + 0.5}
}
