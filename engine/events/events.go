// Package events matches engine events against data-defined reactions.
// Reactions only produce text; they never feed back into the engine.
package events

import (
	"github.com/nathoo/turfwar/types"
)

// known lists every event type a reaction may name.
var known = map[string]bool{
	types.EventRespectChanged:   true,
	types.EventThresholdCrossed: true,
	types.EventTurfTransferred:  true,
	types.EventMissionOffered:   true,
	types.EventMissionExpired:   true,
	types.EventMissionCompleted: true,
	types.EventRoundBought:      true,
	types.EventHostilityStarted: true,
	types.EventHostilityEnded:   true,
	types.EventFactionVictory:   true,
	types.EventNPCHostile:       true,
}

// Known reports whether typ is an event type the engine emits.
func Known(typ string) bool {
	return known[typ]
}

// Dispatch runs reactions against the emitted events in a single pass and
// returns the lines they say, in event order, then reaction order.
func Dispatch(evs []types.Event, reactions []types.Reaction) []string {
	var out []string
	for _, ev := range evs {
		for _, r := range reactions {
			if Matches(r, ev) {
				out = append(out, r.Say)
			}
		}
	}
	return out
}

// Matches reports whether r applies to ev.
func Matches(r types.Reaction, ev types.Event) bool {
	if r.Event != ev.Type || r.Say == "" {
		return false
	}
	if r.Faction != types.NoFaction && eventFaction(ev) != r.Faction {
		return false
	}
	if r.To != "" {
		if to, _ := ev.Data["to"].(string); to != r.To {
			return false
		}
	}
	if r.Cause != "" {
		if cause, _ := ev.Data["cause"].(string); cause != r.Cause {
			return false
		}
	}
	return true
}

// eventFaction is the faction an event is about. Turf transfers are about
// the winner.
func eventFaction(ev types.Event) types.Faction {
	if f, ok := ev.Data["faction"].(types.Faction); ok {
		return f
	}
	f, _ := ev.Data["winner"].(types.Faction)
	return f
}
