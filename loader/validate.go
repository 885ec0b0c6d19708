package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/turfwar/engine/events"
	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	validateTuning(defs.Tuning, ve)
	validateMap(defs.Map, ve)

	for _, f := range types.Factions {
		def := defs.Faction(f)
		if def.Name == "" {
			ve.errorf("faction %s: name is required", f.Key())
		}
		if def.Territory == "" {
			ve.warnf("faction %s: no territory name; rumours will read oddly", f.Key())
		}
		seen := map[types.Faction]bool{}
		for _, r := range def.Rivals {
			if r == f {
				ve.errorf("faction %s: cannot be its own rival", f.Key())
			}
			if seen[r] {
				ve.errorf("faction %s: rival %s listed twice", f.Key(), r.Key())
			}
			seen[r] = true
		}
		validateMissions(f, defs.Templates(f), ve)
	}

	validateReactions(defs.Reactions, ve)

	// Warnings don't fail the load.
	for _, w := range ve.Warnings {
		slog.Warn("tuning", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateTuning(t state.Tuning, ve *ValidationError) {
	inRange := func(name string, v int) {
		if v < standing.MinStanding || v > standing.MaxStanding {
			ve.errorf("Tuning.%s = %d is outside [%d,%d]", name, v, standing.MinStanding, standing.MaxStanding)
		}
	}
	inRange("initial_standing", t.InitialStanding)
	inRange("hostile_at", t.HostileAt)
	inRange("friendly_at", t.FriendlyAt)
	inRange("hostility_ceiling", t.HostilityCeiling)
	inRange("victory_standing", t.VictoryStanding)

	if t.HostileAt >= t.FriendlyAt {
		ve.errorf("Tuning.hostile_at (%d) must be below friendly_at (%d)", t.HostileAt, t.FriendlyAt)
	}
	if t.TransferPercent < 0 || t.TransferPercent > 100 {
		ve.errorf("Tuning.transfer_percent = %d is outside [0,100]", t.TransferPercent)
	}
	if t.TransferGap < 0 {
		ve.errorf("Tuning.transfer_gap must not be negative")
	}
	if t.VictoryFraction <= 0 || t.VictoryFraction > 1 {
		ve.errorf("Tuning.victory_fraction = %v is outside (0,1]", t.VictoryFraction)
	}
	if t.MissionDuration <= 0 {
		ve.errorf("Tuning.mission_duration must be positive")
	}
	if t.PulseWindow < 0 {
		ve.errorf("Tuning.pulse_window must not be negative")
	}
	if t.RoundCost < 0 {
		ve.errorf("Tuning.round_cost must not be negative")
	}
	if t.ArrestRadius < 0 {
		ve.errorf("Tuning.arrest_radius must not be negative")
	}
	if t.RumorFanout < 0 || t.RumorRadius < 0 {
		ve.errorf("Tuning.rumor_fanout and rumor_radius must not be negative")
	}
	if t.CoinItem == "" {
		ve.errorf("Tuning.coin_item is required")
	}
	if t.FenceMarkup < 1 {
		ve.warnf("Tuning.fence_markup = %v makes fences cheaper when everyone hates you", t.FenceMarkup)
	}
	if t.MissionFailPenalty > 0 {
		ve.warnf("Tuning.mission_fail = %d rewards failing a mission", t.MissionFailPenalty)
	}
	if t.HitNPCDelta > 0 {
		ve.warnf("Tuning.hit_npc = %d rewards assault", t.HitNPCDelta)
	}
}

func validateMap(m state.MapDef, ve *ValidationError) {
	if m.Width < types.NumFactions {
		ve.errorf("Map.width must be at least %d (one district per faction), got %d", types.NumFactions, m.Width)
	}
	if m.Depth <= 0 {
		ve.errorf("Map.depth must be positive, got %d", m.Depth)
	}
	if m.NeutralRows < 0 || (m.Depth > 0 && m.NeutralRows >= m.Depth) {
		ve.errorf("Map.neutral_rows = %d leaves no claimable rows", m.NeutralRows)
	}
}

func validateMissions(f types.Faction, templates []types.MissionTemplate, ve *ValidationError) {
	if len(templates) == 0 {
		ve.errorf("faction %s: at least one Mission is required", f.Key())
		return
	}
	kinds := map[string]bool{}
	for i, tpl := range templates {
		where := fmt.Sprintf("faction %s mission %d", f.Key(), i+1)
		if tpl.Kind == "" {
			ve.errorf("%s: kind is required", where)
		} else if kinds[tpl.Kind] {
			ve.warnf("%s: duplicate kind %q", where, tpl.Kind)
		}
		kinds[tpl.Kind] = true
		if tpl.Title == "" {
			ve.errorf("%s: title is required", where)
		}
		if tpl.Coins < 0 {
			ve.errorf("%s: coins must not be negative", where)
		}
		if tpl.RewardCount < 0 {
			ve.errorf("%s: reward_count must not be negative", where)
		}
		if tpl.RewardCount > 0 && tpl.RewardItem == "" {
			ve.errorf("%s: reward_count set without reward_item", where)
		}
	}
}

func validateReactions(reactions []types.Reaction, ve *ValidationError) {
	for i, r := range reactions {
		where := fmt.Sprintf("reaction %d (%s)", i+1, r.Event)
		if !events.Known(r.Event) {
			ve.errorf("%s: unknown event type", where)
		}
		if r.Say == "" {
			ve.errorf("%s: say is required", where)
		}
		switch r.To {
		case "":
		case standing.Hostile.String(), standing.Neutral.String(), standing.Friendly.String():
			if r.Event != types.EventThresholdCrossed {
				ve.warnf("%s: to only applies to %s", where, types.EventThresholdCrossed)
			}
		default:
			ve.errorf("%s: to = %q is not a band (hostile, neutral, friendly)", where, r.To)
		}
		if r.Cause != "" && r.Event != types.EventRespectChanged {
			ve.warnf("%s: cause only applies to %s", where, types.EventRespectChanged)
		}
	}
}
