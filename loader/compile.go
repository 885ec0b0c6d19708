// Package loader loads Lua tuning files into Go structs at startup.
// Nothing from Lua survives past Load.
package loader

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
	lua "github.com/yuin/gopher-lua"
)

// rawFaction holds a faction table before compilation.
type rawFaction struct {
	key   string
	table *lua.LTable
}

// rawMission holds a mission template table before compilation.
type rawMission struct {
	faction string
	table   *lua.LTable
}

// rawReaction holds a reaction table before compilation.
type rawReaction struct {
	event string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table and whether it was set.
func getNumber(tbl *lua.LTable, key string) (float64, bool) {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n), true
	}
	return 0, false
}

// getInt returns an integer field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	n, _ := getNumber(tbl, key)
	return int(n)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStrings converts a Lua array of strings to a Go slice.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// checkKeys reports any string key of tbl not in allowed.
func checkKeys(tbl *lua.LTable, what string, allowed ...string) error {
	known := map[string]bool{}
	for _, k := range allowed {
		known[k] = true
	}
	var unknown []string
	tbl.ForEach(func(k, _ lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok || !known[string(ks)] {
			unknown = append(unknown, k.String())
		}
	})
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s: unknown field(s) %s", what, strings.Join(unknown, ", "))
}

// compile overlays the collected tables on the stock definitions.
func compile(coll *collector) (*state.Defs, error) {
	defs := state.DefaultDefs()

	if coll.game != nil {
		if err := compileGame(coll.game, &defs.Game); err != nil {
			return nil, err
		}
	}

	for _, tbl := range coll.tuning {
		if err := compileTuning(tbl, &defs.Tuning); err != nil {
			return nil, err
		}
	}

	if coll.mapDef != nil {
		if err := compileMap(coll.mapDef, &defs.Map); err != nil {
			return nil, err
		}
	}

	for _, raw := range coll.factions {
		f, ok := types.FactionByKey(raw.key)
		if !ok {
			return nil, fmt.Errorf("unknown faction %q", raw.key)
		}
		def, err := compileFaction(raw, defs.Factions[f.Index()])
		if err != nil {
			return nil, fmt.Errorf("compiling faction %s: %w", raw.key, err)
		}
		defs.Factions[f.Index()] = def
	}

	// Any Mission for a faction replaces that faction's stock templates.
	var replaced [types.NumFactions]bool
	for i, raw := range coll.missions {
		f, ok := types.FactionByKey(raw.faction)
		if !ok {
			return nil, fmt.Errorf("mission %d: unknown faction %q", i+1, raw.faction)
		}
		tpl, err := compileMission(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling mission %d for %s: %w", i+1, raw.faction, err)
		}
		if !replaced[f.Index()] {
			defs.Missions[f.Index()] = nil
			replaced[f.Index()] = true
		}
		defs.Missions[f.Index()] = append(defs.Missions[f.Index()], tpl)
	}

	// Reactions likewise replace the stock set as a whole.
	if len(coll.reactions) > 0 {
		defs.Reactions = nil
	}
	for i, raw := range coll.reactions {
		r, err := compileReaction(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling reaction %d (%s): %w", i+1, raw.event, err)
		}
		defs.Reactions = append(defs.Reactions, r)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable, g *state.GameDef) error {
	if err := checkKeys(tbl, "Game", "title", "town", "version", "intro"); err != nil {
		return err
	}
	setString(tbl, "title", &g.Title)
	setString(tbl, "town", &g.Town)
	setString(tbl, "version", &g.Version)
	setString(tbl, "intro", &g.Intro)
	return nil
}

func compileMap(tbl *lua.LTable, m *state.MapDef) error {
	ints := map[string]*int{
		"width":        &m.Width,
		"depth":        &m.Depth,
		"neutral_rows": &m.NeutralRows,
	}
	return assignNumbers(tbl, "Map", ints, nil)
}

// tuningFields maps Lua keys to Tuning fields.
func tuningFields(t *state.Tuning) (map[string]*int, map[string]*float64) {
	ints := map[string]*int{
		"initial_standing":  &t.InitialStanding,
		"hostile_at":        &t.HostileAt,
		"friendly_at":       &t.FriendlyAt,
		"hit_npc":           &t.HitNPCDelta,
		"structure_owner":   &t.StructureOwnerDelta,
		"structure_rival":   &t.StructureRivalDelta,
		"mission_gain":      &t.MissionGainDelta,
		"mission_rival":     &t.MissionRivalDelta,
		"mission_fail":      &t.MissionFailPenalty,
		"round_delta":       &t.RoundDelta,
		"round_cost":        &t.RoundCost,
		"graffiti_victim":   &t.GraffitiVictimDelta,
		"graffiti_ally":     &t.GraffitiAllyDelta,
		"arrest_delta":      &t.ArrestDelta,
		"arrest_radius":     &t.ArrestRadius,
		"transfer_gap":      &t.TransferGap,
		"transfer_percent":  &t.TransferPercent,
		"hostility_ceiling": &t.HostilityCeiling,
		"victory_standing":  &t.VictoryStanding,
		"rumor_fanout":      &t.RumorFanout,
	}
	floats := map[string]*float64{
		"pulse_window":     &t.PulseWindow,
		"mission_duration": &t.MissionDuration,
		"victory_fraction": &t.VictoryFraction,
		"fence_markup":     &t.FenceMarkup,
		"rumor_radius":     &t.RumorRadius,
	}
	return ints, floats
}

func compileTuning(tbl *lua.LTable, t *state.Tuning) error {
	ints, floats := tuningFields(t)
	if v := tbl.RawGetString("coin_item"); v != lua.LNil {
		s, ok := v.(lua.LString)
		if !ok {
			return fmt.Errorf("Tuning.coin_item: expected string, got %s", v.Type())
		}
		t.CoinItem = string(s)
	}
	return assignNumbers(tbl, "Tuning", ints, floats, "coin_item")
}

// assignNumbers copies numeric fields of tbl into the given targets. Integer
// targets reject fractional values; keys outside the targets are errors.
func assignNumbers(tbl *lua.LTable, what string, ints map[string]*int, floats map[string]*float64, extra ...string) error {
	allowed := append([]string(nil), extra...)
	for k := range ints {
		allowed = append(allowed, k)
	}
	for k := range floats {
		allowed = append(allowed, k)
	}
	if err := checkKeys(tbl, what, allowed...); err != nil {
		return err
	}

	for key, dst := range ints {
		v := tbl.RawGetString(key)
		if v == lua.LNil {
			continue
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("%s.%s: expected number, got %s", what, key, v.Type())
		}
		if float64(n) != math.Trunc(float64(n)) {
			return fmt.Errorf("%s.%s: expected whole number, got %v", what, key, float64(n))
		}
		*dst = int(n)
	}
	for key, dst := range floats {
		v := tbl.RawGetString(key)
		if v == lua.LNil {
			continue
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("%s.%s: expected number, got %s", what, key, v.Type())
		}
		*dst = float64(n)
	}
	return nil
}

// compileFaction overlays a faction table on the existing definition.
func compileFaction(raw rawFaction, def state.FactionDef) (state.FactionDef, error) {
	tbl := raw.table
	if err := checkKeys(tbl, "Faction", "name", "territory", "victory", "rivals"); err != nil {
		return def, err
	}
	setString(tbl, "name", &def.Name)
	setString(tbl, "territory", &def.Territory)
	setString(tbl, "victory", &def.VictoryText)

	if rt := getTable(tbl, "rivals"); rt != nil {
		keys := tableToStrings(rt)
		if len(keys) != rt.MaxN() {
			return def, fmt.Errorf("rivals must be a list of faction keys")
		}
		def.Rivals = nil
		for _, k := range keys {
			f, ok := types.FactionByKey(k)
			if !ok {
				return def, fmt.Errorf("unknown rival %q", k)
			}
			def.Rivals = append(def.Rivals, f)
		}
	}
	return def, nil
}

func compileMission(raw rawMission) (types.MissionTemplate, error) {
	tbl := raw.table
	if err := checkKeys(tbl, "Mission", "kind", "title", "description", "reward_item", "reward_count", "coins"); err != nil {
		return types.MissionTemplate{}, err
	}
	return types.MissionTemplate{
		Kind:        getString(tbl, "kind"),
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		RewardItem:  getString(tbl, "reward_item"),
		RewardCount: getInt(tbl, "reward_count"),
		Coins:       getInt(tbl, "coins"),
	}, nil
}

func compileReaction(raw rawReaction) (types.Reaction, error) {
	tbl := raw.table
	if err := checkKeys(tbl, "On", "faction", "to", "cause", "say"); err != nil {
		return types.Reaction{}, err
	}
	r := types.Reaction{
		Event: raw.event,
		To:    getString(tbl, "to"),
		Cause: getString(tbl, "cause"),
		Say:   getString(tbl, "say"),
	}
	if key := getString(tbl, "faction"); key != "" {
		f, ok := types.FactionByKey(key)
		if !ok {
			return r, fmt.Errorf("unknown faction %q", key)
		}
		r.Faction = f
	}
	return r, nil
}

func setString(tbl *lua.LTable, key string, dst *string) {
	if s := getString(tbl, key); s != "" {
		*dst = s
	}
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
