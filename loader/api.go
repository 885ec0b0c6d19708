package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", town = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Tuning { hit_npc = -15, ... }, may appear more than once; later wins.
	L.SetGlobal("Tuning", L.NewFunction(func(L *lua.LState) int {
		coll.tuning = append(coll.tuning, L.CheckTable(1))
		return 0
	}))

	// Map { width = 30, depth = 20, neutral_rows = 2 }
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		coll.mapDef = L.CheckTable(1)
		return 0
	}))

	// Faction "key" { ... }: curried, Faction("key") returns a function that takes a table.
	L.SetGlobal("Faction", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.factions = append(coll.factions, rawFaction{key: key, table: tbl})
			return 0
		}))
		return 1
	}))

	// Mission "faction" { kind = "...", ... }: curried, one template per call.
	L.SetGlobal("Mission", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.missions = append(coll.missions, rawMission{faction: key, table: tbl})
			return 0
		}))
		return 1
	}))

	// On "event_type" { faction = "...", to = "...", cause = "...", say = "..." }
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		typ := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.reactions = append(coll.reactions, rawReaction{event: typ, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Minutes(5) → 300, for mission durations.
	L.SetGlobal("Minutes", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckNumber(1) * 60)
		return 1
	}))

	// Percent(60) → 0.6, for victory fractions.
	L.SetGlobal("Percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckNumber(1) / 100)
		return 1
	}))
}
