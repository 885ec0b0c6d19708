package types

import "fmt"

// Faction is one of the three town factions. The zero value is NoFaction,
// which also marks unclaimed cells.
type Faction uint8

const (
	NoFaction Faction = iota
	Marchetti
	StreetLads
	Council
)

// NumFactions is the size of the closed faction set.
const NumFactions = 3

// Factions lists every faction in display order.
var Factions = [NumFactions]Faction{Marchetti, StreetLads, Council}

var factionKeys = [...]string{"none", "marchetti", "street_lads", "council"}

// Valid reports whether f is one of the three real factions.
func (f Faction) Valid() bool {
	return f >= Marchetti && f <= Council
}

// Index returns f's slot in per-faction arrays. It panics on NoFaction or
// any out-of-range value: those are caller bugs, not game states.
func (f Faction) Index() int {
	if !f.Valid() {
		panic(fmt.Sprintf("types: invalid faction %d", uint8(f)))
	}
	return int(f) - 1
}

// Key returns the stable identifier used in config files and events.
func (f Faction) Key() string {
	if int(f) < len(factionKeys) {
		return factionKeys[f]
	}
	return fmt.Sprintf("faction(%d)", uint8(f))
}

func (f Faction) String() string {
	return f.Key()
}

// FactionByKey looks a faction up by its Key.
func FactionByKey(key string) (Faction, bool) {
	for _, f := range Factions {
		if factionKeys[f] == key {
			return f, true
		}
	}
	return NoFaction, false
}
