// Package types defines the shared data structures for the turf engine.
// Apart from the Faction helpers in faction.go this package contains only
// type definitions.
package types

// Vec is a position on the town plane. X runs east, Z runs south; one unit
// is one map cell.
type Vec struct {
	X float64
	Z float64
}

// NPC is a read-only view of a live non-player character, supplied by the
// caller on every Advance.
type NPC struct {
	ID      string
	Name    string
	Faction Faction // NoFaction for civilians
	Pos     Vec
	Hostile bool // current behavioural state as seen by the world
}

// Wallet is the external inventory the engine debits and credits.
type Wallet interface {
	ItemCount(item string) int
	RemoveItem(item string, n int) bool
	AddItem(item string, n int)
}

// Player holds what the engine reads about the player each tick.
type Player struct {
	Pos    Vec
	Wallet Wallet // may be nil; wallet operations then fail softly
}

// RumorCategory tags a rumour seeded into NPCs.
type RumorCategory string

const (
	RumorGangActivity RumorCategory = "gang_activity"
	RumorTerritory    RumorCategory = "territory"
	RumorPlayerAction RumorCategory = "player_action"
	RumorEndgame      RumorCategory = "endgame"
)

// MissionTemplate is a definition a mission is built from.
type MissionTemplate struct {
	Kind        string
	Title       string
	Description string
	RewardItem  string
	RewardCount int
	Coins       int
}

// Mission is one live faction job. Missions are never reused once they
// expire or complete.
type Mission struct {
	ID          string
	Faction     Faction
	Kind        string
	Title       string
	Description string
	RewardItem  string
	RewardCount int
	Coins       int
	Duration    float64 // seconds
	Remaining   float64 // seconds
}

// Reward is what TryComplete paid out.
type Reward struct {
	Mission string // mission ID
	Coins   int
	Item    string
	Count   int
}

// Event types emitted by the engine.
const (
	EventRespectChanged   = "respect_changed"
	EventThresholdCrossed = "threshold_crossed"
	EventTurfTransferred  = "turf_transferred"
	EventMissionOffered   = "mission_offered"
	EventMissionExpired   = "mission_expired"
	EventMissionCompleted = "mission_completed"
	EventRoundBought      = "round_bought"
	EventHostilityStarted = "hostility_started"
	EventHostilityEnded   = "hostility_ended"
	EventFactionVictory   = "faction_victory"
	EventNPCHostile       = "npc_hostile"
)

// Event is emitted whenever engine state changes in a way drivers may care about.
type Event struct {
	Type string
	Text string // short human-readable line
	Data map[string]any
}

// Reaction is a data-defined line of flavour text shown when a matching
// event fires. Empty fields match anything.
type Reaction struct {
	Event   string
	Faction Faction // matched against the event's faction, or the winner of a turf transfer
	To      string  // band a threshold crossing moved to
	Cause   string  // cause of a respect change
	Say     string
}

// Result is the output of one Advance.
type Result struct {
	Events []Event
	Output []string
}

// Intent is a parsed console command.
type Intent struct {
	Verb   string // canonical verb, e.g. "hit", "wait"
	Object string // first argument phrase, e.g. "lads" or "15 10"
	Target string // phrase after a preposition, e.g. "5 10" in "graffiti at 5 10"
}
