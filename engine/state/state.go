// Package state holds the immutable definitions the engine runs on: tuning
// constants, faction definitions, mission templates and the map layout.
package state

import "github.com/nathoo/turfwar/types"

// GameDef holds metadata shown by the drivers.
type GameDef struct {
	Title   string
	Town    string
	Version string
	Intro   string
}

// Tuning holds every gameplay constant.
type Tuning struct {
	InitialStanding int
	HostileAt       int     // standing <= HostileAt is hostile
	FriendlyAt      int     // standing >= FriendlyAt is friendly
	PulseWindow     float64 // seconds the "recently changed" flag stays up

	HitNPCDelta         int
	StructureOwnerDelta int
	StructureRivalDelta int
	MissionGainDelta    int
	MissionRivalDelta   int
	MissionFailPenalty  int
	RoundDelta          int
	RoundCost           int
	GraffitiVictimDelta int
	GraffitiAllyDelta   int
	ArrestDelta         int
	ArrestRadius        int

	TransferGap      int     // absolute standing gap that triggers a transfer
	TransferPercent  int     // share of the loser's cells moved per transfer
	MissionDuration  float64 // seconds
	HostilityCeiling int     // every standing below this → everyone hates you
	VictoryStanding  int
	VictoryFraction  float64
	FenceMarkup      float64

	RumorRadius float64
	RumorFanout int
	CoinItem    string
}

// FactionDef is the static description of one faction.
type FactionDef struct {
	Name        string
	Territory   string
	Rivals      []types.Faction
	VictoryText string
}

// MapDef describes the territory grid and its starting layout.
type MapDef struct {
	Width       int
	Depth       int
	NeutralRows int // rows along the top edge left unclaimed
}

// Defs holds the immutable game definitions.
type Defs struct {
	Game     GameDef
	Tuning   Tuning
	Map      MapDef
	Factions [types.NumFactions]FactionDef
	Missions [types.NumFactions][]types.MissionTemplate

	Reactions []types.Reaction
}

// Faction returns the definition of f.
func (d *Defs) Faction(f types.Faction) FactionDef {
	return d.Factions[f.Index()]
}

// Rivals returns f's rivals. An empty rival list means "the other two".
func (d *Defs) Rivals(f types.Faction) []types.Faction {
	if r := d.Factions[f.Index()].Rivals; len(r) > 0 {
		return r
	}
	rivals := make([]types.Faction, 0, types.NumFactions-1)
	for _, other := range types.Factions {
		if other != f {
			rivals = append(rivals, other)
		}
	}
	return rivals
}

// Templates returns the mission templates defined for f.
func (d *Defs) Templates(f types.Faction) []types.MissionTemplate {
	return d.Missions[f.Index()]
}

// DefaultTuning returns the stock gameplay constants.
func DefaultTuning() Tuning {
	return Tuning{
		InitialStanding: 50,
		HostileAt:       20,
		FriendlyAt:      75,
		PulseWindow:     0.5,

		HitNPCDelta:         -15,
		StructureOwnerDelta: -10,
		StructureRivalDelta: 5,
		MissionGainDelta:    20,
		MissionRivalDelta:   -10,
		MissionFailPenalty:  -10,
		RoundDelta:          2,
		RoundCost:           20,
		GraffitiVictimDelta: -5,
		GraffitiAllyDelta:   8,
		ArrestDelta:         3,
		ArrestRadius:        8,

		TransferGap:      30,
		TransferPercent:  10,
		MissionDuration:  300,
		HostilityCeiling: 30,
		VictoryStanding:  90,
		VictoryFraction:  0.60,
		FenceMarkup:      1.5,

		RumorRadius: 20,
		RumorFanout: 3,
		CoinItem:    "coin",
	}
}

// DefaultDefs returns the stock town: three factions, nine mission
// templates and a 30x20 block map.
func DefaultDefs() *Defs {
	return &Defs{
		Game: GameDef{
			Title:   "Turf",
			Town:    "Northfield",
			Version: "1.0",
			Intro:   "Three crews, one town, and every one of them is watching you.",
		},
		Tuning: DefaultTuning(),
		Map:    MapDef{Width: 30, Depth: 20, NeutralRows: 2},
		Factions: [types.NumFactions]FactionDef{
			{
				Name:        "Marchetti Crew",
				Territory:   "the Industrial Estate",
				VictoryText: "The Marchettis own the town now, and they remember who helped.",
			},
			{
				Name:        "Street Lads",
				Territory:   "the Estates",
				VictoryText: "The Street Lads run every corner. Nobody touches you round here.",
			},
			{
				Name:        "The Council",
				Territory:   "the Town Centre",
				VictoryText: "The Council has restored order. Your name is on a plaque, apparently.",
			},
		},
		Missions: [types.NumFactions][]types.MissionTemplate{
			{
				{Kind: "delivery", Title: "Special Delivery", Description: "Take a parcel across town. Don't open it.", RewardItem: "scrap_metal", RewardCount: 3, Coins: 40},
				{Kind: "collection", Title: "Overdue Accounts", Description: "The chippy owes Marchetti money. Collect it.", RewardItem: "scrap_metal", RewardCount: 2, Coins: 60},
				{Kind: "sabotage", Title: "Flat Tyres", Description: "Let down the tyres on the Council van.", RewardItem: "scrap_metal", RewardCount: 1, Coins: 30},
			},
			{
				{Kind: "tagging", Title: "Mark the Wall", Description: "Tag the underpass before the Council paints it over.", RewardItem: "spray_can", RewardCount: 2, Coins: 20},
				{Kind: "lookout", Title: "Keep Watch", Description: "Stand on the corner and whistle if the police show up.", RewardItem: "energy_drink", RewardCount: 2, Coins: 25},
				{Kind: "retrieval", Title: "Nicked Bike", Description: "Get the bike back from the Marchetti yard.", RewardItem: "bike_lock", RewardCount: 1, Coins: 35},
			},
			{
				{Kind: "cleanup", Title: "Community Payback", Description: "Scrub the graffiti off the library wall.", RewardItem: "council_voucher", RewardCount: 2, Coins: 25},
				{Kind: "survey", Title: "Pothole Survey", Description: "Count the potholes on the high street. All of them.", RewardItem: "council_voucher", RewardCount: 1, Coins: 30},
				{Kind: "petition", Title: "Sign Here", Description: "Collect ten signatures for the new bypass.", RewardItem: "council_voucher", RewardCount: 3, Coins: 20},
			},
		},
		Reactions: []types.Reaction{
			{Event: types.EventThresholdCrossed, Faction: types.Council, To: "hostile", Say: "A PCSO has started following you about."},
			{Event: types.EventThresholdCrossed, Faction: types.Marchetti, To: "friendly", Say: "Vinnie nods at you across the road. That's new."},
			{Event: types.EventRespectChanged, Faction: types.StreetLads, Cause: "hit_npc", Say: "Somebody films it on their phone."},
		},
	}
}
