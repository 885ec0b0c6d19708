// Package dialogue picks what an NPC says when the player talks to them.
package dialogue

import (
	"fmt"

	"github.com/nathoo/turfwar/engine/standing"
	"github.com/nathoo/turfwar/types"
)

var greetings = map[standing.Band][]string{
	standing.Hostile: {
		"%s squares up. \"You've got some nerve.\"",
		"%s spits on the pavement by your feet.",
		"%s looks straight through you.",
	},
	standing.Neutral: {
		"%s shrugs. \"Alright.\"",
		"%s gives you a wary nod.",
		"\"What d'you want?\" asks %s.",
	},
	standing.Friendly: {
		"%s grins. \"Here they are!\"",
		"%s claps you on the shoulder.",
		"\"Good to see you,\" says %s.",
	},
}

// Talk returns what npc says, given how their faction feels about the
// player and the rumours they've heard, oldest first. Civilians are always
// neutral; everyone is hostile while the whole town hates the player.
// The choice of greeting depends only on its inputs.
func Talk(npc types.NPC, band standing.Band, hatedByAll bool, heard []string) []string {
	switch {
	case hatedByAll && npc.Faction.Valid():
		band = standing.Hostile
	case !npc.Faction.Valid():
		band = standing.Neutral
	}
	lines := greetings[band]
	out := []string{fmt.Sprintf(lines[len(heard)%len(lines)], npc.Name)}

	if band == standing.Hostile {
		return out
	}
	if len(heard) == 0 {
		return append(out, "\"Quiet round here.\"")
	}
	return append(out, fmt.Sprintf("\"Heard this: %s\"", heard[len(heard)-1]))
}
