// Package parser converts console command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/turfwar/types"
)

var verbAliases = map[string]string{
	// Assault
	"attack":  "hit",
	"punch":   "hit",
	"kick":    "hit",
	"batter":  "hit",
	"lamp":    "hit",
	"fight":   "hit",
	"deck":    "hit",
	"chin":    "hit",
	"glass":   "hit",
	"thump":   "hit",
	"slap":    "hit",
	"clobber": "hit",

	// Structures
	"smash":   "damage",
	"break":   "damage",
	"wreck":   "damage",
	"vandal":  "damage",
	"destroy": "damage",

	// Graffiti
	"tag":   "graffiti",
	"spray": "graffiti",
	"paint": "graffiti",

	// Round
	"round": "buy",
	"shout": "buy",

	// Arrest
	"nicked": "arrest",
	"caught": "arrest",
	"busted": "arrest",

	// Missions
	"job":     "offer",
	"mission": "offer",
	"work":    "offer",
	"finish":  "complete",
	"done":    "complete",
	"deliver": "complete",
	"jobs":    "missions",

	// Standing
	"rep":    "respect",
	"adjust": "respect",

	// Movement
	"go":   "move",
	"walk": "move",
	"goto": "move",
	"head": "move",

	// Time
	"z":     "wait",
	"sleep": "wait",
	"tick":  "wait",

	// Talk
	"speak": "talk",
	"chat":  "talk",
	"ask":   "talk",

	// Info
	"look":   "status",
	"l":      "status",
	"stat":   "status",
	"stats":  "status",
	"where":  "status",
	"who":    "npcs",
	"people": "npcs",
	"map":    "map",
	"turf":   "map",
	"wallet": "wallet",
	"i":      "wallet",
	"inv":    "wallet",
	"coins":  "wallet",
	"rumors": "rumours",
	"gossip": "rumours",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "from": true,
	"for": true, "near": true, "by": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "some": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := words[1:]

	// "buy a round", "buy drinks": the object is always the round.
	if verb == "buy" {
		return types.Intent{Verb: "buy", Object: "round"}
	}

	rest = stripArticles(rest)

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "get a round in", "get nicked", "do a job" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "get":
		if words[1] == "nicked" || words[1] == "arrested" || words[1] == "caught" {
			return append([]string{"arrest"}, words[2:]...)
		}
		if containsWord(words[1:], "round") {
			return []string{"buy"}
		}
	case "do", "take":
		if words[1] == "job" || words[1] == "mission" || (len(words) > 2 && words[2] == "job") {
			rest := words[2:]
			if len(rest) > 0 && rest[0] == "job" {
				rest = rest[1:]
			}
			return append([]string{"offer"}, rest...)
		}
	case "hand", "turn":
		if words[1] == "in" {
			return append([]string{"complete"}, words[2:]...)
		}
	case "let":
		if words[1] == "time" && len(words) > 2 && words[2] == "pass" {
			return append([]string{"wait"}, words[3:]...)
		}
	case "set":
		if words[1] == "respect" || words[1] == "standing" {
			return append([]string{"respect"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

// Numbers parses every whitespace-separated field of s as a float. It fails
// if any field is not a number.
func Numbers(s string) ([]float64, bool) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, ","), 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// Coords reads an "x z" pair out of an intent, looking at the target first
// ("graffiti at 5 10") and then the object ("damage 5 10").
func Coords(intent types.Intent) (x, z float64, ok bool) {
	for _, s := range []string{intent.Target, intent.Object} {
		if nums, ok := Numbers(s); ok && len(nums) == 2 {
			return nums[0], nums[1], true
		}
	}
	return 0, 0, false
}

// SplitTrailingNumber separates a phrase like "marchetti -10" into
// ("marchetti", -10). ok is false when the last word is not an integer.
func SplitTrailingNumber(s string) (head string, n int, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(fields[len(fields)-1], "+"))
	if err != nil {
		return s, 0, false
	}
	return strings.Join(fields[:len(fields)-1], " "), n, true
}

func containsWord(words []string, w string) bool {
	for _, v := range words {
		if v == w {
			return true
		}
	}
	return false
}
