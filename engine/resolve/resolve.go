// Package resolve maps names typed at the console to factions and NPCs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/types"
)

// AmbiguityError indicates multiple NPCs matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s called %q round here", e.Kind, e.Name)
}

var factionAliases = map[string]types.Faction{
	"marchettis":  types.Marchetti,
	"crew":        types.Marchetti,
	"mob":         types.Marchetti,
	"lads":        types.StreetLads,
	"street":      types.StreetLads,
	"streetlads":  types.StreetLads,
	"estate":      types.StreetLads,
	"councillors": types.Council,
	"town hall":   types.Council,
	"town":        types.Council,
}

// Faction resolves a typed faction name: its key ("street_lads"), its display
// name ("the street lads", "Marchetti Crew"), any word of the display name,
// or a common nickname.
func Faction(defs *state.Defs, name string) (types.Faction, error) {
	q := normalize(name)
	if q == "" {
		return types.NoFaction, &NotFoundError{Kind: "faction", Name: name}
	}

	// 1. Exact key, with spaces or underscores.
	if f, ok := types.FactionByKey(strings.ReplaceAll(q, " ", "_")); ok {
		return f, nil
	}

	// 2. Nicknames.
	if f, ok := factionAliases[q]; ok {
		return f, nil
	}

	// 3. Display names, whole or by word.
	var matches []types.Faction
	for _, f := range types.Factions {
		display := normalize(defs.Faction(f).Name)
		if display == q || containsField(display, q) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return types.NoFaction, &NotFoundError{Kind: "faction", Name: name}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, f := range matches {
			names[i] = defs.Faction(f).Name
		}
		return types.NoFaction, &AmbiguityError{Name: name, Candidates: names}
	}
}

// NPC resolves a typed name against the live NPCs: exact ID first, then the
// full or partial display name.
func NPC(npcs []types.NPC, name string) (types.NPC, error) {
	q := strings.ToLower(strings.TrimSpace(name))

	// 1. Exact ID match.
	for _, npc := range npcs {
		if strings.ToLower(npc.ID) == q {
			return npc, nil
		}
	}

	// 2. Search by display name.
	var matches []types.NPC
	for _, npc := range npcs {
		if matchesName(npc, q) {
			matches = append(matches, npc)
		}
	}

	switch len(matches) {
	case 0:
		return types.NPC{}, &NotFoundError{Kind: "one", Name: name}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, npc := range matches {
			ids[i] = npc.Name
		}
		return types.NPC{}, &AmbiguityError{Name: name, Candidates: ids}
	}
}

// matchesName checks if an NPC's name matches the query (case-insensitive).
// Supports exact match, word-based partial match and underscore-normalized
// IDs ("cllr price" matches "cllr_price").
func matchesName(npc types.NPC, q string) bool {
	nameLower := strings.ToLower(npc.Name)
	if nameLower == q || containsField(nameLower, q) {
		return true
	}
	return strings.ReplaceAll(q, " ", "_") == strings.ToLower(npc.ID)
}

// normalize lowercases, drops a leading "the" and collapses whitespace.
func normalize(s string) string {
	words := strings.Fields(strings.ToLower(s))
	if len(words) > 0 && words[0] == "the" {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func containsField(s, word string) bool {
	for _, w := range strings.Fields(s) {
		if w == word {
			return true
		}
	}
	return false
}
