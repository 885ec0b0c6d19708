package parser

import (
	"testing"

	"github.com/nathoo/turfwar/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Basic verbs
		{
			name:  "status",
			input: "status",
			want:  types.Intent{Verb: "status"},
		},
		{
			name:  "hit vinnie",
			input: "hit vinnie",
			want:  types.Intent{Verb: "hit", Object: "vinnie"},
		},
		{
			name:  "talk to npc",
			input: "talk to Dazza",
			want:  types.Intent{Verb: "talk", Target: "dazza"},
		},
		{
			name:  "ask alias",
			input: "ask the councillor",
			want:  types.Intent{Verb: "talk", Object: "councillor"},
		},
		{
			name:  "wait 30",
			input: "wait 30",
			want:  types.Intent{Verb: "wait", Object: "30"},
		},

		// Verb aliases
		{
			name:  "lamp dazza → hit dazza",
			input: "lamp dazza",
			want:  types.Intent{Verb: "hit", Object: "dazza"},
		},
		{
			name:  "smash 15 10 → damage",
			input: "smash 15 10",
			want:  types.Intent{Verb: "damage", Object: "15 10"},
		},
		{
			name:  "tag → graffiti",
			input: "tag the wall at 5 10",
			want:  types.Intent{Verb: "graffiti", Object: "wall", Target: "5 10"},
		},
		{
			name:  "z → wait",
			input: "z",
			want:  types.Intent{Verb: "wait"},
		},
		{
			name:  "l → status",
			input: "l",
			want:  types.Intent{Verb: "status"},
		},
		{
			name:  "finish council → complete",
			input: "finish council",
			want:  types.Intent{Verb: "complete", Object: "council"},
		},

		// Multi-word verbs
		{
			name:  "get a round in",
			input: "get a round in",
			want:  types.Intent{Verb: "buy", Object: "round"},
		},
		{
			name:  "buy a round",
			input: "buy a round",
			want:  types.Intent{Verb: "buy", Object: "round"},
		},
		{
			name:  "my shout",
			input: "shout",
			want:  types.Intent{Verb: "buy", Object: "round"},
		},
		{
			name:  "get nicked",
			input: "get nicked",
			want:  types.Intent{Verb: "arrest"},
		},
		{
			name:  "get nicked at coords",
			input: "get nicked at 25 1",
			want:  types.Intent{Verb: "arrest", Target: "25 1"},
		},
		{
			name:  "do a job for council",
			input: "do a job for council",
			want:  types.Intent{Verb: "offer", Target: "council"},
		},
		{
			name:  "take job marchetti",
			input: "take job marchetti",
			want:  types.Intent{Verb: "offer", Object: "marchetti"},
		},
		{
			name:  "hand in lads",
			input: "hand in lads",
			want:  types.Intent{Verb: "complete", Object: "lads"},
		},
		{
			name:  "let time pass",
			input: "let time pass 60",
			want:  types.Intent{Verb: "wait", Object: "60"},
		},
		{
			name:  "set respect",
			input: "set respect marchetti -10",
			want:  types.Intent{Verb: "respect", Object: "marchetti -10"},
		},
		{
			name:  "respect by",
			input: "rep council by 5",
			want:  types.Intent{Verb: "respect", Object: "council", Target: "5"},
		},

		// Case insensitivity
		{
			name:  "HIT VINNIE",
			input: "HIT VINNIE",
			want:  types.Intent{Verb: "hit", Object: "vinnie"},
		},

		// Unknown verb passes through
		{
			name:  "unknown verb",
			input: "dance",
			want:  types.Intent{Verb: "dance"},
		},
		{
			name:  "unknown verb with object",
			input: "juggle bottles",
			want:  types.Intent{Verb: "juggle", Object: "bottles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCoords(t *testing.T) {
	tests := []struct {
		name   string
		intent types.Intent
		x, z   float64
		ok     bool
	}{
		{"object", types.Intent{Object: "15 10"}, 15, 10, true},
		{"target wins", types.Intent{Object: "wall", Target: "5 10"}, 5, 10, true},
		{"comma", types.Intent{Object: "3, 4"}, 3, 4, true},
		{"fractional", types.Intent{Object: "2.5 7.25"}, 2.5, 7.25, true},
		{"one number", types.Intent{Object: "15"}, 0, 0, false},
		{"words", types.Intent{Object: "the wall"}, 0, 0, false},
		{"empty", types.Intent{}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, z, ok := Coords(tt.intent)
			if ok != tt.ok || x != tt.x || z != tt.z {
				t.Errorf("Coords = (%v, %v, %v), want (%v, %v, %v)", x, z, ok, tt.x, tt.z, tt.ok)
			}
		})
	}
}

func TestSplitTrailingNumber(t *testing.T) {
	tests := []struct {
		in   string
		head string
		n    int
		ok   bool
	}{
		{"marchetti -10", "marchetti", -10, true},
		{"street lads +5", "street lads", 5, true},
		{"council", "council", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		head, n, ok := SplitTrailingNumber(tt.in)
		if head != tt.head || n != tt.n || ok != tt.ok {
			t.Errorf("SplitTrailingNumber(%q) = (%q, %d, %v)", tt.in, head, n, ok)
		}
	}
}
