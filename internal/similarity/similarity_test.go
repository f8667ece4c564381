package similarity

import (
	"testing"
)

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "proven superior efficacy", "proven superior efficacy", 100},
		{"case insensitive", "Proven Superior Efficacy", "proven superior efficacy", 100},
		{"both empty", "", "", 100},
		{"one empty", "proven efficacy", "", 0},
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"third overlap rounds down", "alpha beta", "alpha gamma", 33}, // 1 shared / 3 union = 33.33
		{"two thirds rounds up", "alpha beta gamma", "alpha beta", 67}, // 2 shared / 3 union = 66.67
		{"five sixths rounds down", "a b c d e f", "a b c d e", 83},    // 5 shared / 6 union = 83.33
		{"whitespace only", "   ", "\t\n", 100},
		{"duplicate tokens collapse", "fast fast fast relief", "fast relief", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("TokenOverlap(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenOverlapSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"proven superior efficacy", "superior efficacy claim"},
		{"", "some text"},
		{"one two three", "three four"},
		{"x", "x y z"},
	}

	for _, p := range pairs {
		ab := TokenOverlap(p[0], p[1])
		ba := TokenOverlap(p[1], p[0])
		if ab != ba {
			t.Errorf("TokenOverlap not symmetric for (%q, %q): %d vs %d", p[0], p[1], ab, ba)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "superiority claim", "superiority claim", 1.0},
		{"case insensitive", "Superiority Claim", "superiority claim", 1.0},
		{"trimmed", "  superiority claim  ", "superiority claim", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "abcd", "", 0.0},
		{"single substitution", "abcd", "abce", 0.75},
		{"completely different", "aaaa", "bbbb", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditDistance(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("EditDistance(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEditDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"avoid superiority claims", "avoid all superiority claims"},
		{"", "nonempty"},
		{"kitten", "sitting"},
	}

	for _, p := range pairs {
		ab := EditDistance(p[0], p[1])
		ba := EditDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("EditDistance not symmetric for (%q, %q): %f vs %f", p[0], p[1], ab, ba)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		got := levenshtein([]rune(tt.a), []rune(tt.b))
		if got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
