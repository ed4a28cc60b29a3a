package textutil

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"ascii punctuation", "Opening (2) - Take_Off!", "opening 2 take off"},
		{"mp3 suffix", "track one.mp3", "track one"},
		{"mp3 suffix only once", "demo.mp3.mp3", "demo.mp3"},
		{"fullwidth punctuation", "（Ｏｐｅｎｉｎｇ）：ＯＫ！？", "opening ok"},
		{"wave dash", "世界〜reprise～", "世界 reprise"},
		{"cjk brackets", "【MV】「title」", "mv title"},
		{"whitespace collapse", "  a \t b\n c ", "a b c"},
		{"empty", "", ""},
		{"punctuation only", "()[]|:!?", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokensOrderIndependent(t *testing.T) {
	a := Tokens("Opening (2) — Kyoukaisen")
	b := Tokens("opening 2 kyoukaisen")
	if len(a) != len(b) {
		t.Fatalf("token sets differ in size: %v vs %v", a, b)
	}
	for token := range a {
		if _, ok := b[token]; !ok {
			t.Errorf("token %q missing from second set", token)
		}
	}
}

func TestTokensCollapseDuplicates(t *testing.T) {
	set := Tokens("la la la land")
	if len(set) != 2 {
		t.Fatalf("expected 2 unique tokens, got %d: %v", len(set), set)
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name  string
		query string
		targ  string
		want  float64
	}{
		{"identical", "one two three", "one two three", 1},
		{"half", "one two", "two four", 0.5},
		{"none", "one two", "three four", 0},
		{"empty query", "", "anything", 0},
		{"empty target", "one", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(Tokens(tt.query), Tokens(tt.targ))
			if got != tt.want {
				t.Errorf("Overlap(%q, %q) = %v, want %v", tt.query, tt.targ, got, tt.want)
			}
		})
	}
}

func TestOverlapStringsNormalizes(t *testing.T) {
	if got := OverlapStrings("Track-Name.mp3", "track name"); got != 1 {
		t.Errorf("OverlapStrings = %v, want 1", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Mix: Vol 1/2", "My Mix- Vol 1-2"},
		{"what?", "what"},
		{"  plain  ", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
