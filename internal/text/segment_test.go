package text

import (
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxLen  int
		want    []string
		midWord []bool
	}{
		{
			name:   "short input is a single segment",
			text:   "abc def",
			maxLen: 20,
			want:   []string{"abc def"},
		},
		{
			name:   "empty input",
			text:   "",
			maxLen: 10,
			want:   []string{""},
		},
		{
			name:   "maxLen one returns whole input",
			text:   "abcdefghij",
			maxLen: 1,
			want:   []string{"abcdefghij"},
		},
		{
			name:   "maxLen zero returns whole input",
			text:   "abcdefghij",
			maxLen: 0,
			want:   []string{"abcdefghij"},
		},
		{
			name:   "cut at last space in window",
			text:   "abc def ghi",
			maxLen: 8,
			want:   []string{"abc def", "ghi"},
		},
		{
			name:    "over-long token cut mid-word",
			text:    "abcdefghij",
			maxLen:  5,
			want:    []string{"abcd", "efgh", "ij"},
			midWord: []bool{true, true, false},
		},
		{
			name:    "mixed word and over-long token",
			text:    "ab cdefgh",
			maxLen:  5,
			want:    []string{"ab", "cdef", "gh"},
			midWord: []bool{false, true, false},
		},
		{
			name:   "exact window with trailing space",
			text:   "abc def ",
			maxLen: 8,
			want:   []string{"abc def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.maxLen)
			if len(got) != len(tt.want) {
				t.Fatalf("Split returned %d segments, want %d: %#v", len(got), len(tt.want), got)
			}
			for i, seg := range got {
				if seg.Text != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, seg.Text, tt.want[i])
				}
				wantMid := tt.midWord != nil && tt.midWord[i]
				if seg.MidWord != wantMid {
					t.Errorf("segment %d MidWord = %v, want %v", i, seg.MidWord, wantMid)
				}
			}
		})
	}
}

func TestSplitBoundsEverySegment(t *testing.T) {
	text := strings.Repeat("שלום עולם ארוך ", 40) + strings.Repeat("א", 200)
	for _, maxLen := range []int{5, 30, 126} {
		for i, seg := range Split(text, maxLen) {
			if n := len([]rune(seg.Text)); n >= maxLen {
				t.Errorf("maxLen %d: segment %d has %d runes", maxLen, i, n)
			}
		}
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	texts := []string{
		"שלום עולם זה טקסט בדיקה עם מילים קצרות",
		"ab cdefgh",
		strings.Repeat("x", 20),
		"abc def ghi jkl",
	}
	for _, text := range texts {
		for _, maxLen := range []int{4, 7, 12, 100} {
			segments := Split(text, maxLen)
			outputs := make([]string, len(segments))
			for i, seg := range segments {
				outputs[i] = seg.Text
			}
			want := strings.TrimRight(text, " ")
			if got := Join(segments, outputs); got != want {
				t.Errorf("Split/Join(%q, %d) = %q, want %q", text, maxLen, got, want)
			}
		}
	}
}

func TestJoinCollapsesDoubledSpaces(t *testing.T) {
	segments := Split("abc  def", 6)
	outputs := []string{"abc ", "def"}
	if got := Join(segments, outputs); got != "abc def" {
		t.Errorf("Join = %q, want %q", got, "abc def")
	}
}

func TestJoinMidWordInsertsNoSpace(t *testing.T) {
	segments := []Segment{
		{Text: "abcd", MidWord: true},
		{Text: "efgh", MidWord: true},
		{Text: "ij"},
	}
	outputs := []string{"ABCD", "EFGH", "IJ"}
	if got := Join(segments, outputs); got != "ABCDEFGHIJ" {
		t.Errorf("Join = %q, want %q", got, "ABCDEFGHIJ")
	}
}
