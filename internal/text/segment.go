// Package text splits input into bounded segments the sequence model can
// accept without cutting words apart.
package text

import "strings"

// Segment is one bounded piece of the input.
type Segment struct {
	Text string
	// MidWord marks a fallback cut inside a token longer than the window.
	// The joiner concatenates such a segment to its successor without a
	// space separator.
	MidWord bool
}

// Split cuts text into segments of strictly fewer than maxLen runes each.
// Cuts happen at the most recent space inside the window, so no word is
// ever split across segments. The exception is a single token longer than
// the window itself, which is cut at maxLen-1 runes as a fallback.
// maxLen <= 1 returns the whole input as one segment.
func Split(text string, maxLen int) []Segment {
	runes := []rune(text)
	if maxLen <= 1 || len(runes) < maxLen {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	start := 0
	lastSpace := -1

	for i := start; i < len(runes); i++ {
		if runes[i] == ' ' {
			lastSpace = i
		}
		if i-start < maxLen-1 {
			continue
		}
		if lastSpace > start {
			// Cut at the remembered space; the space itself is consumed
			// and re-inserted by the joiner.
			segments = append(segments, Segment{Text: string(runes[start:lastSpace])})
			start = lastSpace + 1
		} else {
			// Over-long token: cut mid-word.
			segments = append(segments, Segment{Text: string(runes[start:i]), MidWord: true})
			start = i
		}
		lastSpace = -1
	}

	if start < len(runes) {
		segments = append(segments, Segment{Text: string(runes[start:])})
	}
	return segments
}

// Join concatenates per-segment outputs, inserting a single space at
// word-boundary cuts and nothing after a mid-word cut, then collapses any
// doubled spaces the boundary re-insertion produced.
func Join(segments []Segment, outputs []string) string {
	var b strings.Builder
	for i, out := range outputs {
		if i > 0 && !segments[i-1].MidWord {
			b.WriteByte(' ')
		}
		b.WriteString(out)
	}
	s := b.String()
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
