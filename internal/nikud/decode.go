// Package nikud restores vowel points and consonant marks to plain
// Hebrew text by decoding per-character model predictions.
package nikud

import (
	"strings"

	"github.com/d7mtg/AlephTools/internal/hebrew"
)

// Merge reconstructs vocalized text from the original letters of one
// segment and the model's per-channel score rows. Decoding walks positions
// 0..seqLen-1 and stops at the first MASK index, so padded tail rows are
// never read. Marks attach in combining order: dagesh/mapiq first, then
// the shin/sin dot, then the vowel point, which is the order Hebrew mark
// stacking needs to render correctly.
func Merge(original []rune, indices []int64, niqqud, dagesh, sin [][]float32, seqLen int) string {
	if seqLen > len(original) {
		seqLen = len(original)
	}
	if seqLen > len(indices) {
		seqLen = len(indices)
	}

	var b strings.Builder
	for i := 0; i < seqLen; i++ {
		if indices[i] == hebrew.MaskIndex {
			break
		}
		letter := original[i]
		b.WriteRune(letter)

		if hebrew.CanDagesh(letter) {
			if g := hebrew.DageshGlyph(argmax(row(dagesh, i))); g != 0 {
				b.WriteRune(g)
			}
		}
		if hebrew.CanSin(letter) {
			if g := hebrew.SinGlyph(argmax(row(sin, i))); g != 0 {
				b.WriteRune(g)
			}
		}
		if hebrew.CanNiqqud(letter) {
			if g := hebrew.NiqqudGlyph(argmax(row(niqqud, i))); g != 0 {
				b.WriteRune(g)
			}
		}
	}
	return b.String()
}

func row(scores [][]float32, i int) []float32 {
	if i >= len(scores) {
		return nil
	}
	return scores[i]
}

// argmax returns the index of the highest score; ties resolve to the
// lowest index.
func argmax(scores []float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
