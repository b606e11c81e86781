package hebrew

import "strings"

// Rafe is the explicit "no mark" glyph. The model predicts it to assert
// the absence of a mark; it is never written into output.
const Rafe = 'ֿ'

// Per-channel class tables. Index 0 is MASK and index 1 is RAFE in every
// channel; classes below FirstMarkClass never emit a glyph.
const FirstMarkClass = 2

// niqqudClasses lists the vowel-point channel: the twelve points
// U+05B0..U+05BB plus qamats qatan.
var niqqudClasses = []rune{
	Mask, Rafe,
	'ְ', // sheva
	'ֱ', // hataf segol
	'ֲ', // hataf patah
	'ֳ', // hataf qamats
	'ִ', // hiriq
	'ֵ', // tsere
	'ֶ', // segol
	'ַ', // patah
	'ָ', // qamats
	'ֹ', // holam
	'ֺ', // holam haser for vav
	'ֻ', // qubuts
	'ׇ', // qamats qatan
}

var dageshClasses = []rune{Mask, Rafe, 'ּ'}

var sinClasses = []rune{Mask, Rafe, 'ׁ', 'ׂ'}

// NiqqudClassCount reports the size of the vowel-point channel.
func NiqqudClassCount() int { return len(niqqudClasses) }

// DageshClassCount reports the size of the dagesh channel.
func DageshClassCount() int { return len(dageshClasses) }

// SinClassCount reports the size of the shin/sin-dot channel.
func SinClassCount() int { return len(sinClasses) }

// NiqqudGlyph returns the vowel point for a predicted class, or 0 when the
// class carries no glyph (MASK, RAFE, or out of range).
func NiqqudGlyph(class int) rune { return glyph(niqqudClasses, class) }

// DageshGlyph returns the dagesh/mapiq dot for a predicted class, or 0.
func DageshGlyph(class int) rune { return glyph(dageshClasses, class) }

// SinGlyph returns the shin or sin dot for a predicted class, or 0.
func SinGlyph(class int) rune { return glyph(sinClasses, class) }

func glyph(table []rune, class int) rune {
	if class < FirstMarkClass || class >= len(table) {
		return 0
	}
	return table[class]
}

// Eligibility sets. Final forms appear alongside base letters so that
// unnormalized input letters gate correctly.
const (
	dageshEligible = "בגדהוזטיכלמנספצקשתךף"
	niqqudEligible = "אבגדהוזחטיכלמנסעפצקרשתךן"
)

// CanDagesh reports whether the letter may carry a dagesh or mapiq.
func CanDagesh(r rune) bool { return strings.ContainsRune(dageshEligible, r) }

// CanSin reports whether the letter may carry a shin/sin dot.
func CanSin(r rune) bool { return r == 'ש' }

// CanNiqqud reports whether the letter may carry a vowel point.
func CanNiqqud(r rune) bool { return strings.ContainsRune(niqqudEligible, r) }

// StripDiacritics removes all Hebrew points and cantillation marks,
// leaving consonantal text. Maqaf, paseq and other Hebrew punctuation in
// the same block are kept. Stripping is idempotent.
func StripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isHebrewMark(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isHebrewMark reports whether r is a combining mark from the Hebrew
// block: cantillation U+0591..U+05AF, points U+05B0..U+05BC, U+05BD,
// U+05BF, U+05C1, U+05C2, U+05C7. U+05BE (maqaf), U+05C0 (paseq) and
// U+05C3 (sof pasuq) are punctuation, not marks.
func isHebrewMark(r rune) bool {
	switch {
	case r >= '֑' && r <= 'ֽ':
		// Cantillation, points, meteg.
		return true
	case r == Rafe, r == 'ׁ', r == 'ׂ', r == 'ׇ':
		return true
	case r == 'ׄ', r == 'ׅ':
		// Upper and lower dots.
		return true
	}
	return false
}
