// Package hebrew maps between Hebrew characters and the fixed vocabulary
// the niqqud model was trained on, and knows which letters may carry which
// diacritic marks.
package hebrew

import "unicode"

// Placeholder symbols stand in for character classes the model does not
// distinguish individually.
const (
	Mask     rune = 0   // padding / empty position
	Ligature rune = 'H' // Yiddish digraph letters
	Unknown  rune = 'O' // anything outside the vocabulary
	Digit    rune = '5' // any Unicode decimal digit
)

// MaskIndex is the vocabulary index of the padding sentinel.
const MaskIndex = 0

// firstLetter..lastLetter is the Hebrew letter block א..ת: the 22 letters
// plus the five final forms interleaved among them.
const (
	firstLetter = 'א'
	lastLetter  = 'ת'
)

// vocabulary is the fixed, ordered symbol table: MASK, the three
// placeholder classes, twelve normalized punctuation symbols, then the
// letter block. Index positions are part of the trained model's contract.
var vocabulary = buildVocabulary()

func buildVocabulary() []rune {
	v := []rune{Mask, Ligature, Unknown, Digit}
	v = append(v, []rune{' ', '!', '"', '\'', '(', ')', ',', '-', '.', ':', ';', '?'}...)
	for r := firstLetter; r <= lastLetter; r++ {
		v = append(v, r)
	}
	return v
}

var symbolIndex = func() map[rune]int {
	m := make(map[rune]int, len(vocabulary))
	for i, r := range vocabulary {
		m[r] = i
	}
	return m
}()

// finalToBase folds the five final letter forms to their canonical form.
var finalToBase = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

// VocabularySize returns the number of symbols in the model vocabulary.
func VocabularySize() int {
	return len(vocabulary)
}

// Normalize maps an arbitrary input character to one of the vocabulary
// symbols. It is total: every rune maps to exactly one symbol.
func Normalize(r rune) rune {
	if f, ok := finalToBase[r]; ok {
		return f
	}
	if r >= firstLetter && r <= lastLetter {
		return r
	}
	if _, ok := symbolIndex[r]; ok && r != Mask {
		return r
	}
	switch r {
	case '\n', '\t':
		return ' '
	case '־', '‒', '–', '—', '―', '−':
		// Maqaf and dash variants.
		return '-'
	case '[', '{':
		return '('
	case ']', '}':
		return ')'
	case '´', '‘', '’', '׳':
		// Acute accent, curly single quotes, Hebrew geresh.
		return '\''
	case '“', '”', '„', '״':
		// Curly double quotes and Hebrew gershayim.
		return '"'
	case '…':
		return ','
	case 'װ', 'ױ', 'ײ':
		// Yiddish digraphs double-vav, vav-yod, double-yod.
		return Ligature
	}
	if unicode.IsDigit(r) {
		return Digit
	}
	return Unknown
}

// Encode returns the vocabulary index of a symbol. Symbols outside the
// vocabulary encode as the unknown class; encoding never fails.
func Encode(r rune) int {
	if i, ok := symbolIndex[r]; ok {
		return i
	}
	return symbolIndex[Unknown]
}

// Decode returns the symbol at a vocabulary index. Out-of-range indices
// decode to the unknown class so decoding is total.
func Decode(i int) rune {
	if i < 0 || i >= len(vocabulary) {
		return Unknown
	}
	return vocabulary[i]
}

// EncodeString normalizes and encodes every rune of s.
func EncodeString(s string) []int64 {
	runes := []rune(s)
	out := make([]int64, len(runes))
	for i, r := range runes {
		out[i] = int64(Encode(Normalize(r)))
	}
	return out
}
