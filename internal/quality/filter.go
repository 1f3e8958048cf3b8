// Package quality scores Japanese sentences for suitability as dictionary
// teaching examples. Evaluate is a pure function of the sentence text: no
// state, no randomness, total over any input string.
package quality

import (
	"strings"
	"unicode"
)

const (
	minLength         = 5
	maxLength         = 50
	priorityMaxLength = 30

	baseScore        = 100
	brevityBonus     = 2
	rareKanjiPenalty = 10
	particleBonus    = 5
)

// allowed is the sentence charset: hiragana, katakana with the long-vowel
// mark, the common CJK block, iteration/closing marks, and Japanese
// punctuation. Whitespace is handled separately. Table-driven ranges instead
// of a whole-string regex.
var allowed = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3001, Hi: 0x3002, Stride: 1}, // 、。
		{Lo: 0x3005, Hi: 0x3006, Stride: 1}, // 々〆
		{Lo: 0x300C, Hi: 0x300F, Stride: 1}, // 「」『』
		{Lo: 0x3024, Hi: 0x3024, Stride: 1}, // 〤
		{Lo: 0x3041, Hi: 0x3093, Stride: 1}, // hiragana ぁ-ん
		{Lo: 0x30A1, Hi: 0x30F6, Stride: 1}, // katakana ァ-ヶ
		{Lo: 0x30FC, Hi: 0x30FC, Stride: 1}, // ー
		{Lo: 0x4E00, Hi: 0x9FAF, Stride: 1}, // common kanji 一-龯
		{Lo: 0xFF01, Hi: 0xFF01, Stride: 1}, // ！
		{Lo: 0xFF08, Hi: 0xFF09, Stride: 1}, // （）
		{Lo: 0xFF1F, Hi: 0xFF1F, Stride: 1}, // ？
	},
	LatinOffset: 0,
}

// rareKanji is the CJK Extension-A block, past the common kanji block.
var rareKanji = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4DB5, Stride: 1},
	},
}

// sentenceEnders are the accepted final characters.
var sentenceEnders = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
}

// particles are natural-sentence markers; each distinct particle present in
// the sentence adds a fixed bonus, counted once regardless of occurrences.
var particles = []string{"は", "が", "を", "に", "で", "と", "から", "まで", "より"}

// Evaluate scores a sentence for suitability as a teaching example. The
// second return value is false when the sentence is rejected outright:
// non-whitespace length outside [5,50], a character outside the allow-list,
// or a final character that is not 。！？. Rules short-circuit in that order.
func Evaluate(text string) (int, bool) {
	runes := make([]rune, 0, len(text)/3)
	for _, r := range text {
		if !unicode.IsSpace(r) {
			runes = append(runes, r)
		}
	}

	length := len(runes)
	if length < minLength || length > maxLength {
		return 0, false
	}

	for _, r := range runes {
		if !unicode.Is(allowed, r) {
			return 0, false
		}
	}

	if !sentenceEnders[runes[length-1]] {
		return 0, false
	}

	score := baseScore

	if length <= priorityMaxLength {
		score += (priorityMaxLength - length) * brevityBonus
	} else {
		score -= length - priorityMaxLength
	}

	for _, r := range runes {
		if unicode.Is(rareKanji, r) {
			score -= rareKanjiPenalty
		}
	}

	for _, p := range particles {
		if strings.Contains(text, p) {
			score += particleBonus
		}
	}

	return score, true
}
