package story

import (
	"strings"
	"unicode"
)

// timeKeywords mark a metadata fragment as a post time. Relative-time words
// plus month abbreviations.
var timeKeywords = []string{
	"posted", "ago", "hours", "mins", "days", "year", "available",
	"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

// ignoredKeywords mark UI affordances rather than metadata
var ignoredKeywords = []string{"comment", "follow"}

// duplicatedDateThreshold is the length above which an un-annotated time
// fragment is assumed to carry the date twice ("16 February16 Feb").
const duplicatedDateThreshold = 10

// Fragment is one metadata span inside a story container
type Fragment struct {
	Text      string // stripped text of the whole span
	Hidden    string // stripped text of a nested visually-hidden span
	HasHidden bool
}

// ClassifyMetadata splits metadata fragments into a post time and a category.
//
// Fragments mentioning comments or follow buttons are dropped. A fragment that
// contains a time keyword fills the single post time slot; a later time-like
// fragment overwrites an earlier one. Every other non-empty, non-numeric
// fragment becomes a category label. Labels are deduplicated by first
// occurrence and joined with CategorySeparator, or DefaultCategory when none
// remain.
func ClassifyMetadata(fragments []Fragment) (postTime, category string) {
	var labels []string
	seen := make(map[string]bool)

	for _, frag := range fragments {
		lower := strings.ToLower(frag.Text)
		if containsAny(lower, ignoredKeywords) {
			continue
		}

		if containsAny(lower, timeKeywords) {
			if frag.HasHidden {
				postTime = frag.Hidden
			} else {
				postTime = TrimDuplicatedDate(frag.Text)
			}
			continue
		}

		if frag.Text == "" || isDigits(frag.Text) {
			continue
		}
		if !seen[frag.Text] {
			seen[frag.Text] = true
			labels = append(labels, frag.Text)
		}
	}

	if len(labels) == 0 {
		return postTime, DefaultCategory
	}
	return postTime, strings.Join(labels, CategorySeparator)
}

// TrimDuplicatedDate keeps the first half (by character count, rounded down)
// of a time fragment longer than 10 characters and returns shorter fragments
// unchanged.
//
// The page renders dates in both long and short form inside one span, e.g.
// "16 February16 Feb". Halving the text is an approximation and is fragile:
// "16 February16 Feb" becomes "16 Febru". It is kept as is so archived values
// stay comparable across runs.
func TrimDuplicatedDate(text string) string {
	runes := []rune(text)
	if len(runes) <= duplicatedDateThreshold {
		return text
	}
	return string(runes[:len(runes)/2])
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// otherDigits are the non-decimal characters with a digit value:
// superscripts, subscripts and circled or parenthesized digits.
var otherDigits = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// isDigits reports whether s is non-empty and made only of digits, counting
// superscript and circled digits as well as decimal ones.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.Is(otherDigits, r) {
			return false
		}
	}
	return true
}
