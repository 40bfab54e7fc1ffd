package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"ozon-radar/models"
)

// DefaultTopKeywords is the size of the keyword ranking when none is set.
const DefaultTopKeywords = 10

// minTermRunes is the shortest term kept; shorter tokens are noise.
const minTermRunes = 3

// StopWords holds marketplace filler, size/descriptor words and localized
// noise tokens that never help a listing title.
var StopWords = map[string]struct{}{
	// generic English filler
	"the": {}, "for": {}, "and": {}, "with": {}, "of": {}, "new": {}, "set": {},
	"pro": {}, "max": {}, "style": {}, "from": {}, "your": {},
	// marketplace and demo markers
	"ozon": {}, "demo": {}, "模拟": {}, "样式": {},
	// size and descriptor words
	"size": {}, "small": {}, "large": {}, "big": {}, "mini": {},
	"размер": {}, "большой": {}, "маленький": {},
	// Russian function words
	"для": {}, "или": {}, "как": {}, "это": {}, "шт": {}, "штук": {},
	"новый": {}, "новинка": {}, "набор": {},
}

// ExtractKeywords returns the topN most frequent title terms. Titles are
// lowercased, stripped of punctuation and split on whitespace; stop-words
// and tokens of two runes or fewer are dropped. Equal counts keep
// first-seen order.
func ExtractKeywords(titles []string, topN int) []models.KeywordCount {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}

	counts := make(map[string]int)
	var order []string

	for _, title := range titles {
		for _, tok := range strings.Fields(stripPunctuation(strings.ToLower(title))) {
			if utf8.RuneCountInString(tok) < minTermRunes {
				continue
			}
			if _, stop := StopWords[tok]; stop {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	ranked := make([]models.KeywordCount, 0, len(order))
	for _, term := range order {
		ranked = append(ranked, models.KeywordCount{Term: term, Count: counts[term]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// SuggestTitle joins the keyword with the first n ranked terms.
func SuggestTitle(keyword string, terms []models.KeywordCount, n int) string {
	parts := []string{strings.TrimSpace(keyword)}
	for i := 0; i < len(terms) && i < n; i++ {
		parts = append(parts, terms[i].Term)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// stripPunctuation keeps letters, digits, marks, underscores and whitespace.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
