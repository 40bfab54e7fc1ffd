// Package htmlcard recovers product cards from raw marketplace search-page
// markup. It is a best-effort pattern-matching pass, not a strict parser:
// page layouts vary, and a card that yields no plausible price is skipped.
package htmlcard

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ozon-radar/models"
	"ozon-radar/utils"
)

const (
	// MaxAncestorLevels bounds the walk from a product link up to its card.
	MaxAncestorLevels = 6
	// MinPlausiblePrice rejects tokens that are badges, counters or noise.
	MinPlausiblePrice = 50.0
	// minAltRunes is the shortest image alt text accepted as a title.
	minAltRunes = 5
)

const (
	groupSep = `[ \x{00A0}\x{2009}\x{202F}]`
	gap      = `[\s\x{00A0}\x{2009}\x{202F}]*`
	// number is either space-grouped thousands or a plain digit run.
	number   = `(\d{1,3}(?:` + groupSep + `\d{3})+|\d+)`
	// lead keeps a number from starting inside another one, such as the
	// fraction of a "4.8" rating printed just before it.
	lead     = `(?:^|[^\d.,])`
)

var (
	// productHref matches product-detail links, absolute or relative.
	productHref = regexp.MustCompile(`(?:^|/)product/[^/?#\s]+`)

	// priceToken is a number followed by a rouble marker.
	priceToken = regexp.MustCompile(lead + number + `((?:[.,]\d{1,2})?)` + gap + `(?:₽|руб\.?|RUB)`)

	reviewWords   = `(?:отзыв[а-я]*|reviews?|оценк[а-я]*|评价|評価)`
	reviewBefore  = regexp.MustCompile(`(?i)` + lead + number + gap + reviewWords)
	reviewAfter   = regexp.MustCompile(`(?i)` + reviewWords + gap + `[:\-]?` + gap + number)
	reviewBracket = regexp.MustCompile(`[(\[]` + gap + number + gap + `[)\]]`)

	groupSpaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u2009", "", "\u202f", "")
)

// Extractor finds product cards in search-results markup.
type Extractor struct {
	logger *utils.Logger
}

// New creates an Extractor.
func New(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract parses markup and returns one card per distinct product link that
// yields a plausible price. Zero cards is reported as ExtractionEmpty.
func (e *Extractor) Extract(markup string) ([]models.Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, models.Wrap(models.KindExtractionEmpty, err, "parse markup")
	}

	seen := utils.NewURLSet()
	var cards []models.Card
	candidates, rejected := 0, 0

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !productHref.MatchString(href) {
			return
		}
		if !seen.Add(href) {
			return
		}
		candidates++

		card, ok := cardFor(a, href)
		if !ok {
			rejected++
			return
		}
		cards = append(cards, card)
	})

	e.logger.Info("[htmlcard] %d product links, %d cards extracted, %d without a plausible price",
		candidates, len(cards), rejected)

	if len(cards) == 0 {
		return nil, models.NewError(models.KindExtractionEmpty, "no product cards with a plausible price")
	}
	return cards, nil
}

// cardFor walks up from the anchor, stopping at the first ancestor whose
// text holds a plausible price.
func cardFor(a *goquery.Selection, href string) (models.Card, bool) {
	node := a
	for level := 0; level < MaxAncestorLevels; level++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}

		text := flatText(node)
		price, ok := parsePrice(text)
		if !ok {
			continue
		}
		if price < MinPlausiblePrice {
			return models.Card{}, false
		}

		return models.Card{
			Title:       titleFor(node, a, href),
			Price:       price,
			ReviewCount: parseReviews(text),
			URL:         href,
		}, true
	}
	return models.Card{}, false
}

// flatText joins the text nodes under sel with single spaces, so adjacent
// elements never fuse their numbers. Grouping spaces inside a node are kept.
func flatText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := collapse(n.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// collapse squeezes ASCII whitespace runs and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
	}), " ")
}

// parsePrice returns the first currency-suffixed number in text.
func parsePrice(text string) (float64, bool) {
	m := priceToken.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	num := groupSpaces.Replace(m[1]) + strings.Replace(m[2], ",", ".", 1)
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseReviews tries a number next to a review keyword, then a bracketed
// number. Neither present means zero reviews.
func parseReviews(text string) int {
	for _, re := range []*regexp.Regexp{reviewBefore, reviewAfter, reviewBracket} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(groupSpaces.Replace(m[1]))
		if err == nil {
			return n
		}
	}
	return 0
}

// titleFor prefers a non-trivial image alt inside the card, then the text of
// the link to the same product. Image-only links defer to a sibling link.
func titleFor(card, a *goquery.Selection, href string) string {
	var title string
	card.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if utf8.RuneCountInString(alt) >= minAltRunes {
			title = alt
			return false
		}
		return true
	})
	if title != "" {
		return title
	}

	if text := linkText(a); text != "" {
		return text
	}
	want := utils.CanonicalURL(href)
	card.Find("a[href]").EachWithBreak(func(_ int, other *goquery.Selection) bool {
		if utils.CanonicalURL(other.AttrOr("href", "")) != want {
			return true
		}
		title = linkText(other)
		return title == ""
	})
	return title
}

func linkText(a *goquery.Selection) string {
	return strings.Join(strings.Fields(a.Text()), " ")
}
