package services

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"ozon-radar/models"
	"ozon-radar/utils"
)

const (
	// UnknownTitle replaces a missing or blank listing title.
	UnknownTitle = "unknown"
	// MarketplaceBase is the origin used for relative links and search URLs.
	MarketplaceBase = "https://www.ozon.ru"
)

// numberRegexp captures the first numeric token of a loosely formatted value.
var numberRegexp = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Normalizer turns source-specific raw records into canonical Listings.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeAPI converts raw API items, dropping records that are not JSON
// objects. It returns the surviving listings and the dropped count.
func (n *Normalizer) NormalizeAPI(items []json.RawMessage, keyword string) ([]*models.Listing, int) {
	result := make([]*models.Listing, 0, len(items))
	dropped := 0

	for i, raw := range items {
		l, err := n.FromAPIItem(raw, keyword)
		if err != nil {
			dropped++
			n.logger.Warn("[normalizer] Dropping record %d: %v", i, err)
			continue
		}
		result = append(result, l)
	}

	n.logger.Info("[normalizer] Normalized %d -> %d listings (dropped %d)",
		len(items), len(result), dropped)
	return result, dropped
}

// FromAPIItem normalizes one item of the listings API response. Missing or
// malformed numeric fields become 0; only a record that is not an object fails.
func (n *Normalizer) FromAPIItem(raw json.RawMessage, keyword string) (*models.Listing, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, models.NewError(models.KindRecordMalformed, "expected JSON object")
	}

	var item map[string]any
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, models.Wrap(models.KindRecordMalformed, err, "decode item")
	}

	rating := field(item, "rating")

	return &models.Listing{
		TitleOriginal:   normaliseTitle(stringOf(item["title"])),
		PriceMinor:      apiPrice(item),
		ReviewCount:     countOf(field(rating, "count")),
		Rating:          clampRating(numberOf(field(rating, "average"))),
		SourceURL:       listingURL(stringOf(item["url"]), keyword),
		IsAuthoritative: true,
	}, nil
}

// NormalizeCards converts cards recovered from page markup.
func (n *Normalizer) NormalizeCards(cards []models.Card, keyword string) []*models.Listing {
	result := make([]*models.Listing, 0, len(cards))
	for _, c := range cards {
		result = append(result, FromCard(c, keyword))
	}
	n.logger.Debug("[normalizer] Normalized %d HTML cards", len(result))
	return result
}

// FromCard normalizes one HTML-derived card.
func FromCard(c models.Card, keyword string) *models.Listing {
	return &models.Listing{
		TitleOriginal:   normaliseTitle(c.Title),
		PriceMinor:      nonNegative(c.Price),
		ReviewCount:     max(c.ReviewCount, 0),
		SourceURL:       listingURL(c.URL, keyword),
		IsAuthoritative: true,
	}
}

// SearchURL is the marketplace search page for keyword.
func SearchURL(keyword string) string {
	return MarketplaceBase + "/search/?text=" + url.QueryEscape(keyword)
}

// apiPrice prefers price.amount, then the flat price_rub field. A zero
// amount means unknown, not free, so it falls through.
func apiPrice(item map[string]any) float64 {
	var price float64
	switch p := item["price"].(type) {
	case map[string]any:
		price = numberOf(p["amount"])
	default:
		price = numberOf(p)
	}
	if price == 0 {
		price = numberOf(item["price_rub"])
	}
	return nonNegative(price)
}

func field(v any, key string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// numberOf reads a JSON number or a loosely formatted numeric string such
// as "1 299 ₽". Anything else is 0.
func numberOf(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		s := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, x)
		match := numberRegexp.FindString(s)
		if match == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// countOf reads a non-negative count, saturating at math.MaxInt.
func countOf(v any) int {
	f := numberOf(v)
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	default:
		return int(f)
	}
}

func clampRating(r float64) float64 {
	if r < 0 || r > 5 {
		return 0
	}
	return r
}

func listingURL(raw, keyword string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return SearchURL(keyword)
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return MarketplaceBase + raw
	default:
		return raw
	}
}

// normaliseTitle collapses internal whitespace and substitutes UnknownTitle
// for blanks.
func normaliseTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return UnknownTitle
	}
	return s
}
