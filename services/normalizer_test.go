package services

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozon-radar/models"
	"ozon-radar/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestFromAPIItemNestedFields(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := json.RawMessage(`{
		"title": "  Сумка   вязаная  ",
		"price": {"amount": 1299},
		"price_rub": 999,
		"rating": {"average": 4.6, "count": 321},
		"url": "/product/sumka-123/"
	}`)

	l, err := n.FromAPIItem(raw, "bag")
	require.NoError(t, err)

	assert.Equal(t, "Сумка вязаная", l.TitleOriginal)
	assert.Equal(t, 1299.0, l.PriceMinor)
	assert.Equal(t, 321, l.ReviewCount)
	assert.Equal(t, 4.6, l.Rating)
	assert.Equal(t, "https://www.ozon.ru/product/sumka-123/", l.SourceURL)
	assert.True(t, l.IsAuthoritative)
}

func TestFromAPIItemPriceFallbacks(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"zero amount falls to flat field", `{"price": {"amount": 0}, "price_rub": 850}`, 850},
		{"missing nested uses flat", `{"price_rub": 700}`, 700},
		{"flat price number", `{"price": 640}`, 640},
		{"numeric string", `{"price": {"amount": "1 299 ₽"}}`, 1299},
		{"garbage amount", `{"price": {"amount": "n/a"}}`, 0},
		{"negative clamps", `{"price_rub": -10}`, 0},
		{"both missing keeps unknown price", `{"title": "x"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := n.FromAPIItem(json.RawMessage(tt.raw), "kw")
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.PriceMinor)
		})
	}
}

func TestFromAPIItemDefaults(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	l, err := n.FromAPIItem(json.RawMessage(`{"rating": "bad"}`), "crochet bag")
	require.NoError(t, err)

	assert.Equal(t, UnknownTitle, l.TitleOriginal)
	assert.Equal(t, 0, l.ReviewCount)
	assert.Equal(t, 0.0, l.Rating)
	assert.Equal(t, "https://www.ozon.ru/search/?text=crochet+bag", l.SourceURL)
}

func TestFromAPIItemHugeReviewCount(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	l, err := n.FromAPIItem(json.RawMessage(`{"rating": {"count": 1e20, "average": 4.1}}`), "kw")
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt, l.ReviewCount)
	assert.Equal(t, SalesCap, EstimateSales(l.ReviewCount))
}

func TestFromAPIItemRatingOutOfRange(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	l, err := n.FromAPIItem(json.RawMessage(`{"rating": {"average": 7.5, "count": -3}}`), "kw")
	require.NoError(t, err)

	assert.Equal(t, 0.0, l.Rating)
	assert.Equal(t, 0, l.ReviewCount)
}

func TestNormalizeAPIDropsMalformed(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	items := []json.RawMessage{
		json.RawMessage(`{"title": "ok", "price_rub": 500}`),
		json.RawMessage(`"just a string"`),
		json.RawMessage(`null`),
		json.RawMessage(`{"title": "broken"`),
		json.RawMessage(`{"title": "ok too"}`),
	}

	listings, dropped := n.NormalizeAPI(items, "kw")

	require.Len(t, listings, 2)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, "ok", listings[0].TitleOriginal)
	assert.Equal(t, "ok too", listings[1].TitleOriginal)
}

func TestFromAPIItemMalformedKind(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	_, err := n.FromAPIItem(json.RawMessage(`[1,2]`), "kw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRecordMalformed))
}

func TestFromCard(t *testing.T) {
	l := FromCard(models.Card{Title: "", Price: 1500, ReviewCount: 12, URL: "/product/x-1/"}, "kw")

	assert.Equal(t, UnknownTitle, l.TitleOriginal)
	assert.Equal(t, 1500.0, l.PriceMinor)
	assert.Equal(t, 12, l.ReviewCount)
	assert.Equal(t, "https://www.ozon.ru/product/x-1/", l.SourceURL)
	assert.True(t, l.IsAuthoritative)
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.ozon.ru/search/?text=crochet+bag", SearchURL("crochet bag"))
	assert.Equal(t, "https://www.ozon.ru/search/?text=%D1%81%D1%83%D0%BC%D0%BA%D0%B0", SearchURL("сумка"))
}
