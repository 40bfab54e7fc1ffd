package htmlcard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozon-radar/models"
	"ozon-radar/utils"
)

const searchPage = `<!DOCTYPE html>
<html><body>
<div class="grid">
  <div class="tile">
    <a href="/product/sumka-vyazanaya-111/?asb=track1"><img src="a.jpg" alt="Сумка вязаная пляжная"></a>
    <div class="info">
      <span class="price">1 299 ₽</span><span class="old">2 100 ₽</span>
      <div class="rating"><span>4.8</span><span>1 234 отзыва</span></div>
      <a href="/product/sumka-vyazanaya-111/">Сумка вязаная пляжная</a>
    </div>
  </div>
  <div class="tile">
    <a href="https://www.ozon.ru/product/shopper-222/"><img src="b.jpg" alt="bag"></a>
    <div>
      <span>899,50&nbsp;₽</span>
      <span>(56)</span>
    </div>
    <a href="https://www.ozon.ru/product/shopper-222/">Шоппер   хлопковый</a>
  </div>
  <div class="tile">
    <a href="/product/no-reviews-333/">Корзинка</a>
    <div><span>2 450 ₽</span></div>
  </div>
  <div class="tile">
    <a href="/product/cheap-444/">Наклейка</a>
    <div><span>35 ₽</span><span>12 отзывов</span></div>
  </div>
  <div class="promo">
    <a href="/category/bags/">Все сумки</a>
    <span>от 500 ₽</span>
  </div>
</div>
</body></html>`

func TestExtractCards(t *testing.T) {
	e := New(utils.NewNopLogger())

	cards, err := e.Extract(searchPage)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, models.Card{
		Title:       "Сумка вязаная пляжная",
		Price:       1299,
		ReviewCount: 1234,
		URL:         "/product/sumka-vyazanaya-111/?asb=track1",
	}, cards[0])

	assert.Equal(t, "Шоппер хлопковый", cards[1].Title, "short alt falls back to link text")
	assert.Equal(t, 899.5, cards[1].Price)
	assert.Equal(t, 56, cards[1].ReviewCount, "bracketed number is the fallback")

	assert.Equal(t, "Корзинка", cards[2].Title)
	assert.Equal(t, 2450.0, cards[2].Price)
	assert.Equal(t, 0, cards[2].ReviewCount)
}

func TestExtractIsIdempotent(t *testing.T) {
	e := New(utils.NewNopLogger())

	first, err := e.Extract(searchPage)
	require.NoError(t, err)
	second, err := e.Extract(searchPage)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractEmpty(t *testing.T) {
	e := New(utils.NewNopLogger())

	for _, markup := range []string{
		"",
		"<html><body><p>nothing here</p></body></html>",
		`<div><a href="/product/x-1/">x</a><span>10 ₽</span></div>`,
		"<<<>>> not <html at all",
	} {
		_, err := e.Extract(markup)
		require.Error(t, err, markup)
		assert.True(t, errors.Is(err, models.ErrExtractionEmpty), markup)
	}
}

func TestExtractAncestorBound(t *testing.T) {
	// price sits seven levels above the link, out of reach
	markup := `<div><span>1 500 ₽</span><div><div><div><div><div><div><a href="/product/deep-1/">deep</a></div></div></div></div></div></div></div>`

	_, err := New(utils.NewNopLogger()).Extract(markup)
	assert.True(t, errors.Is(err, models.ErrExtractionEmpty))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"1 299 ₽", 1299, true},
		{"1\u2009299\u2009₽", 1299, true},
		{"12\u00a0345,90 ₽", 12345.9, true},
		{"4.8 1 234 отзыва 1 299 ₽", 1299, true},
		{"-20% 899 руб.", 899, true},
		{"price 15000 RUB", 15000, true},
		{"4.8 299 ₽", 299, true},
		{"4,8 1 299 ₽", 1299, true},
		{"no price", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePrice(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestParseReviews(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"4.8 1 234 отзыва", 1234},
		{"4,9 · 87 отзывов", 87},
		{"Отзывы: 15", 15},
		{"512 reviews", 512},
		{"评价 33", 33},
		{"4.5 (77)", 77},
		{"4.8 123 отзыва", 123},
		{"4,7 56 отзывов", 56},
		{"1 299 ₽", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseReviews(tt.text), tt.text)
	}
}

func TestExtractRatingNextToCounts(t *testing.T) {
	markup := `<div class="tile">
  <a href="/product/korzina-555/">Корзина плетёная</a>
  <div><span>4.8</span><span>299 ₽</span></div>
  <div><span>4.8</span><span>123 отзыва</span></div>
</div>`

	cards, err := New(utils.NewNopLogger()).Extract(markup)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	assert.Equal(t, 299.0, cards[0].Price)
	assert.Equal(t, 123, cards[0].ReviewCount)
}
