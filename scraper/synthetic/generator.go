// Package synthetic produces demo listings when no real marketplace data is
// available. Every listing it returns is flagged non-authoritative.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"ozon-radar/models"
)

const (
	// BatchSize is the number of demo listings per run.
	BatchSize = 30
	// TitlePrefix marks demo titles so they are never mistaken for real ones.
	TitlePrefix = "[demo]"
	demoLink    = "https://www.ozon.ru"
)

// Generator builds demo batches from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator. A zero seed uses the current time.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns BatchSize demo listings for keyword. Prices cluster around
// a random base, and roughly a fifth of the listings are review-heavy.
func (g *Generator) Generate(keyword string) []*models.Listing {
	base := g.between(500, 3000)
	out := make([]*models.Listing, 0, BatchSize)

	for i := 0; i < BatchSize; i++ {
		price := max(100, base+g.between(-500, 1500))

		var reviews int
		if g.rng.Float64() > 0.2 {
			reviews = g.between(0, 100)
		} else {
			reviews = g.between(500, 3000)
		}

		rating := math.Round((3.0+g.rng.Float64()*2.0)*10) / 10

		out = append(out, &models.Listing{
			TitleOriginal:   fmt.Sprintf("%s %s style %s Pro Max", TitlePrefix, keyword, styleLabel(i)),
			PriceMinor:      float64(price),
			ReviewCount:     reviews,
			Rating:          rating,
			SourceURL:       demoLink,
			IsAuthoritative: false,
		})
	}
	return out
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// styleLabel yields A..Z, then AA, AB, ...
func styleLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return styleLabel(i/26-1) + string(rune('A'+i%26))
}
