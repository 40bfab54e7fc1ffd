package models

import "time"

// DataMode records which source produced a run's listings.
type DataMode string

const (
	ModeAPI       DataMode = "api"
	ModeHTML      DataMode = "html"
	ModeBrowser   DataMode = "browser"
	ModeSynthetic DataMode = "synthetic"
)

// Authoritative reports whether listings from this mode come from real
// marketplace data rather than the demo generator.
func (m DataMode) Authoritative() bool {
	return m != ModeSynthetic
}

// Verdict is the categorical label derived from an opportunity score.
type Verdict string

const (
	VerdictStrong   Verdict = "strong recommend"
	VerdictWorthTry Verdict = "worth trying"
	VerdictMediocre Verdict = "mediocre"
	VerdictAvoid    Verdict = "avoid"
)

// Verdicts lists every verdict from best to worst.
var Verdicts = []Verdict{VerdictStrong, VerdictWorthTry, VerdictMediocre, VerdictAvoid}

// Card is one product card recovered from page markup before normalization.
type Card struct {
	Title       string
	Price       float64
	ReviewCount int
	URL         string
}

// Listing is one competing product in a run, with its derived metrics.
type Listing struct {
	TitleOriginal   string
	TitleLocal      string
	PriceMinor      float64
	ReviewCount     int
	Rating          float64
	SourceURL       string
	IsAuthoritative bool

	PriceLocal       float64
	NetProfit        float64
	ROIPercent       float64
	EstimatedSales   int
	EstimatedGMV     float64
	OpportunityScore int
	Verdict          Verdict
}

// KeywordCount is one term of the title frequency ranking.
type KeywordCount struct {
	Term  string
	Count int
}

// PriceBucket is one equal-width bin of the source price histogram.
type PriceBucket struct {
	Low   float64
	High  float64
	Count int
}

// MarketInsights holds the aggregate dashboard figures over a ranked batch.
type MarketInsights struct {
	TotalListings   int
	AveragePrice    float64
	AverageROI      float64
	MaxReviews      int
	ProfitableShare float64
	TotalGMV        float64
	VerdictCounts   map[Verdict]int
	PriceHistogram  []PriceBucket
	TopOpportunity  *Listing
}

// Level grades a status message shown to the analyst.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Status is one stage outcome reported alongside the results.
type Status struct {
	Level Level
	Text  string
}

// Report is the complete result of one analysis run.
type Report struct {
	RunID            string
	Keyword          string
	Mode             DataMode
	Config           RunConfig
	Listings         []*Listing
	Keywords         []KeywordCount
	SuggestedTitle   string
	Insights         *MarketInsights
	Dropped          int
	TranslationFails int
	Messages         []Status
	GeneratedAt      time.Time
}

// AddStatus appends a stage outcome message.
func (r *Report) AddStatus(level Level, text string) {
	r.Messages = append(r.Messages, Status{Level: level, Text: text})
}
