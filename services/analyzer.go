package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ozon-radar/models"
	"ozon-radar/utils"
)

// suggestedTerms is how many ranked terms follow the keyword in a title hint.
const suggestedTerms = 5

// ListingSource searches the marketplace listings API.
type ListingSource interface {
	Search(ctx context.Context, keyword string) ([]json.RawMessage, error)
}

// PageCapturer fetches rendered search-page markup.
type PageCapturer interface {
	CaptureSearch(ctx context.Context, keyword string) (string, error)
}

// CardExtractor recovers product cards from page markup.
type CardExtractor interface {
	Extract(markup string) ([]models.Card, error)
}

// DemoGenerator produces synthetic listings for a keyword.
type DemoGenerator interface {
	Generate(keyword string) []*models.Listing
}

// AnalyzerDeps wires the collaborators of an Analyzer. Source, Capturer and
// Translator may be nil.
type AnalyzerDeps struct {
	Source         ListingSource
	Capturer       PageCapturer
	Extractor      CardExtractor
	Generator      DemoGenerator
	Translator     Translator
	TranslateLimit int
	TopKeywords    int
	Logger         *utils.Logger
}

// Analyzer runs the full scoring pipeline for one batch at a time.
type Analyzer struct {
	deps       AnalyzerDeps
	normalizer *Normalizer
	titles     *TitleTranslator
	insights   *InsightService
	logger     *utils.Logger
}

// NewAnalyzer creates an Analyzer from its collaborators.
func NewAnalyzer(deps AnalyzerDeps) *Analyzer {
	if deps.TopKeywords <= 0 {
		deps.TopKeywords = DefaultTopKeywords
	}
	return &Analyzer{
		deps:       deps,
		normalizer: NewNormalizer(deps.Logger),
		titles:     NewTitleTranslator(deps.Translator, deps.TranslateLimit, deps.Logger),
		insights:   NewInsightService(deps.Logger),
		logger:     deps.Logger,
	}
}

// AnalyzeKeyword searches the listings API and falls back to synthetic data
// when the API yields nothing usable.
func (a *Analyzer) AnalyzeKeyword(ctx context.Context, rc models.RunConfig) (*models.Report, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	rep := a.newReport(rc)

	listings, dropped, err := a.fromAPI(ctx, rc.Keyword)
	rep.Dropped = dropped
	if err != nil {
		a.logger.Warn("[analyzer] Listings API unavailable: %v", err)
		return a.fallback(ctx, rc, rep, "API not connected")
	}

	rep.Mode = models.ModeAPI
	rep.AddStatus(models.LevelSuccess, fmt.Sprintf("Fetched %d real competitor listings", len(listings)))
	return a.finish(ctx, rc, rep, listings)
}

// AnalyzeHTML scores listings recovered from pasted page markup. Finding no
// cards is fatal: there is no keyword context to synthesize data from.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, rc models.RunConfig, markup string) (*models.Report, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	rep := a.newReport(rc)

	cards, err := a.deps.Extractor.Extract(markup)
	if err != nil {
		return nil, err
	}

	rep.Mode = models.ModeHTML
	rep.AddStatus(models.LevelSuccess, fmt.Sprintf("Extracted %d listings from HTML", len(cards)))
	return a.finish(ctx, rc, rep, a.normalizer.NormalizeCards(cards, rc.Keyword))
}

// AnalyzeBrowser captures the live search page in a headless browser and
// runs the card extractor on it. A failed capture or an empty page falls back
// to synthetic data, as the keyword is known.
func (a *Analyzer) AnalyzeBrowser(ctx context.Context, rc models.RunConfig) (*models.Report, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	rep := a.newReport(rc)

	if a.deps.Capturer == nil {
		return a.fallback(ctx, rc, rep, "browser capture not configured")
	}

	markup, err := a.deps.Capturer.CaptureSearch(ctx, rc.Keyword)
	if err != nil {
		a.logger.Warn("[analyzer] Browser capture failed: %v", err)
		return a.fallback(ctx, rc, rep, "browser capture failed")
	}

	cards, err := a.deps.Extractor.Extract(markup)
	if err != nil {
		a.logger.Warn("[analyzer] Captured page had no cards: %v", err)
		return a.fallback(ctx, rc, rep, "captured page had no product cards")
	}

	rep.Mode = models.ModeBrowser
	rep.AddStatus(models.LevelSuccess, fmt.Sprintf("Captured %d listings from the live search page", len(cards)))
	return a.finish(ctx, rc, rep, a.normalizer.NormalizeCards(cards, rc.Keyword))
}

func (a *Analyzer) fromAPI(ctx context.Context, keyword string) ([]*models.Listing, int, error) {
	if a.deps.Source == nil {
		return nil, 0, models.NewError(models.KindSourceUnavailable, "no listings API configured")
	}

	items, err := a.deps.Source.Search(ctx, keyword)
	if err != nil {
		return nil, 0, err
	}

	listings, dropped := a.normalizer.NormalizeAPI(items, keyword)
	if len(listings) == 0 {
		return nil, dropped, models.NewError(models.KindSourceUnavailable, "all %d records were malformed", dropped)
	}
	return listings, dropped, nil
}

func (a *Analyzer) fallback(ctx context.Context, rc models.RunConfig, rep *models.Report, reason string) (*models.Report, error) {
	if a.deps.Generator == nil {
		return nil, models.NewError(models.KindSourceUnavailable, "%s and no demo generator configured", reason)
	}
	rep.Mode = models.ModeSynthetic
	rep.AddStatus(models.LevelWarning, fmt.Sprintf("Showing demo data (%s)", reason))
	return a.finish(ctx, rc, rep, a.deps.Generator.Generate(rc.Keyword))
}

// finish enriches, translates, ranks and summarizes a batch.
func (a *Analyzer) finish(ctx context.Context, rc models.RunConfig, rep *models.Report, listings []*models.Listing) (*models.Report, error) {
	if err := Enrich(listings, rc); err != nil {
		return nil, err
	}

	rep.TranslationFails = a.titles.Apply(ctx, listings)
	if rep.TranslationFails > 0 {
		rep.AddStatus(models.LevelInfo, fmt.Sprintf("%d titles kept their original text", rep.TranslationFails))
	}
	if rep.Dropped > 0 {
		rep.AddStatus(models.LevelInfo, fmt.Sprintf("%d malformed records were dropped", rep.Dropped))
	}

	Rank(listings)
	rep.Listings = listings

	titles := make([]string, len(listings))
	for i, l := range listings {
		titles[i] = l.TitleOriginal
	}
	rep.Keywords = ExtractKeywords(titles, a.deps.TopKeywords)
	rep.SuggestedTitle = SuggestTitle(rc.Keyword, rep.Keywords, suggestedTerms)
	rep.Insights = a.insights.Generate(listings)

	a.logger.Info("[analyzer] Run %s complete: %d listings, mode=%s, authoritative=%t",
		rep.RunID, len(listings), rep.Mode, rep.Mode.Authoritative())
	return rep, nil
}

// Enrich fills the derived metrics of every listing in one pass. rc is
// checked once up front since a bad configuration invalidates every record.
func Enrich(listings []*models.Listing, rc models.RunConfig) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	for _, l := range listings {
		p, err := ComputeProfit(l.PriceMinor, rc)
		if err != nil {
			return err
		}
		l.PriceLocal = p.PriceLocal
		l.NetProfit = p.NetProfit
		l.ROIPercent = p.ROIPercent
		l.EstimatedSales = EstimateSales(l.ReviewCount)
		l.EstimatedGMV = EstimateGMV(l.EstimatedSales, l.PriceLocal)

		s := ScoreListing(l)
		l.OpportunityScore = s.Total
		l.Verdict = s.Verdict
	}
	return nil
}

func (a *Analyzer) newReport(rc models.RunConfig) *models.Report {
	return &models.Report{
		RunID:       uuid.NewString(),
		Keyword:     rc.Keyword,
		Config:      rc,
		GeneratedAt: time.Now(),
	}
}

// IsFatal reports whether err should abort the run rather than degrade it.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *models.Error
	if !errors.As(err, &e) {
		return true
	}
	return e.Kind().Fatal()
}
