package services

import (
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ozon-radar/models"
)

const (
	reportWidth   = 78
	tableRows     = 15
	titleColumn   = 36
	keywordBarMax = 30
)

const (
	ansiReset   = "\033[0m"
	ansiBold    = "\033[1m"
	ansiRed     = "\033[1;31m"
	ansiGreen   = "\033[1;32m"
	ansiYellow  = "\033[1;33m"
	ansiCyan    = "\033[1;36m"
	ansiMagenta = "\033[1;35m"
)

// ReportPrinter renders a Report as a colourised terminal summary.
type ReportPrinter struct {
	out io.Writer
	p   *message.Printer
}

// NewReportPrinter writes to out, or stdout when out is nil.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	if out == nil {
		out = os.Stdout
	}
	return &ReportPrinter{out: out, p: message.NewPrinter(language.English)}
}

// Print renders rep using listings as the table view, so callers can pass a
// filtered subset of rep.Listings.
func (rp *ReportPrinter) Print(rep *models.Report, listings []*models.Listing) {
	sep := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	rp.printf("\n%s%s%s\n", ansiMagenta, sep, ansiReset)
	rp.printf("%s  OZON OPPORTUNITY RADAR: %q%s\n", ansiMagenta, rep.Keyword, ansiReset)
	rp.printf("%s%s%s\n\n", ansiMagenta, sep, ansiReset)

	if rep.Mode.Authoritative() {
		rp.printf("  %sLive data (%s)%s  run %s\n", ansiGreen, rep.Mode, ansiReset, rep.RunID)
	} else {
		rp.printf("  %sDEMO DATA: figures below are synthetic%s  run %s\n", ansiYellow, ansiReset, rep.RunID)
	}
	for _, m := range rep.Messages {
		rp.printf("  %s%s%s\n", levelColour(m.Level), m.Text, ansiReset)
	}
	rp.printf("\n")

	rp.printInsights(rep.Insights, rep.Config, thin)
	rp.printTable(listings, thin)
	rp.printKeywords(rep.Keywords, rep.SuggestedTitle, thin)

	rp.printf("%s%s%s\n\n", ansiMagenta, sep, ansiReset)
}

func (rp *ReportPrinter) printInsights(in *models.MarketInsights, rc models.RunConfig, thin string) {
	rp.printf("%s  Market Overview%s\n", ansiYellow, ansiReset)
	rp.printf("  %s\n", thin)
	if in == nil || in.TotalListings == 0 {
		rp.printf("  No listings to summarize\n\n")
		return
	}

	rp.printf("  Listings analysed   : %s%d%s\n", ansiBold, in.TotalListings, ansiReset)
	rp.printf("  Average price       : %s%.2f ₽%s\n", ansiBold, in.AveragePrice, ansiReset)
	rp.printf("  Average ROI         : %s%s%.1f%%%s\n", ansiBold, roiColour(in.AverageROI), in.AverageROI, ansiReset)
	rp.printf("  Max reviews         : %s%d%s\n", ansiBold, in.MaxReviews, ansiReset)
	rp.printf("  Profitable listings : %s%.0f%%%s\n", ansiBold, in.ProfitableShare, ansiReset)
	rp.printf("  Est. monthly GMV    : %s%.2f%s\n", ansiBold, in.TotalGMV, ansiReset)
	rp.printf("  Unit cost %.2f | rate %.4f | fee %.0f%%\n", rc.UnitCost, rc.ExchangeRate, rc.FeeRate*100)

	rp.printf("\n  Verdicts:")
	for _, v := range models.Verdicts {
		rp.printf("  %s %d", v, in.VerdictCounts[v])
	}
	rp.printf("\n")

	if len(in.PriceHistogram) > 0 {
		rp.printf("\n  Price distribution (₽):\n")
		for _, b := range in.PriceHistogram {
			rp.printf("  %9.0f - %-9.0f %s (%d)\n", b.Low, b.High, strings.Repeat("█", b.Count), b.Count)
		}
	}

	if top := in.TopOpportunity; top != nil {
		rp.printf("\n  Top opportunity: %s%s%s (score %d, %s)\n",
			ansiBold, truncate(displayTitle(top), 50), ansiReset, top.OpportunityScore, top.Verdict)
	}
	rp.printf("\n")
}

func (rp *ReportPrinter) printTable(listings []*models.Listing, thin string) {
	rp.printf("%s  Ranked Listings%s\n", ansiYellow, ansiReset)
	rp.printf("  %s\n", thin)
	if len(listings) == 0 {
		rp.printf("  No listings meet the ROI threshold\n\n")
		return
	}

	rp.printf("  %3s %s %9s %8s %7s %6s %5s\n", "#", padRight("Title", titleColumn), "Price ₽", "Profit", "ROI %", "Sales", "Score")
	for i, l := range listings {
		if i == tableRows {
			rp.printf("  ... %d more in the CSV export\n", len(listings)-tableRows)
			break
		}
		rp.printf("  %3d %s %9.0f %8.2f %s%7.1f%s %6d %s%5d%s\n",
			i+1, padRight(truncate(displayTitle(l), titleColumn), titleColumn),
			l.PriceMinor, l.NetProfit,
			roiColour(l.ROIPercent), l.ROIPercent, ansiReset,
			l.EstimatedSales,
			scoreColour(l.OpportunityScore), l.OpportunityScore, ansiReset)
	}
	rp.printf("\n")
}

func (rp *ReportPrinter) printKeywords(keywords []models.KeywordCount, suggested, thin string) {
	rp.printf("%s  Title Keywords%s\n", ansiYellow, ansiReset)
	rp.printf("  %s\n", thin)
	if len(keywords) == 0 {
		rp.printf("  No keywords found\n\n")
		return
	}

	top := keywords[0].Count
	for _, k := range keywords {
		width := k.Count
		if top > keywordBarMax {
			width = max(1, k.Count*keywordBarMax/top)
		}
		rp.printf("  %-20s %s%s%s (%d)\n", truncate(k.Term, 20), ansiCyan, strings.Repeat("█", width), ansiReset, k.Count)
	}
	rp.printf("\n  Suggested title: %s%s%s\n\n", ansiGreen, suggested, ansiReset)
}

func (rp *ReportPrinter) printf(format string, args ...any) {
	rp.p.Fprintf(rp.out, format, args...)
}

func displayTitle(l *models.Listing) string {
	if l.TitleLocal != "" {
		return l.TitleLocal
	}
	return l.TitleOriginal
}

func scoreColour(score int) string {
	switch {
	case score >= VerdictStrongMin:
		return ansiGreen
	case score >= VerdictWorthTryMin:
		return ansiCyan
	case score >= VerdictMediocreMin:
		return ansiYellow
	default:
		return ansiRed
	}
}

func roiColour(roi float64) string {
	if roi > 0 {
		return ansiGreen
	}
	return ansiRed
}

func levelColour(l models.Level) string {
	switch l {
	case models.LevelSuccess:
		return ansiGreen
	case models.LevelWarning:
		return ansiYellow
	case models.LevelError:
		return ansiRed
	default:
		return ansiCyan
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func padRight(s string, n int) string {
	if pad := n - len([]rune(s)); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
