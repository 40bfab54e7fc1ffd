package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ozon-radar/config"
	"ozon-radar/metrics"
	"ozon-radar/models"
	"ozon-radar/scraper/htmlcard"
	"ozon-radar/scraper/ozon"
	"ozon-radar/scraper/synthetic"
	"ozon-radar/services"
	"ozon-radar/storage"
	"ozon-radar/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Keyword, "keyword", cfg.Keyword, "search keyword to analyse")
	flag.StringVar(&cfg.HTMLPath, "html", cfg.HTMLPath, "analyse a saved search page instead of calling the API")
	flag.BoolVar(&cfg.BrowserCapture, "browser", cfg.BrowserCapture, "capture the live search page in headless Chrome")
	flag.Parse()

	logger := utils.NewLoggerWith(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	logger.Info("=== Ozon Opportunity Radar starting ===")
	logger.Info("Config: keyword %q | rate %.4f | unit cost %.2f | fee %.1f%% | min ROI %.1f%%",
		cfg.Keyword, cfg.ExchangeRate, cfg.UnitCost, cfg.FeePercent, cfg.MinROI)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		os.Exit(exitCode(err, logger))
	}
}

// exitCode logs err and maps it to a process status: 1 when the run was
// aborted, 2 when a degradable source failed with no fallback left.
func exitCode(err error, logger *utils.Logger) int {
	kind := models.KindOf(err)
	if kind == "" {
		kind = "UNEXPECTED"
	}
	if services.IsFatal(err) {
		logger.Error("Run aborted [%s]: %v", kind, err)
		return 1
	}
	logger.Warn("Run produced no report [%s]: %v", kind, err)
	return 2
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	deps := services.AnalyzerDeps{
		Source:         ozon.NewClient(cfg.RapidAPIKey, cfg.APIHost, cfg.APITimeout, logger),
		Extractor:      htmlcard.New(logger),
		Generator:      synthetic.New(cfg.MockSeed),
		TranslateLimit: cfg.TranslateLimit,
		TopKeywords:    cfg.TopKeywords,
		Logger:         logger,
	}
	if cfg.Translate {
		deps.Translator = services.NewGoogleTranslator(cfg.TargetLang)
	}
	if cfg.BrowserCapture {
		deps.Capturer = ozon.NewBrowserCapture(cfg.ChromeBin, cfg.BrowserRetries, logger)
	}
	analyzer := services.NewAnalyzer(deps)
	rc := cfg.RunConfig()

	var (
		rep *models.Report
		err error
	)
	switch {
	case cfg.HTMLPath != "":
		markup, readErr := os.ReadFile(cfg.HTMLPath)
		if readErr != nil {
			return fmt.Errorf("read html %q: %w", cfg.HTMLPath, readErr)
		}
		rep, err = analyzer.AnalyzeHTML(ctx, rc, string(markup))
	case cfg.BrowserCapture:
		rep, err = analyzer.AnalyzeBrowser(ctx, rc)
	default:
		rep, err = analyzer.AnalyzeKeyword(ctx, rc)
	}
	if err != nil {
		return err
	}

	view := services.FilterByMinROI(rep.Listings, cfg.MinROI)
	logger.Info("%d of %d listings meet the %.1f%% ROI threshold", len(view), len(rep.Listings), cfg.MinROI)

	services.NewReportPrinter(os.Stdout).Print(rep, view)

	if err := exportCSV(cfg.CSVOutputPath, view); err != nil {
		logger.Error("CSV export failed: %v", err)
	} else {
		logger.Info("Ranked listings saved to %s", cfg.CSVOutputPath)
	}

	if cfg.MetricsPath != "" {
		recorder := metrics.NewRecorder()
		recorder.ObserveReport(rep)
		if err := recorder.WriteTextfile(cfg.MetricsPath); err != nil {
			logger.Error("Metrics flush failed: %v", err)
		} else {
			logger.Debug("Metrics written to %s", cfg.MetricsPath)
		}
	}

	logger.Info("=== Done. ===")
	return nil
}

func exportCSV(path string, listings []*models.Listing) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteListings(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
