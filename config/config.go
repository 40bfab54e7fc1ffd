package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"ozon-radar/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Keyword      string  `envconfig:"OZON_KEYWORD" default:"crochet bag"`
	ExchangeRate float64 `envconfig:"OZON_EXCHANGE_RATE" default:"0.075"`
	UnitCost     float64 `envconfig:"OZON_UNIT_COST" default:"40"`
	FeePercent   float64 `envconfig:"OZON_FEE_PERCENT" default:"15"`

	MinROI      float64 `envconfig:"OZON_MIN_ROI" default:"0"`
	TopKeywords int     `envconfig:"OZON_TOP_KEYWORDS" default:"10"`

	Translate      bool   `envconfig:"OZON_TRANSLATE" default:"true"`
	TranslateLimit int    `envconfig:"OZON_TRANSLATE_LIMIT" default:"30"`
	TargetLang     string `envconfig:"OZON_TARGET_LANG" default:"zh-CN"`

	RapidAPIKey string        `envconfig:"RAPIDAPI_KEY" default:""`
	APIHost     string        `envconfig:"OZON_API_HOST" default:"ozon-scraper-api.p.rapidapi.com"`
	APITimeout  time.Duration `envconfig:"OZON_API_TIMEOUT" default:"15s"`

	HTMLPath       string `envconfig:"OZON_HTML_PATH" default:""`
	BrowserCapture bool   `envconfig:"OZON_BROWSER_CAPTURE" default:"false"`
	ChromeBin      string `envconfig:"CHROME_BIN" default:""`
	BrowserRetries int    `envconfig:"OZON_BROWSER_RETRIES" default:"2"`

	CSVOutputPath string `envconfig:"OZON_CSV_PATH" default:"./output/ozon_analysis.csv"`
	MetricsPath   string `envconfig:"OZON_METRICS_PATH" default:""`
	MockSeed      int64  `envconfig:"OZON_MOCK_SEED" default:"0"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// RunConfig returns the immutable per-run parameters. The fee is configured
// as a percentage and converted to a rate here.
func (c *Config) RunConfig() models.RunConfig {
	return models.RunConfig{
		Keyword:      c.Keyword,
		ExchangeRate: c.ExchangeRate,
		UnitCost:     c.UnitCost,
		FeeRate:      c.FeePercent / 100,
	}
}
