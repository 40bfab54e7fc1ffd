package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "crochet bag", cfg.Keyword)
	assert.Equal(t, 0.075, cfg.ExchangeRate)
	assert.Equal(t, 40.0, cfg.UnitCost)
	assert.Equal(t, 15.0, cfg.FeePercent)
	assert.Equal(t, 10, cfg.TopKeywords)
	assert.Equal(t, 30, cfg.TranslateLimit)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.True(t, cfg.Translate)
	assert.Empty(t, cfg.RapidAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OZON_KEYWORD", "phone case")
	t.Setenv("OZON_UNIT_COST", "50")
	t.Setenv("OZON_FEE_PERCENT", "20")
	t.Setenv("OZON_API_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	rc := cfg.RunConfig()
	assert.Equal(t, "phone case", rc.Keyword)
	assert.Equal(t, 50.0, rc.UnitCost)
	assert.InDelta(t, 0.20, rc.FeeRate, 1e-12)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
}

func TestLoadRejectsMalformedNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OZON_UNIT_COST", "forty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse env")
}
