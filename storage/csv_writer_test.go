package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozon-radar/models"
)

func TestCSVWriterBOMAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "analysis.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	listings := []*models.Listing{
		{
			TitleOriginal: "Сумка, вязаная", TitleLocal: "Crochet bag", PriceMinor: 1000,
			PriceLocal: 75, NetProfit: 23.75, ROIPercent: 59.375, ReviewCount: 1500,
			Rating: 4.2, EstimatedSales: 235, EstimatedGMV: 17625, OpportunityScore: 100,
			Verdict: models.VerdictStrong, IsAuthoritative: true, SourceURL: "https://www.ozon.ru/product/a-1",
		},
		{TitleOriginal: "Plain", PriceMinor: 0.5, Verdict: models.VerdictAvoid},
	}
	require.NoError(t, w.WriteListings(listings))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "\ufeff"), "file starts with a BOM")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"1", "Сумка, вязаная", "Crochet bag", "1000", "75", "23.75", "59.375", "1500",
		"4.2", "235", "17625", "100", "strong recommend", "true", "https://www.ozon.ru/product/a-1",
	}, rows[1])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "0.5", rows[2][3])
	assert.Equal(t, "false", rows[2][13])
}

func TestCSVWriterHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteListings(nil))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeff"+strings.Join(csvHeader, ",")+"\n", string(data))
}

func TestDecimalString(t *testing.T) {
	assert.Equal(t, "1234567.5", decimalString(1234567.5))
	assert.Equal(t, "-27.25", decimalString(-27.25))
	assert.Equal(t, "0", decimalString(0))
}
