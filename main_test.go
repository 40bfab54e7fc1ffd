package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ozon-radar/models"
	"ozon-radar/utils"
)

func TestExitCode(t *testing.T) {
	logger := utils.NewNopLogger()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad config aborts", models.NewError(models.KindConfiguration, "UnitCost must be greater than 0"), 1},
		{"empty page aborts", models.NewError(models.KindExtractionEmpty, "no product cards"), 1},
		{"unclassified aborts", errors.New("read html: no such file"), 1},
		{"source without fallback", models.NewError(models.KindSourceUnavailable, "no demo generator"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err, logger))
		})
	}
}
