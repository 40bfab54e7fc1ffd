package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWith(&buf, "json", "warn")

	l.Info("[test] hidden %d", 1)
	l.Warn("[test] shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"[test] shown 2"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWith(&buf, "json", "loud")

	l.Debug("[test] debug")
	l.Info("[test] info")

	assert.NotContains(t, buf.String(), "[test] debug")
	assert.Contains(t, buf.String(), "[test] info")
}
