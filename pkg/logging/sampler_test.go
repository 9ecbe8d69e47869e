package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSampler(t *testing.T) {
	sampler := NewErrorSampler(10)

	assert.True(t, sampler.ShouldLog("list_page"), "first failure is logged")
	for i := 2; i <= 9; i++ {
		assert.False(t, sampler.ShouldLog("list_page"), "failure %d should be sampled out", i)
	}
	assert.True(t, sampler.ShouldLog("list_page"), "10th failure is logged")
	assert.Equal(t, 10, sampler.GetCount("list_page"))

	sampler.Reset("list_page")
	assert.Equal(t, 0, sampler.GetCount("list_page"))
	assert.True(t, sampler.ShouldLog("list_page"), "first failure after recovery is logged")
}

func TestErrorSamplerMultipleKeys(t *testing.T) {
	sampler := NewErrorSampler(5)

	sampler.ShouldLog("list_page")
	sampler.ShouldLog("probe")
	assert.Equal(t, 1, sampler.GetCount("list_page"))
	assert.Equal(t, 1, sampler.GetCount("probe"))

	sampler.Reset("list_page")
	assert.Zero(t, sampler.GetCount("list_page"))
	assert.Equal(t, 1, sampler.GetCount("probe"), "other keys are untouched")
}

func TestErrorSamplerInvalidInterval(t *testing.T) {
	sampler := NewErrorSampler(0)
	sampler.ShouldLog("k")
	for i := 2; i < 10; i++ {
		assert.False(t, sampler.ShouldLog("k"))
	}
	assert.True(t, sampler.ShouldLog("k"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup(&buf, "warn")
	slog.Info("hidden")
	slog.Warn("shown", "page", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"page":2`)
}
