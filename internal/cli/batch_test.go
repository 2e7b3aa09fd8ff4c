package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasheena/code-for-good/internal/config"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/metrics"
)

func TestAnalyzeExtractedSkipsFailedSources(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	p, err := config.BuiltinProfile("job_ad_bias")
	require.NoError(t, err)
	opts := p.EngineOptions()
	opts.Metrics = m
	e, err := engine.New(opts)
	require.NoError(t, err)

	texts := []string{"calm team", "", "rockstar ninja guru wizard"}
	errs := []error{nil, errors.New("unreadable"), nil}
	reports := analyzeExtracted(context.Background(), e, texts, errs, 2)

	require.Len(t, reports, 3)
	assert.Equal(t, "Low", reports[0].Tier.Name)
	assert.Empty(t, reports[1].Profile)
	assert.Empty(t, reports[1].Segments)
	assert.Equal(t, "Moderate", reports[2].Tier.Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("job_ad_bias", "Low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("job_ad_bias", "Moderate")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.AnalysesTotal))
}
