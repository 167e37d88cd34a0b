package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/app/models"
)

type stubAnalytics struct {
	summary *models.Analytics
	err     error
}

func (s stubAnalytics) Summary(context.Context) (*models.Analytics, error) {
	return s.summary, s.err
}

func TestAnalyticsSummaryNormalizesEmptyBreakdowns(t *testing.T) {
	svc := NewAnalyticsService(stubAnalytics{summary: &models.Analytics{}})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summary.AppsPerUniversity)
	assert.NotNil(t, summary.AppsPerCategory)
	assert.Empty(t, summary.AppsPerUniversity)
}

func TestAnalyticsSummaryMirrorsScholarshipTotal(t *testing.T) {
	svc := NewAnalyticsService(stubAnalytics{summary: &models.Analytics{TotalScholarships: 7}})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalScholarships":7`)
	assert.Contains(t, string(raw), `"totalScholarShips":7`)
}

func TestAnalyticsSummaryPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewAnalyticsService(stubAnalytics{err: boom})

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
