package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func period(from, to time.Time, rate string) model.RatePeriod {
	return model.RatePeriod{DateFrom: from, DateTo: to, BaseRate: decimal.RequireFromString(rate)}
}

func TestNewRateTimeline_Valid(t *testing.T) {
	// Deliberately unsorted.
	periods := []model.RatePeriod{
		period(day(2024, 7, 1), day(2024, 12, 31), "5"),
		period(day(2024, 1, 1), day(2024, 6, 30), "4"),
	}

	tl, err := model.NewRateTimeline(periods, day(2024, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)

	sorted := tl.Periods()
	require.Len(t, sorted, 2)
	assert.Equal(t, day(2024, 1, 1), sorted[0].DateFrom)

	rate, ok := tl.RateAt(day(2024, 6, 30))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(4).Equal(rate))

	rate, ok = tl.RateAt(day(2024, 7, 1))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(5).Equal(rate))

	_, ok = tl.RateAt(day(2025, 1, 1))
	assert.False(t, ok)
}

func TestNewRateTimeline_Violations(t *testing.T) {
	start, end := day(2024, 1, 1), day(2024, 12, 31)

	tests := []struct {
		name    string
		periods []model.RatePeriod
		want    error
	}{
		{
			name:    "empty",
			periods: nil,
			want:    model.ErrRateTimelineEmpty,
		},
		{
			name:    "degenerate period",
			periods: []model.RatePeriod{period(day(2024, 1, 1), day(2024, 1, 1), "4")},
			want:    model.ErrRatePeriodDegenerate,
		},
		{
			name: "overlap",
			periods: []model.RatePeriod{
				period(day(2024, 1, 1), day(2024, 6, 30), "4"),
				period(day(2024, 6, 30), day(2024, 12, 31), "5"),
			},
			want: model.ErrRateTimelineOverlap,
		},
		{
			name: "gap",
			periods: []model.RatePeriod{
				period(day(2024, 1, 1), day(2024, 6, 29), "4"),
				period(day(2024, 7, 1), day(2024, 12, 31), "5"),
			},
			want: model.ErrRateTimelineGap,
		},
		{
			name:    "starts after credit start",
			periods: []model.RatePeriod{period(day(2024, 1, 2), day(2024, 12, 31), "4")},
			want:    model.ErrRateTimelineUncovered,
		},
		{
			name:    "ends before credit end",
			periods: []model.RatePeriod{period(day(2024, 1, 1), day(2024, 12, 30), "4")},
			want:    model.ErrRateTimelineUncovered,
		},
	}

	kinds := []error{
		model.ErrRateTimelineEmpty, model.ErrRatePeriodDegenerate, model.ErrRateTimelineOverlap,
		model.ErrRateTimelineGap, model.ErrRateTimelineUncovered,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewRateTimeline(tt.periods, start, end)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, model.ErrValidation)

			for _, other := range kinds {
				if other == tt.want {
					continue
				}
				assert.False(t, errors.Is(err, other), "error %v should not match %v", err, other)
			}
		})
	}
}

func TestRateTimeline_Chunks(t *testing.T) {
	tl, err := model.NewRateTimeline([]model.RatePeriod{
		period(day(2024, 1, 1), day(2024, 3, 31), "3"),
		period(day(2024, 4, 1), day(2024, 4, 15), "6"),
		period(day(2024, 4, 16), day(2024, 12, 31), "7"),
	}, day(2024, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)

	t.Run("single rate", func(t *testing.T) {
		chunks, ok := tl.Chunks(day(2024, 1, 1), day(2024, 2, 1))
		require.True(t, ok)
		require.Len(t, chunks, 1)
		assert.Equal(t, 31, chunks[0].Days)
		assert.True(t, decimal.NewFromInt(3).Equal(chunks[0].BaseRate))
	})

	t.Run("spans three periods", func(t *testing.T) {
		chunks, ok := tl.Chunks(day(2024, 3, 30), day(2024, 4, 20))
		require.True(t, ok)
		require.Len(t, chunks, 3)
		assert.Equal(t, 2, chunks[0].Days)
		assert.Equal(t, 15, chunks[1].Days)
		assert.Equal(t, 4, chunks[2].Days)
		assert.Equal(t, day(2024, 4, 16), chunks[2].From)

		total := 0
		for _, c := range chunks {
			total += c.Days
		}
		assert.Equal(t, model.DaysBetween(day(2024, 3, 30), day(2024, 4, 20)), total)
	})

	t.Run("empty range", func(t *testing.T) {
		chunks, ok := tl.Chunks(day(2024, 5, 1), day(2024, 5, 1))
		assert.True(t, ok)
		assert.Empty(t, chunks)
	})

	t.Run("uncovered range", func(t *testing.T) {
		_, ok := tl.Chunks(day(2024, 12, 1), day(2025, 1, 5))
		assert.False(t, ok)
	})
}
