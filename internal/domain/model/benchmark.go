package model

import (
	"regexp"
	"time"
)

var benchmarkNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\- ]{0,63}$`)

// BenchmarkRates is a named base-rate timeline such as "WIBOR 3M" that
// calculation requests may reference instead of sending periods inline.
type BenchmarkRates struct {
	TenantID  string
	Name      string
	Periods   []RatePeriod
	UpdatedAt time.Time
}

// NewBenchmarkRates validates the name and the contiguity of periods. The
// periods are stored sorted; coverage of any particular credit is checked
// only when the timeline is used.
func NewBenchmarkRates(tenantID, name string, periods []RatePeriod, now time.Time) (BenchmarkRates, error) {
	if !benchmarkNamePattern.MatchString(name) {
		return BenchmarkRates{}, NewValidationError(ViolationInvalidParameter, "invalid benchmark name %q", name)
	}
	sorted, err := SortRatePeriods(periods)
	if err != nil {
		return BenchmarkRates{}, err
	}
	for _, p := range sorted {
		if p.BaseRate.IsNegative() {
			return BenchmarkRates{}, NewValidationError(ViolationInvalidParameter,
				"benchmark rate for %s is negative", FormatDate(p.DateFrom))
		}
	}
	return BenchmarkRates{TenantID: tenantID, Name: name, Periods: sorted, UpdatedAt: now.UTC()}, nil
}

// Span returns the first and last covered day.
func (b BenchmarkRates) Span() (time.Time, time.Time) {
	if len(b.Periods) == 0 {
		return time.Time{}, time.Time{}
	}
	return b.Periods[0].DateFrom, b.Periods[len(b.Periods)-1].DateTo
}
