package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RatePeriod is a base rate in effect from DateFrom through DateTo, both inclusive.
type RatePeriod struct {
	DateFrom time.Time
	DateTo   time.Time
	BaseRate decimal.Decimal
}

// RateChunk is a half-open run of days [From, To) over which the base rate is constant.
type RateChunk struct {
	From     time.Time
	To       time.Time
	Days     int
	BaseRate decimal.Decimal
}

// RateTimeline is a validated, sorted, contiguous set of rate periods.
type RateTimeline struct {
	periods []RatePeriod
}

// NewRateTimeline sorts the periods and checks they form one gap-free,
// non-overlapping run covering [creditStart, creditEnd].
func NewRateTimeline(periods []RatePeriod, creditStart, creditEnd time.Time) (RateTimeline, error) {
	sorted, err := SortRatePeriods(periods)
	if err != nil {
		return RateTimeline{}, err
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	if first.DateFrom.After(Date(creditStart)) {
		return RateTimeline{}, NewValidationError(ViolationMissingCoverage,
			"rate timeline starts %s, after credit start %s", FormatDate(first.DateFrom), FormatDate(creditStart))
	}
	if last.DateTo.Before(Date(creditEnd)) {
		return RateTimeline{}, NewValidationError(ViolationMissingCoverage,
			"rate timeline ends %s, before credit end %s", FormatDate(last.DateTo), FormatDate(creditEnd))
	}

	return RateTimeline{periods: sorted}, nil
}

// SortRatePeriods returns a sorted, normalised copy of periods after checking
// that every period is non-degenerate and consecutive periods neither overlap
// nor leave a gap. Coverage of a credit span is not checked.
func SortRatePeriods(periods []RatePeriod) ([]RatePeriod, error) {
	if len(periods) == 0 {
		return nil, NewValidationError(ViolationEmptyTimeline, "at least one rate period is required")
	}

	sorted := make([]RatePeriod, len(periods))
	for i, p := range periods {
		sorted[i] = RatePeriod{DateFrom: Date(p.DateFrom), DateTo: Date(p.DateTo), BaseRate: p.BaseRate}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateFrom.Before(sorted[j].DateFrom)
	})

	for i, p := range sorted {
		if !p.DateFrom.Before(p.DateTo) {
			return nil, NewValidationError(ViolationDegeneratePeriod,
				"rate period %s..%s must start before it ends", FormatDate(p.DateFrom), FormatDate(p.DateTo))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		expected := prev.DateTo.AddDate(0, 0, 1)
		switch {
		case p.DateFrom.Before(expected):
			return nil, NewValidationError(ViolationOverlap,
				"rate period starting %s overlaps period ending %s", FormatDate(p.DateFrom), FormatDate(prev.DateTo))
		case p.DateFrom.After(expected):
			return nil, NewValidationError(ViolationGap,
				"gap between %s and %s in rate timeline", FormatDate(prev.DateTo), FormatDate(p.DateFrom))
		}
	}

	return sorted, nil
}

// Periods returns a copy of the sorted periods.
func (t RateTimeline) Periods() []RatePeriod {
	out := make([]RatePeriod, len(t.periods))
	copy(out, t.periods)
	return out
}

// RateAt returns the base rate in effect on day d.
func (t RateTimeline) RateAt(d time.Time) (decimal.Decimal, bool) {
	i := t.indexOf(Date(d))
	if i < 0 {
		return decimal.Zero, false
	}
	return t.periods[i].BaseRate, true
}

// Chunks splits [from, to) into runs of constant base rate. The second return
// value is false when some day in the range is not covered.
func (t RateTimeline) Chunks(from, to time.Time) ([]RateChunk, bool) {
	from, to = Date(from), Date(to)
	if !from.Before(to) {
		return nil, true
	}

	i := t.indexOf(from)
	if i < 0 {
		return nil, false
	}

	var chunks []RateChunk
	cursor := from
	for ; i < len(t.periods) && cursor.Before(to); i++ {
		p := t.periods[i]
		end := p.DateTo.AddDate(0, 0, 1)
		if end.After(to) {
			end = to
		}
		chunks = append(chunks, RateChunk{
			From:     cursor,
			To:       end,
			Days:     DaysBetween(cursor, end),
			BaseRate: p.BaseRate,
		})
		cursor = end
	}
	if cursor.Before(to) {
		return chunks, false
	}
	return chunks, true
}

// indexOf finds the period containing d, or -1.
func (t RateTimeline) indexOf(d time.Time) int {
	i := sort.Search(len(t.periods), func(i int) bool {
		return !t.periods[i].DateTo.Before(d)
	})
	if i < len(t.periods) && !t.periods[i].DateFrom.After(d) {
		return i
	}
	return -1
}
