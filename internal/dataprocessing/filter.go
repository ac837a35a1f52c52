package dataprocessing

import (
	"errors"
	"time"

	apperrors "ratelens/internal/errors"
	"ratelens/pkg/contracts/domain"
)

// ErrNotAnnotated is wrapped by the error FilterByDeviation returns for a
// series without deviation fields
var ErrNotAnnotated = errors.New("series is not annotated with deviations")

// FilterByDateRange keeps points whose date lies within [start, end].
// A nil bound is open on that side; bounds are compared by calendar day.
func FilterByDateRange(s Series, start, end *time.Time) Series {
	var from, to time.Time
	if start != nil {
		from = domain.TruncateDay(*start)
	}
	if end != nil {
		to = domain.TruncateDay(*end)
	}
	return s.filter(func(p Point) bool {
		if start != nil && p.Date.Before(from) {
			return false
		}
		if end != nil && p.Date.After(to) {
			return false
		}
		return true
	})
}

// FilterByMonth keeps points within month m. ok is false when none match.
func FilterByMonth(s Series, m domain.Month) (Series, bool) {
	out := s.filter(func(p Point) bool {
		return m.Contains(p.Date)
	})
	return out, !out.IsEmpty()
}

// FilterByDeviation keeps points whose deviation from the series mean is at
// least threshold. Only points above the mean can pass a positive threshold.
func FilterByDeviation(s Series, threshold float64) (Series, error) {
	if !s.Annotated() {
		return Series{}, apperrors.NewPreconditionError("deviation filter requires an annotated series", ErrNotAnnotated)
	}
	return s.filter(func(p Point) bool {
		return p.DeviationFromMean >= threshold
	}), nil
}
