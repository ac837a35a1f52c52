package dataprocessing

import (
	"sort"

	"ratelens/pkg/contracts/domain"
)

// AggregateByMonth returns the mean value per calendar month, ascending by
// month. An empty series yields an empty, non-nil slice.
func AggregateByMonth(s Series) []domain.MonthlyAggregate {
	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[domain.Month]*bucket)
	for _, p := range s.points {
		m := domain.MonthOf(p.Date)
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		b.sum += p.Value
		b.count++
	}

	out := make([]domain.MonthlyAggregate, 0, len(buckets))
	for m, b := range buckets {
		out = append(out, domain.MonthlyAggregate{
			Month: m,
			Mean:  b.sum / float64(b.count),
			Count: b.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}
