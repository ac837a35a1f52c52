package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratelens/pkg/contracts/domain"
)

func TestAggregateByMonth(t *testing.T) {
	s := NewSeries([]domain.Observation{
		{Date: day(2023, 3, 2), Value: 7},
		{Date: day(2023, 1, 1), Value: 1},
		{Date: day(2022, 12, 31), Value: 100},
		{Date: day(2023, 1, 10), Value: 2},
		{Date: day(2023, 1, 31), Value: 3},
	})

	aggs := AggregateByMonth(s)
	require.Len(t, aggs, 3)

	assert.Equal(t, domain.MonthlyAggregate{Month: domain.Month{Year: 2022, Month: time.December}, Mean: 100, Count: 1}, aggs[0])
	assert.Equal(t, domain.MonthlyAggregate{Month: domain.Month{Year: 2023, Month: time.January}, Mean: 2, Count: 3}, aggs[1])
	assert.Equal(t, domain.MonthlyAggregate{Month: domain.Month{Year: 2023, Month: time.March}, Mean: 7, Count: 1}, aggs[2])
}

func TestAggregateByMonth_Empty(t *testing.T) {
	aggs := AggregateByMonth(Series{})
	assert.NotNil(t, aggs)
	assert.Empty(t, aggs)
}

func TestAggregateByMonth_SortedAndUnique(t *testing.T) {
	aggs := AggregateByMonth(randomSeries(400))

	seen := make(map[domain.Month]bool)
	total := 0
	for i, a := range aggs {
		assert.False(t, seen[a.Month], "duplicate month %s", a.Month)
		seen[a.Month] = true
		total += a.Count
		if i > 0 {
			assert.True(t, aggs[i-1].Month.Before(a.Month))
		}
	}
	assert.Equal(t, 400, total)
}
