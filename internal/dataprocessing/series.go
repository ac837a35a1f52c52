package dataprocessing

import (
	"time"

	"ratelens/pkg/contracts/domain"
)

// Point is one cleaned observation together with its deviations from the
// mean and median of the series it was loaded into.
type Point struct {
	Date                time.Time `json:"date"`
	Value               float64   `json:"value"`
	DeviationFromMean   float64   `json:"deviation_from_mean"`
	DeviationFromMedian float64   `json:"deviation_from_median"`
}

// Series is an ordered, immutable sequence of points. Source order is kept.
// The zero value is an empty, unannotated series.
type Series struct {
	points    []Point
	annotated bool
}

// NewSeries builds an unannotated series from observations
func NewSeries(observations []domain.Observation) Series {
	points := make([]Point, len(observations))
	for i, o := range observations {
		points[i] = Point{Date: domain.TruncateDay(o.Date), Value: o.Value}
	}
	return Series{points: points}
}

// Annotate returns a copy of s whose deviation fields are computed against
// the mean and median of all values of s.
func Annotate(s Series) Series {
	values := s.Values()
	mean := Mean(values)
	median := Median(values)

	points := s.Points()
	for i := range points {
		points[i].DeviationFromMean = points[i].Value - mean
		points[i].DeviationFromMedian = points[i].Value - median
	}
	return Series{points: points, annotated: true}
}

// Len returns the number of points
func (s Series) Len() int {
	return len(s.points)
}

// IsEmpty reports whether the series has no points
func (s Series) IsEmpty() bool {
	return len(s.points) == 0
}

// Annotated reports whether the deviation fields are populated
func (s Series) Annotated() bool {
	return s.annotated
}

// Points returns a copy of the points
func (s Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns the values in series order
func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// DateBounds returns the earliest and latest dates. ok is false for an
// empty series.
func (s Series) DateBounds() (first, last time.Time, ok bool) {
	if len(s.points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = s.points[0].Date, s.points[0].Date
	for _, p := range s.points[1:] {
		if p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(last) {
			last = p.Date
		}
	}
	return first, last, true
}

// filter keeps points matching keep and carries the annotation flag over
func (s Series) filter(keep func(Point) bool) Series {
	out := make([]Point, 0, len(s.points))
	for _, p := range s.points {
		if keep(p) {
			out = append(out, p)
		}
	}
	return Series{points: out, annotated: s.annotated}
}
