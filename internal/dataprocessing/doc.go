// Package dataprocessing is the series core: cleaning raw rows, filtering,
// monthly aggregation and the summary statistics they rely on.
//
// # Data Flow
//
//	[]domain.RawRow → Load → Series (annotated) → FilterBy* → Series
//	                                            → AggregateByMonth → []domain.MonthlyAggregate
//
// # Cleaning
//
// Load drops rows whose date does not parse, replaces missing values with
// the mean of the parsed values of the remaining rows and annotates every
// point with its deviation from the series mean and median. The deviations
// are computed once and carried through every filter unchanged.
//
// # Purity
//
// Nothing in this package prints, prompts or touches files. Every operation
// returns a new Series; the input is never modified.
//
// # Errors
//
// The only error is the precondition failure of FilterByDeviation on a
// series without deviation fields, an AppError of type PRECONDITION that
// wraps ErrNotAnnotated. Empty results are not errors; FilterByMonth
// reports "no data" through its boolean result.
package dataprocessing
