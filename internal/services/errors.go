package services

import "errors"

// Series service outcomes
var (
	// ErrNoDataForMonth reports a month without observations. It is an
	// informational outcome, not a failure of the request.
	ErrNoDataForMonth = errors.New("no data for month")
)
