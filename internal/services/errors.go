package services

import "errors"

// Dashboard service errors
var (
	// ErrDatasetNotLoaded is returned before the first load attempt finished
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrDatasetUnavailable wraps the load or parse error of the last reload
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrUnknownChart is returned for chart kinds outside the four dashboard charts
	ErrUnknownChart = errors.New("unknown chart")
)
