package domain

import "errors"

var (
	// ErrNoCandidates is returned when route selection is given an empty candidate set.
	ErrNoCandidates = errors.New("no route candidates")

	// ErrEmptyRoute is returned for a route candidate whose polyline has no points.
	ErrEmptyRoute = errors.New("route has no points")

	// ErrMalformedCoordinate is returned when a coordinate is NaN or outside
	// the valid latitude/longitude ranges.
	ErrMalformedCoordinate = errors.New("malformed coordinate")

	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("not found")
)
