package repository

import "errors"

var (
	// ErrNotFound is returned by adapters when a row or document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStateNotFound is returned when no progress record exists for an extraction ID.
	ErrStateNotFound = errors.New("extraction state not found")

	ErrPageTimeout       = errors.New("page load timed out")
	ErrNavigationFailed  = errors.New("navigation failed")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrContentRestricted = errors.New("content is restricted or requires authentication")
	ErrRobotsDisallowed  = errors.New("disallowed by robots.txt")
)
