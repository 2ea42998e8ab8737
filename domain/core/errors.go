package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInputNotFound = fmt.Errorf("%w: input file", ErrNotFound)

	// Chart gating errors: a chart that fails with one of these is skipped, not failed
	ErrMissingColumn    = errors.New("required column missing")
	ErrInsufficientData = errors.New("insufficient data for chart")

	// Image export errors
	ErrExporterUnavailable = errors.New("image exporter unavailable")
	ErrUnsupportedFigure   = errors.New("unsupported figure kind")
)

// NewMissingColumnError names the absent columns
func NewMissingColumnError(columns ...string) error {
	return fmt.Errorf("%w: %v", ErrMissingColumn, columns)
}

// NewInsufficientDataError explains why a chart has nothing to show
func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSkipError reports whether a chart build error means "skip this chart"
func IsSkipError(err error) bool {
	return errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrInsufficientData)
}
