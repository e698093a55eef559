package transfer

import (
	"errors"
	"fmt"
)

// Stage names the store round trip a DownstreamError came from.
type Stage string

const (
	StageResolve       Stage = "resolve"
	StageProximity     Stage = "proximity"
	StageServiceLookup Stage = "service-lookup"
)

// NotFoundError is returned when the requested station does not exist.
type NotFoundError struct {
	StationID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("station not found: %s", e.StationID)
}

// InvalidRadiusError is returned for a missing or non-positive radius.
type InvalidRadiusError struct {
	Radius float64
}

func (e *InvalidRadiusError) Error() string {
	return fmt.Sprintf("invalid radius: %g meters", e.Radius)
}

// InvalidCenterError is returned when a search centre is outside
// [-90, 90] x [-180, 180].
type InvalidCenterError struct {
	Latitude  float64
	Longitude float64
}

func (e *InvalidCenterError) Error() string {
	return fmt.Sprintf("invalid center: (%f, %f)", e.Latitude, e.Longitude)
}

// DownstreamError wraps a store failure with the stage it happened in.
type DownstreamError struct {
	Stage Stage
	Err   error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Stage, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

func newDownstreamError(stage Stage, err error) *DownstreamError {
	return &DownstreamError{Stage: stage, Err: err}
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidInput reports whether err was caused by caller supplied geometry.
func IsInvalidInput(err error) bool {
	var ir *InvalidRadiusError
	var ic *InvalidCenterError
	return errors.As(err, &ir) || errors.As(err, &ic)
}
