package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrMetricAlreadyAttached = errors.New("metric already exists in device type")
	ErrMetricNotAttached     = errors.New("metric not found in device type")

	ErrCycleRunning = errors.New("collection cycle already in progress")
)

// NotFoundError reports a missing catalog entity. Entity is the display name
// used in HTTP 404 messages ("Site", "Device Type", ...).
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// UnknownSamplerError reports a metric whose call identifier does not name a
// registered sampling function. This is a catalog configuration error, not a
// transient sampling failure, and is never retried.
type UnknownSamplerError struct {
	Call string
}

func (e *UnknownSamplerError) Error() string {
	return fmt.Sprintf("unknown sampler function %q", e.Call)
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity}
	}
	return err
}
