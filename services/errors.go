package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/waitlist-app/database"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid input")
	ErrStoreFailure = errors.New("store failure")
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTableOccupied     = errors.New("table already has a seated guest")
	ErrConflict          = errors.New("conflicting update")
)

var serviceErrors = []error{ErrNotFound, ErrInvalid, ErrStoreFailure, ErrInvalidTransition, ErrTableOccupied, ErrConflict}

// classify wraps err with the operation name and maps store errors onto the service sentinels.
// Anything unrecognised is reported as ErrStoreFailure.
func classify(op string, err error) error {
	for _, known := range serviceErrors {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	switch {
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, database.ErrDuplicate), errors.Is(err, database.ErrVersionConflict):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}

// lookupErr names the missing record when the store reports not found.
func lookupErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
