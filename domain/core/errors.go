package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrFileNotFound = errors.New("input workbook not found")
	ErrEmptyInput   = errors.New("workbook contains no sheets")

	// Structural errors
	ErrSchemaMismatch  = errors.New("sheet schemas cannot be consolidated")
	ErrColumnSelection = errors.New("required column positions missing")
	ErrColumnNotFound  = errors.New("column not found")
)

// NewSchemaMismatchError reports a sheet whose header cannot take part in consolidation
func NewSchemaMismatchError(sheet, reason string) error {
	return fmt.Errorf("%w: sheet %q: %s", ErrSchemaMismatch, sheet, reason)
}

// NewColumnSelectionError reports a sheet narrower than the highest required position
func NewColumnSelectionError(sheet string, width, required int) error {
	return fmt.Errorf("%w: sheet %q has %d columns, position %d required", ErrColumnSelection, sheet, width, required)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewFileNotFoundError(reason string) error {
	return fmt.Errorf("%w: %s", ErrFileNotFound, reason)
}

// Error checking helpers
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrColumnSelection)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrColumnNotFound)
}
