package storage

import (
	"context"
	"fmt"
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return nil
}

// validateString ensures a required string parameter is not empty.
func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

// validatePeriod ensures month and year describe a real calendar month.
func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return fmt.Errorf("year must be positive, got %d", year)
	}
	return nil
}
