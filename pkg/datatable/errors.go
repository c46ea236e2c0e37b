package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns is returned when a table is created without columns.
	ErrNoColumns = errors.New("table requires at least one column")

	// ErrColumnNotFound is returned when an operation names an unknown column prop.
	ErrColumnNotFound = errors.New("column not found")

	// ErrFilterNotFound is returned when no column filter exists for a prop.
	ErrFilterNotFound = errors.New("column filter not found")

	// ErrFilterOptionNotFound is returned when a filter has no option with the requested raw value.
	ErrFilterOptionNotFound = errors.New("filter option not found")

	// ErrCustomClassesNotSet is returned by UseCustomClass when the table has no custom classes.
	ErrCustomClassesNotSet = errors.New("custom classes are not set")

	// ErrInvalidPolicy is returned for unknown refresh policies, selection types or cascade modes.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrInvalidSortDirection is returned for sort directions other than asc and desc.
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// ConfigError wraps a failure to decode a persisted table configuration.
type ConfigError struct {
	TableName string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to decode table config %q: %v", e.TableName, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
