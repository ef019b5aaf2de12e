// Package errmsg provides consistent formatting for the diagnostic carried by
// error events.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/remu"
)

// format creates a user-friendly error message.
func format(op remu.Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// formatWith creates an error message naming the source it concerns.
func formatWith(op remu.Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Describe formats any engine error. Classified errors keep their operation
// and origin; anything else is reported as-is.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var e *remu.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	return formatWith(e.Op, e.Origin, cause(e))
}

func cause(e *remu.Error) error {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Errorf("%w: %w", e.Kind, e.Err)
	case e.Err != nil:
		return e.Err
	default:
		return e.Kind
	}
}
