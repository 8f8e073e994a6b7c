// =============================================
// File: internal/captable/errors.go
// =============================================
package captable

import (
	"fmt"
	"strings"
)

// FieldError describes a single violated input constraint.
type FieldError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationError aggregates every violated constraint found in one
// validation pass. Validation collects all violations rather than failing
// on the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("validation failed with %d issue(s): %s",
		len(e.Fields), strings.Join(msgs, "; "))
}

// CalculationError marks an engine-internal arithmetic or invariant
// failure. It carries the failing operation plus a context snapshot and
// wraps the originating cause when there is one.
type CalculationError struct {
	Op      string
	Context map[string]interface{}
	Err     error
}

func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calculation failed in %s (context: %v): %v", e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("calculation failed in %s (context: %v)", e.Op, e.Context)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// DataError marks a missing or empty required structure, such as an empty
// stage sequence handed to the returns engine.
type DataError struct {
	Message string
}

func (e *DataError) Error() string {
	return e.Message
}
