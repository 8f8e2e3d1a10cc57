package employees

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrMissingID is returned when an update or delete names no employee.
	ErrMissingID = errors.New("employee id is required")
	// ErrNotFound is returned when no employee has the given identifier.
	ErrNotFound = errors.New("employee not found")
	// ErrNoModification is returned when an update supplies only the stored values.
	ErrNoModification = errors.New("no changes made to the employee")
	// ErrPersistence wraps failures reported by the record store.
	ErrPersistence = errors.New("record store failure")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return "invalid employee fields: " + strings.Join(fields, ", ")
}
