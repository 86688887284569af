package schema

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError carries one message per offending field, keyed by the
// field's JSON name. A value that fails validation is never partially
// accepted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the message recorded for name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
