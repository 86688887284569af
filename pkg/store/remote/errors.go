package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/forestline/eudrtrack/pkg/connection"
	"github.com/forestline/eudrtrack/pkg/store"
)

var (
	// ErrUnauthorized matches any *Error caused by rejected credentials.
	ErrUnauthorized = errors.New("remote: unauthorized")

	// ErrNotConfigured is returned by every call of a client without a
	// connection.
	ErrNotConfigured = errors.New("remote: CMS endpoint not configured")
)

// Error is a failed remote call. Code is the status reported by the CMS, or
// 0 when the call never got an answer.
type Error struct {
	Method  string
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("remote: %s: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("remote: %s: %s (%d)", e.Method, e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	case store.ErrStatementFinalized:
		return e.Code == http.StatusConflict
	}
	return false
}

func isNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == http.StatusNotFound
}

func newError(method string, err error) *Error {
	var rpcErr *connection.RPCError
	if errors.As(err, &rpcErr) {
		msg := rpcErr.Message
		if msg == "" {
			msg = http.StatusText(rpcErr.Code)
		}
		return &Error{Method: method, Code: rpcErr.Code, Message: msg, Err: err}
	}
	return &Error{Method: method, Message: err.Error(), Err: err}
}
