// Package connection carries RPC calls to the remote CMS, over plain HTTP
// or over a WebSocket, in JSON or CBOR.
package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/internal/codec"
)

const (
	// RequestIDLength is the length of generated request ids.
	RequestIDLength = 16

	DefaultTimeout = 10 * time.Second
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("connection: closed")

// Connection sends one RPC call and waits for its response.
//
// Send returns the *RPCError of the response when the server reports a
// failure, and a wrapped transport error when the call could not be made.
type Connection interface {
	Send(ctx context.Context, method string, params ...any) (*RPCResponse[RawResult], error)
	Unmarshaler() codec.Unmarshaler
	Close() error
}

// Config holds what both transports need.
type Config struct {
	// BaseURL is the CMS endpoint without the /rpc suffix.
	BaseURL string
	Codec   codec.Codec
	// Token returns the bearer token to present, or "" for none.
	Token   func() string
	Timeout time.Duration
	Logger  zerolog.Logger
	// HTTPClient is used by the HTTP transport. Defaults to a client with
	// Timeout.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.Codec == nil {
		c.Codec = codec.JSON{}
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Token == nil {
		c.Token = func() string { return "" }
	}
}

// Send calls method and decodes the result into a new Result. A missing or
// null result yields nil.
func Send[Result any](ctx context.Context, c Connection, method string, params ...any) (*Result, error) {
	res, err := c.Send(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.Result == nil || len(*res.Result) == 0 {
		return nil, nil
	}

	var r Result
	if err := c.Unmarshaler().Unmarshal(*res.Result, &r); err != nil {
		return nil, fmt.Errorf("connection: decoding %s result: %w", method, err)
	}
	return &r, nil
}
