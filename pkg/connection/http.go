package connection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/forestline/eudrtrack/internal/codec"
	"github.com/forestline/eudrtrack/internal/rand"
)

// HTTPConnection posts every call to BaseURL + "/rpc".
type HTTPConnection struct {
	cfg        Config
	httpClient *http.Client
}

var _ Connection = (*HTTPConnection)(nil)

func NewHTTPConnection(cfg Config) *HTTPConnection {
	cfg.defaults()
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPConnection{cfg: cfg, httpClient: client}
}

func (h *HTTPConnection) Unmarshaler() codec.Unmarshaler {
	return h.cfg.Codec
}

func (h *HTTPConnection) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}

func (h *HTTPConnection) Send(ctx context.Context, method string, params ...any) (*RPCResponse[RawResult], error) {
	if h.cfg.BaseURL == "" {
		return nil, errors.New("connection: base url not set")
	}

	reqBody, err := h.cfg.Codec.Marshal(&RPCRequest{
		ID:     rand.NewRequestID(RequestIDLength),
		Method: method,
		Params: params,
	})
	if err != nil {
		return nil, fmt.Errorf("connection: encoding %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(h.cfg.BaseURL, "/")+"/rpc", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}
	req.Header.Set("Accept", h.cfg.Codec.ContentType())
	req.Header.Set("Content-Type", h.cfg.Codec.ContentType())
	if token := h.cfg.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection: %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("connection: reading %s response: %w", method, err)
	}

	var res RPCResponse[RawResult]
	decodeErr := h.cfg.Codec.Unmarshal(body, &res)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rpcErr := &RPCError{Code: resp.StatusCode}
		if decodeErr == nil && res.Error != nil {
			rpcErr.Message = res.Error.Message
		} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
			rpcErr.Message = text
		} else {
			rpcErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, rpcErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("connection: decoding %s response: %w", method, decodeErr)
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &res, nil
}
