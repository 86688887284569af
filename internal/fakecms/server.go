// Package fakecms is an in-memory stand-in for the remote CMS. It speaks the
// same RPC envelope over HTTP POST /rpc and over a WebSocket at /rpc, in JSON
// or CBOR, so the remote client can be tested end to end.
package fakecms

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	gorilla "github.com/gorilla/websocket"

	"github.com/forestline/eudrtrack/internal/codec"
	"github.com/forestline/eudrtrack/pkg/connection"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/store"
)

// RequestMatcher selects the calls a stub answers.
type RequestMatcher struct {
	Method string
	// Matcher, if set, must also accept the call's params.
	Matcher func(params []any) bool
}

func MatchMethod(method string) RequestMatcher {
	return RequestMatcher{Method: method}
}

func MatchMethodWithParams(method string, matcher func(params []any) bool) RequestMatcher {
	return RequestMatcher{Method: method, Matcher: matcher}
}

// StubResponse replaces the built-in handling of matching calls. Stubs are
// consulted in the order they were added, after the token check.
type StubResponse struct {
	Matcher RequestMatcher
	Result  any
	Error   *connection.RPCError
	// Delay holds the reply back.
	Delay time.Duration
}

type table struct {
	order []string
	rows  map[string]map[string]any
}

// Server holds schema-less tables, one per collection.
type Server struct {
	router   *mux.Router
	upgrader gorilla.Upgrader

	mu      sync.RWMutex
	tables  map[string]*table
	tokens  map[string]bool
	revoked bool
	stubs   []StubResponse
	calls   []connection.RPCRequest

	// Now stamps created_at, updated_at and submission dates.
	Now func() time.Time
}

// NewServer returns a server accepting the given bearer tokens. With no
// tokens every call is accepted.
func NewServer(tokens ...string) *Server {
	s := &Server{
		tables: map[string]*table{},
		tokens: map[string]bool{},
		Now:    time.Now,
	}
	for _, t := range tokens {
		s.tokens[t] = true
	}
	for _, c := range models.Collections() {
		s.tables[c.Name] = &table{rows: map[string]map[string]any{}}
	}

	s.upgrader = gorilla.Upgrader{
		Subprotocols: []string{"json", "cbor"},
		CheckOrigin:  func(*http.Request) bool { return true },
	}

	r := mux.NewRouter()
	r.HandleFunc("/rpc", s.serveWebSocket).Headers("Upgrade", "websocket")
	r.HandleFunc("/rpc", s.serveHTTP).Methods(http.MethodPost)
	s.router = r
	return s
}

// NewTestServer starts s on a local port and stops it when t ends. The
// returned URL is the base URL clients are configured with.
func NewTestServer(t testing.TB, tokens ...string) (*Server, string) {
	t.Helper()
	s := NewServer(tokens...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub)
}

func (s *Server) AddToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = true
	s.revoked = false
}

// RevokeTokens makes every following call fail with 401, including calls on
// WebSockets that are already open.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// Seed inserts records as given. Records without an id get one.
func (s *Server) Seed(collection string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tbl := s.tableLocked(collection)
	for _, rec := range records {
		row := clone(rec)
		id, _ := row["id"].(string)
		if id == "" {
			id = uuid.NewString()
			row["id"] = id
		}
		if _, exists := tbl.rows[id]; !exists {
			tbl.order = append(tbl.order, id)
		}
		tbl.rows[id] = row
	}
}

// Records returns copies of the rows of collection in insertion order.
func (s *Server) Records(collection string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tbl, ok := s.tables[collection]
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(tbl.order))
	for _, id := range tbl.order {
		out = append(out, clone(tbl.rows[id]))
	}
	return out
}

// Calls returns every request received so far, in arrival order.
func (s *Server) Calls() []connection.RPCRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]connection.RPCRequest(nil), s.calls...)
}

// LastCall returns the most recent request for method.
func (s *Server) LastCall(method string) (connection.RPCRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].Method == method {
			return s.calls[i], true
		}
	}
	return connection.RPCRequest{}, false
}

func (s *Server) tableLocked(name string) *table {
	tbl, ok := s.tables[name]
	if !ok {
		tbl = &table{rows: map[string]map[string]any{}}
		s.tables[name] = tbl
	}
	return tbl
}

func (s *Server) authorized(header string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.revoked {
		return false
	}
	if len(s.tokens) == 0 {
		return true
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && s.tokens[token]
}

func codecFor(name string) codec.Codec {
	if strings.Contains(name, "cbor") {
		return codec.NewCBOR()
	}
	return codec.JSON{}
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	c := codecFor(r.Header.Get("Content-Type"))
	w.Header().Set("Content-Type", c.ContentType())

	if !s.authorized(r.Header.Get("Authorization")) {
		s.writeHTTP(w, c, connection.RPCResponse[any]{Error: unauthorized()})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeHTTP(w, c, connection.RPCResponse[any]{Error: &connection.RPCError{Code: http.StatusBadRequest, Message: err.Error()}})
		return
	}
	var req connection.RPCRequest
	if err := c.Unmarshal(body, &req); err != nil {
		s.writeHTTP(w, c, connection.RPCResponse[any]{Error: &connection.RPCError{Code: http.StatusBadRequest, Message: "parse error"}})
		return
	}
	s.writeHTTP(w, c, s.handle(req))
}

func (s *Server) writeHTTP(w http.ResponseWriter, c codec.Codec, res connection.RPCResponse[any]) {
	data, err := c.Marshal(res)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if res.Error != nil && res.Error.Code >= 400 && res.Error.Code < 600 {
		status = res.Error.Code
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.Header.Get("Authorization")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	c := codecFor(conn.Subprotocol())
	messageType := gorilla.TextMessage
	if c.Name() == "cbor" {
		messageType = gorilla.BinaryMessage
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req connection.RPCRequest
		res := connection.RPCResponse[any]{}
		if err := c.Unmarshal(data, &req); err != nil {
			res.Error = &connection.RPCError{Code: http.StatusBadRequest, Message: "parse error"}
		} else if !s.authorized(r.Header.Get("Authorization")) {
			res.ID = req.ID
			res.Error = unauthorized()
		} else {
			res = s.handle(req)
		}
		out, err := c.Marshal(res)
		if err != nil {
			log.Printf("fakecms: encoding response: %v", err)
			return
		}
		if err := conn.WriteMessage(messageType, out); err != nil {
			return
		}
	}
}

func unauthorized() *connection.RPCError {
	return &connection.RPCError{Code: http.StatusUnauthorized, Message: "invalid or expired token"}
}

func (s *Server) matchStub(req connection.RPCRequest) *StubResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.stubs {
		stub := s.stubs[i]
		if stub.Matcher.Method != req.Method {
			continue
		}
		if stub.Matcher.Matcher == nil || stub.Matcher.Matcher(req.Params) {
			return &stub
		}
	}
	return nil
}

// handle answers one authorized call.
func (s *Server) handle(req connection.RPCRequest) connection.RPCResponse[any] {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	res := connection.RPCResponse[any]{ID: req.ID}

	if stub := s.matchStub(req); stub != nil {
		if stub.Delay > 0 {
			time.Sleep(stub.Delay)
		}
		if stub.Error != nil {
			res.Error = stub.Error
			return res
		}
		result := stub.Result
		res.Result = &result
		return res
	}

	result, err := s.call(req)
	if err != nil {
		var rpcErr *connection.RPCError
		if !errors.As(err, &rpcErr) {
			rpcErr = &connection.RPCError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		res.Error = rpcErr
		return res
	}
	res.Result = &result
	return res
}

func notFound(collection, id string) error {
	return &connection.RPCError{Code: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", collection, id)}
}

func (s *Server) call(req connection.RPCRequest) (any, error) {
	collection, op, ok := strings.Cut(req.Method, ".")
	if !ok {
		return nil, &connection.RPCError{Code: http.StatusNotFound, Message: "unknown method " + req.Method}
	}

	s.mu.RLock()
	_, known := s.tables[collection]
	s.mu.RUnlock()
	if !known {
		return nil, &connection.RPCError{Code: http.StatusNotFound, Message: "unknown collection " + collection}
	}

	var params map[string]any
	if len(req.Params) > 0 {
		m, ok := asMap(req.Params[0])
		if !ok {
			return nil, errors.New("params must be an object")
		}
		params = m
	}

	switch op {
	case "list":
		return s.list(collection, params)
	case "get":
		return s.get(collection, str(params["id"]))
	case "create":
		return s.create(collection, params["data"])
	case "update":
		return s.update(collection, str(params["id"]), params["data"])
	case "delete":
		return s.delete(collection, str(params["id"]))
	case "submit":
		if collection == models.DueDiligenceStatements.Name {
			return s.submit(collection, str(params["id"]))
		}
	}
	return nil, &connection.RPCError{Code: http.StatusNotFound, Message: "unknown method " + req.Method}
}

func (s *Server) list(collection string, params map[string]any) (any, error) {
	filter, err := store.ParseFilter(params["filter"])
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	tbl := s.tables[collection]
	rows := make([]map[string]any, 0, len(tbl.order))
	for _, id := range tbl.order {
		row := tbl.rows[id]
		if filter.Match(row) {
			rows = append(rows, clone(row))
		}
	}
	s.mu.RUnlock()

	return store.Page(rows, integer(params["limit"]), integer(params["offset"])), nil
}

func (s *Server) get(collection, id string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.tables[collection].rows[id]
	if !ok {
		return nil, notFound(collection, id)
	}
	return clone(row), nil
}

func (s *Server) create(collection string, data any) (any, error) {
	fields, ok := asMap(data)
	if !ok {
		return nil, errors.New("data must be an object")
	}
	now := s.Now().UTC().Format(time.RFC3339Nano)
	row := clone(fields)
	row["id"] = uuid.NewString()
	row["created_at"] = now
	row["updated_at"] = now

	s.mu.Lock()
	defer s.mu.Unlock()
	tbl := s.tables[collection]
	tbl.order = append(tbl.order, row["id"].(string))
	tbl.rows[row["id"].(string)] = row
	return clone(row), nil
}

func (s *Server) update(collection, id string, data any) (any, error) {
	fields, ok := asMap(data)
	if !ok {
		return nil, errors.New("data must be an object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tables[collection].rows[id]
	if !ok {
		return nil, notFound(collection, id)
	}
	for k, v := range fields {
		switch k {
		case "id", "created_at", "updated_at":
			continue
		}
		row[k] = v
	}
	row["updated_at"] = s.Now().UTC().Format(time.RFC3339Nano)
	return clone(row), nil
}

func (s *Server) delete(collection, id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tbl := s.tables[collection]
	if _, ok := tbl.rows[id]; !ok {
		return nil, notFound(collection, id)
	}
	delete(tbl.rows, id)
	for i, v := range tbl.order {
		if v == id {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
	return map[string]any{"success": true}, nil
}

func (s *Server) submit(collection, id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.tables[collection].rows[id]
	if !ok {
		return nil, notFound(collection, id)
	}
	switch str(row["status"]) {
	case string(models.StatementSubmitted):
		return clone(row), nil
	case string(models.StatementApproved), string(models.StatementRejected):
		return nil, &connection.RPCError{Code: http.StatusConflict, Message: "statement is " + str(row["status"])}
	}
	now := s.Now().UTC()
	row["status"] = string(models.StatementSubmitted)
	row["submission_date"] = now.Format(time.DateOnly)
	row["updated_at"] = now.Format(time.RFC3339Nano)
	return clone(row), nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}
	return nil, false
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// integer reads a count that went through JSON (float64) or CBOR (int or
// uint).
func integer(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
