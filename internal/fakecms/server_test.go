package fakecms_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/internal/codec"
	"github.com/forestline/eudrtrack/internal/fakecms"
	"github.com/forestline/eudrtrack/pkg/connection"
	"github.com/forestline/eudrtrack/pkg/store"
)

func dial(t *testing.T, base, token string, ws bool, c codec.Codec) connection.Connection {
	t.Helper()
	cfg := connection.Config{BaseURL: base, Codec: c, Token: func() string { return token }, Timeout: 5 * time.Second}
	var conn connection.Connection
	if ws {
		conn = connection.NewWebSocketConnection(cfg)
	} else {
		conn = connection.NewHTTPConnection(cfg)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCRUDRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		ws    bool
		codec codec.Codec
	}{
		{"http-json", false, codec.JSON{}},
		{"http-cbor", false, codec.NewCBOR()},
		{"ws-json", true, codec.JSON{}},
		{"ws-cbor", true, codec.NewCBOR()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			srv, base := fakecms.NewTestServer(t, "secret")
			conn := dial(t, base, "secret", tc.ws, tc.codec)
			ctx := context.Background()

			created, err := connection.Send[map[string]any](ctx, conn, "suppliers.create", map[string]any{
				"data": map[string]any{"name": "Amazonia Timber", "risk_level": "high"},
			})
			require.NoError(t, err)
			id, _ := (*created)["id"].(string)
			require.NotEmpty(t, id)
			assert.NotEmpty(t, (*created)["created_at"])

			updated, err := connection.Send[map[string]any](ctx, conn, "suppliers.update", map[string]any{
				"id": id, "data": map[string]any{"risk_level": "low"},
			})
			require.NoError(t, err)
			assert.Equal(t, "low", (*updated)["risk_level"])
			assert.Equal(t, "Amazonia Timber", (*updated)["name"])

			rows := srv.Records("suppliers")
			require.Len(t, rows, 1)
			assert.Equal(t, "low", rows[0]["risk_level"])

			deleted, err := connection.Send[map[string]any](ctx, conn, "suppliers.delete", map[string]any{"id": id})
			require.NoError(t, err)
			assert.Equal(t, true, (*deleted)["success"])
			assert.Empty(t, srv.Records("suppliers"))
		})
	}
}

func TestListFilters(t *testing.T) {
	srv, base := fakecms.NewTestServer(t)
	srv.Seed("suppliers",
		map[string]any{"id": "a", "name": "Oak Works", "risk_level": "high"},
		map[string]any{"id": "b", "name": "Pine Co", "risk_level": "high"},
		map[string]any{"id": "c", "name": "oakland", "risk_level": "low"},
	)
	conn := dial(t, base, "", false, codec.JSON{})

	filter := store.And(store.IContains("name", "OAK"), store.Eq("risk_level", "high"))
	rows, err := connection.Send[[]map[string]any](context.Background(), conn, "suppliers.list", map[string]any{
		"filter": filter.Expr(),
	})
	require.NoError(t, err)
	require.Len(t, *rows, 1)
	assert.Equal(t, "a", (*rows)[0]["id"])

	rows, err = connection.Send[[]map[string]any](context.Background(), conn, "suppliers.list", map[string]any{
		"limit": 1, "offset": 1,
	})
	require.NoError(t, err)
	require.Len(t, *rows, 1)
	assert.Equal(t, "b", (*rows)[0]["id"])
}

func TestUnauthorized(t *testing.T) {
	srv, base := fakecms.NewTestServer(t, "secret")

	_, err := dial(t, base, "wrong", false, codec.JSON{}).Send(context.Background(), "suppliers.list")
	var rpcErr *connection.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusUnauthorized, rpcErr.Code)

	_, err = dial(t, base, "wrong", true, codec.JSON{}).Send(context.Background(), "suppliers.list")
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusUnauthorized, rpcErr.Code)

	ws := dial(t, base, "secret", true, codec.JSON{})
	_, err = ws.Send(context.Background(), "suppliers.list")
	require.NoError(t, err)

	srv.RevokeTokens()
	_, err = ws.Send(context.Background(), "suppliers.list")
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusUnauthorized, rpcErr.Code)
}

func TestNotFoundAndSubmit(t *testing.T) {
	srv, base := fakecms.NewTestServer(t)
	srv.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	srv.Seed("due_diligence_statements",
		map[string]any{"id": "d1", "status": "draft"},
		map[string]any{"id": "d2", "status": "approved"},
	)
	conn := dial(t, base, "", false, codec.JSON{})
	ctx := context.Background()

	_, err := conn.Send(ctx, "due_diligence_statements.get", map[string]any{"id": "missing"})
	var rpcErr *connection.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusNotFound, rpcErr.Code)

	st, err := connection.Send[map[string]any](ctx, conn, "due_diligence_statements.submit", map[string]any{"id": "d1"})
	require.NoError(t, err)
	assert.Equal(t, "submitted", (*st)["status"])
	assert.Equal(t, "2025-03-14", (*st)["submission_date"])

	_, err = conn.Send(ctx, "due_diligence_statements.submit", map[string]any{"id": "d2"})
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusConflict, rpcErr.Code)

	_, err = conn.Send(ctx, "suppliers.submit", map[string]any{"id": "d1"})
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusNotFound, rpcErr.Code)
}

func TestStubResponse(t *testing.T) {
	srv, base := fakecms.NewTestServer(t)
	srv.AddStubResponse(fakecms.StubResponse{
		Matcher: fakecms.MatchMethod("products.list"),
		Error:   &connection.RPCError{Code: http.StatusServiceUnavailable, Message: "maintenance"},
	})
	srv.AddStubResponse(fakecms.StubResponse{
		Matcher: fakecms.MatchMethodWithParams("products.get", func(params []any) bool {
			m, ok := params[0].(map[string]any)
			return ok && m["id"] == "special"
		}),
		Result: map[string]any{"id": "special", "name": "Stubbed"},
	})
	conn := dial(t, base, "", false, codec.JSON{})
	ctx := context.Background()

	_, err := conn.Send(ctx, "products.list")
	var rpcErr *connection.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "maintenance", rpcErr.Message)

	p, err := connection.Send[map[string]any](ctx, conn, "products.get", map[string]any{"id": "special"})
	require.NoError(t, err)
	assert.Equal(t, "Stubbed", (*p)["name"])

	_, err = conn.Send(ctx, "products.get", map[string]any{"id": "other"})
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, http.StatusNotFound, rpcErr.Code)

	call, ok := srv.LastCall("products.get")
	require.True(t, ok)
	assert.Equal(t, "products.get", call.Method)
}
