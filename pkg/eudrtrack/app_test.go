package eudrtrack_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/internal/fakecms"
	"github.com/forestline/eudrtrack/pkg/eudrtrack"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/store/remote"
)

type workspace struct {
	t     *testing.T
	flags []string
}

func newWorkspace(t *testing.T, extra ...string) *workspace {
	t.Helper()
	flags := []string{
		"--storage", "file",
		"--storage-path", t.TempDir(),
		"--log-file", filepath.Join(t.TempDir(), "eudrtrack.log"),
	}
	return &workspace{t: t, flags: append(flags, extra...)}
}

func (w *workspace) run(args ...string) (string, error) {
	w.t.Helper()
	var out bytes.Buffer
	err := eudrtrack.Main(context.Background(), append(args, w.flags...), &out)
	return out.String(), err
}

func (w *workspace) must(args ...string) string {
	w.t.Helper()
	out, err := w.run(args...)
	require.NoError(w.t, err, "eudrtrack %v", args)
	return out
}

func (w *workspace) records(args ...string) []map[string]any {
	w.t.Helper()
	var items []map[string]any
	require.NoError(w.t, json.Unmarshal([]byte(w.must(args...)), &items))
	return items
}

func (w *workspace) record(args ...string) map[string]any {
	w.t.Helper()
	var item map[string]any
	require.NoError(w.t, json.Unmarshal([]byte(w.must(args...)), &item))
	return item
}

func TestOfflineSeedAndSearch(t *testing.T) {
	w := newWorkspace(t)

	assert.Len(t, w.records("list", "suppliers"), 3)

	found := w.records("list", "suppliers", "--search", "COCOA")
	require.Len(t, found, 1)
	assert.Equal(t, "sup-kumasi-cocoa", found[0]["id"])

	high := w.records("list", "origins", "--filter", "deforestation_risk=high")
	require.Len(t, high, 1)
	assert.Equal(t, "ori-para-concession", high[0]["id"])

	paged := w.records("list", "origins", "--limit", "1", "--offset", "1")
	require.Len(t, paged, 1)
	assert.Equal(t, "ori-ashanti-farms", paged[0]["id"])

	_, err := w.run("list", "origins", "--filter", "colour=green")
	assert.Error(t, err)

	out := w.record("seed")
	assert.Equal(t, false, out["seeded"])
}

func TestOfflineCreateUpdateDelete(t *testing.T) {
	w := newWorkspace(t)

	created := w.record("create", "origins",
		"name=Block 7", "country=Ghana", "region=Ashanti",
		"coordinates=6.7,-1.6", "area_hectares=40", "forest_coverage=12",
		"deforestation_risk=low")
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, 12.0, created["forest_coverage"])
	assert.Len(t, w.records("list", "origins"), 4)

	updated := w.record("update", "origins", id, "forest_coverage=30")
	assert.Equal(t, 30.0, updated["forest_coverage"])
	assert.Equal(t, "Block 7", updated["name"])
	assert.Equal(t, created["created_at"], updated["created_at"])

	w.must("delete", "origins", id)
	assert.Len(t, w.records("list", "origins"), 3)

	_, err := w.run("get", "origins", id)
	assert.Error(t, err)
	_, err = w.run("delete", "origins", id)
	assert.Error(t, err)
}

func TestOfflineValidationError(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.run("create", "origins",
		"name=Block 7", "country=Ghana", "region=Ashanti",
		"coordinates=6.7,-1.6", "area_hectares=40", "forest_coverage=150",
		"deforestation_risk=low")
	verr, ok := schema.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "forest_coverage must be 100 or less", verr.Field("forest_coverage"))
	assert.Len(t, w.records("list", "origins"), 3)
}

func TestOfflineSubmitAndAliases(t *testing.T) {
	w := newWorkspace(t)

	dds := w.record("submit", "dds-ipe-0002")
	assert.Equal(t, "submitted", dds["status"])
	assert.NotEmpty(t, dds["submission_date"])

	got := w.record("get", "dds", "dds-ipe-0002")
	assert.Equal(t, "submitted", got["status"])

	_, err := w.run("submit", "dds-missing")
	assert.Error(t, err)
}

func TestResetAndClear(t *testing.T) {
	w := newWorkspace(t)

	w.must("clear", "suppliers")
	assert.Empty(t, w.records("list", "suppliers"))
	assert.Len(t, w.records("list", "origins"), 3)

	w.must("reset", "suppliers")
	assert.Len(t, w.records("list", "suppliers"), 3)

	w.must("clear")
	assert.Empty(t, w.records("list", "statements"))

	_, err := w.run("clear", "invoices")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	w := newWorkspace(t)
	snapshot := filepath.Join(t.TempDir(), "snapshot.json")

	w.must("delete", "suppliers", "sup-sumatra-palm")
	w.must("export", "--out", snapshot)

	w.must("reset")
	assert.Len(t, w.records("list", "suppliers"), 3)

	w.must("import", snapshot)
	assert.Len(t, w.records("list", "suppliers"), 2)

	var dump map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.must("export")), &dump))
	assert.Contains(t, dump, "suppliers")
	assert.Contains(t, dump, "due_diligence_statements")
}

func TestModeIsPersisted(t *testing.T) {
	w := newWorkspace(t)
	assert.Equal(t, "offline", w.record("mode")["mode"])
	assert.Equal(t, "online", w.record("mode", "online")["mode"])
	assert.Equal(t, "online", w.record("whoami")["mode"])
	assert.Equal(t, "offline", w.record("mode", "offline")["mode"])

	_, err := w.run("mode", "sideways")
	assert.Error(t, err)
}

func TestOnlineAgainstCMS(t *testing.T) {
	for _, tc := range []struct{ transport, codec string }{
		{"http", "json"},
		{"ws", "cbor"},
	} {
		t.Run(tc.transport+"-"+tc.codec, func(t *testing.T) {
			srv, base := fakecms.NewTestServer(t, "cms-token")
			srv.Seed("suppliers", map[string]any{
				"id": "sup-remote-1", "name": "Remote Timber", "country": "Brazil",
				"risk_level": "high", "verification_status": "pending",
			})
			w := newWorkspace(t, "--remote-url", base, "--transport", tc.transport, "--codec", tc.codec)
			w.must("mode", "online")

			_, err := w.run("list", "suppliers")
			assert.True(t, errors.Is(err, remote.ErrUnauthorized), "got %v", err)

			w.must("login", "--token", "cms-token")
			items := w.records("list", "suppliers")
			require.Len(t, items, 1)
			assert.Equal(t, "sup-remote-1", items[0]["id"])

			created := w.record("create", "suppliers",
				"name=Kumasi Beans", "contact_person=Ama Owusu", "email=ama@kumasi.example",
				"phone=+233 24 555 0101", "address=1 Rd", "country=Ghana",
				"risk_level=medium", "verification_status=pending")
			assert.NotEmpty(t, created["id"])
			assert.Len(t, srv.Records("suppliers"), 2)

			status := w.record("whoami")
			assert.Equal(t, "online", status["mode"])
			assert.Equal(t, true, status["authenticated"])

			srv.RevokeTokens()
			_, err = w.run("list", "suppliers")
			assert.True(t, errors.Is(err, remote.ErrUnauthorized), "got %v", err)
			assert.Equal(t, false, w.record("whoami")["authenticated"])

			w.must("mode", "offline")
			assert.Len(t, w.records("list", "suppliers"), 3)
		})
	}
}
