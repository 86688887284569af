package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/internal/fakecms"
	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/storage"
	"github.com/forestline/eudrtrack/pkg/store"
	"github.com/forestline/eudrtrack/pkg/store/local"
	"github.com/forestline/eudrtrack/pkg/store/remote"
)

type fixture struct {
	router *Router
	toggle *mode.Toggle
	local  *local.Store
	cms    *fakecms.Server
}

func newFixture(t *testing.T, offline bool) *fixture {
	t.Helper()
	cms, base := fakecms.NewTestServer(t)
	rem, err := remote.Dial(remote.Config{URL: base, Timeout: 5 * time.Second}, nil, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rem.Close() })

	loc := local.New(storage.NewMemory())
	toggle := mode.NewToggle(offline)
	r, err := New(loc, rem, toggle, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	return &fixture{router: r, toggle: toggle, local: loc, cms: cms}
}

func organization() models.Organization {
	return models.Organization{
		Name:               "Acme",
		Address:            "1 Rd",
		ContactPerson:      "Jo",
		Email:              "a@b.com",
		Phone:              "+15551234567",
		RegistrationNumber: "REG1",
	}
}

func TestModeIsReadOnEveryCall(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	orgs := f.router.Organizations()

	offlineOrg, err := orgs.Create(ctx, organization())
	require.NoError(t, err)
	assert.Empty(t, f.cms.Records(models.Organizations.Name))

	f.toggle.Set(false)
	items, err := orgs.List(ctx, store.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, items, "stores are not synchronized")

	onlineOrg, err := orgs.Create(ctx, organization())
	require.NoError(t, err)
	assert.Len(t, f.cms.Records(models.Organizations.Name), 1)

	got, err := orgs.Get(ctx, offlineOrg.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	f.toggle.Set(true)
	got, err = orgs.Get(ctx, offlineOrg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Name)

	got, err = orgs.Get(ctx, onlineOrg.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInvalidWritesReachNeitherStore(t *testing.T) {
	for _, offline := range []bool{true, false} {
		t.Run(mode.Name(offline), func(t *testing.T) {
			f := newFixture(t, offline)
			ctx := context.Background()
			require.NoError(t, f.local.Clear(ctx))

			origin := models.Origin{
				Name:              "Para concession",
				Country:           "Brazil",
				Region:            "Para",
				Coordinates:       "-3.4653,-62.2159",
				AreaHectares:      1200,
				ForestCoverage:    150,
				DeforestationRisk: models.RiskHigh,
			}
			_, err := f.router.Origins().Create(ctx, origin)
			verr, ok := schema.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "forest_coverage must be 100 or less", verr.Field("forest_coverage"))

			items, err := f.local.Origins.List(ctx, store.ListParams{})
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.Empty(t, f.cms.Calls())

			assert.Equal(t, 1.0, testutil.ToFloat64(f.router.ops.WithLabelValues("origins", "create", mode.Name(offline), OutcomeInvalid)))
		})
	}
}

func TestInvalidUpdateKeepsStoredValue(t *testing.T) {
	for _, offline := range []bool{true, false} {
		t.Run(mode.Name(offline), func(t *testing.T) {
			f := newFixture(t, offline)
			ctx := context.Background()
			origins := f.router.Origins()

			created, err := origins.Create(ctx, models.Origin{
				Name:              "Ashanti block 4",
				Country:           "Ghana",
				Region:            "Ashanti",
				Coordinates:       "6.6885,-1.6244",
				AreaHectares:      10,
				ForestCoverage:    40,
				DeforestationRisk: models.RiskMedium,
			})
			require.NoError(t, err)

			coverage := 150.0
			updated, err := origins.Update(ctx, created.ID, models.OriginPatch{ForestCoverage: &coverage})
			verr, ok := schema.AsValidationError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, "forest_coverage must be 100 or less", verr.Field("forest_coverage"))
			assert.Nil(t, updated)

			got, err := origins.Get(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 40.0, got.ForestCoverage)
			assert.Equal(t, 10.0, got.AreaHectares)

			_, called := f.cms.LastCall("origins.update")
			assert.False(t, called)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.router.ops.WithLabelValues("origins", "update", mode.Name(offline), OutcomeInvalid)))
		})
	}
}

func TestSubmitFollowsMode(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.cms.Seed(models.DueDiligenceStatements.Name, map[string]any{"id": "remote-1", "status": "draft"})

	st, err := f.router.Statements().Submit(ctx, "remote-1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, models.StatementSubmitted, st.Status)

	f.toggle.Set(true)
	require.NoError(t, f.local.Reset(ctx))
	st, err = f.router.Statements().Submit(ctx, "dds-ipe-0002")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, models.StatementSubmitted, st.Status)

	st, err = f.router.Statements().Submit(ctx, "remote-1")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestOperationsAreCounted(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.router.Suppliers().List(ctx, store.ListParams{})
	require.NoError(t, err)
	_, err = f.router.Suppliers().List(ctx, store.ListParams{Filters: map[string]string{"nope": "x"}})
	require.ErrorIs(t, err, store.ErrUnknownFilter)

	f.toggle.Set(false)
	_, err = f.router.Suppliers().Delete(ctx, "missing")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.router.ops.WithLabelValues("suppliers", "list", "offline", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.router.ops.WithLabelValues("suppliers", "list", "offline", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.router.ops.WithLabelValues("suppliers", "delete", "online", OutcomeOK)))
}

func TestUnconfiguredRemote(t *testing.T) {
	loc := local.New(storage.NewMemory())
	toggle := mode.NewToggle(false)
	r, err := New(loc, nil, toggle, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)

	_, err = r.Products().List(context.Background(), store.ListParams{})
	assert.ErrorIs(t, err, remote.ErrNotConfigured)

	toggle.Set(true)
	items, err := r.Products().List(context.Background(), store.ListParams{})
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestCounterIsSharedAcrossRouters(t *testing.T) {
	reg := prometheus.NewRegistry()
	loc := local.New(storage.NewMemory())

	a, err := New(loc, nil, mode.Static(true), WithRegisterer(reg))
	require.NoError(t, err)
	b, err := New(loc, nil, mode.Static(true), WithRegisterer(reg))
	require.NoError(t, err)
	assert.Same(t, a.ops, b.ops)
}
