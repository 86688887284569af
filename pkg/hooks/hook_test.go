package hooks_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/pkg/hooks"
	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/schema"
	"github.com/forestline/eudrtrack/pkg/storage"
	"github.com/forestline/eudrtrack/pkg/store"
	"github.com/forestline/eudrtrack/pkg/store/local"
)

type recorder struct {
	mu  sync.Mutex
	got []hooks.Notification
}

func (r *recorder) Notify(n hooks.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) last() hooks.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return hooks.Notification{}
	}
	return r.got[len(r.got)-1]
}

// broken fails every call after the first successful list.
type broken struct {
	store.Backend[models.Origin, models.OriginPatch]
	fail bool
}

var errDown = errors.New("backend down")

func (b *broken) List(ctx context.Context, p store.ListParams) ([]models.Origin, error) {
	if b.fail {
		return nil, errDown
	}
	return b.Backend.List(ctx, p)
}

func (b *broken) Create(context.Context, models.Origin) (*models.Origin, error) {
	return nil, errDown
}

func (b *broken) Delete(context.Context, string) (bool, error) {
	return false, errDown
}

func originHook(t *testing.T) (*hooks.Hook[models.Origin, models.OriginPatch], *local.Store, *recorder) {
	t.Helper()
	loc := local.New(storage.NewMemory())
	require.NoError(t, loc.Reset(context.Background()))
	rec := &recorder{}
	h := hooks.New[models.Origin, models.OriginPatch](loc.Origins, models.Origins, rec, zerolog.Nop())
	return h, loc, rec
}

func fillOrigin(h *hooks.Hook[models.Origin, models.OriginPatch]) {
	h.SetField("name", "Kivu Highlands")
	h.SetField("country", "DR Congo")
	h.SetField("region", "North Kivu")
	h.SetField("coordinates", "-1.6585,29.2205")
	h.SetField("area_hectares", "340.5")
	h.SetField("forest_coverage", "62")
	h.SetField("deforestation_risk", "high")
}

func TestLoad(t *testing.T) {
	h, _, _ := originHook(t)
	h.Load(context.Background())

	s := h.State()
	assert.False(t, s.Loading)
	assert.NoError(t, s.Err)
	assert.Len(t, s.Items, 3)
}

func TestSubmitCreatesAndReloads(t *testing.T) {
	h, loc, rec := originHook(t)
	ctx := context.Background()
	h.Load(ctx)

	h.OpenCreate()
	fillOrigin(h)
	require.NoError(t, h.Submit(ctx))

	s := h.State()
	assert.False(t, s.DialogOpen)
	assert.Nil(t, s.Editing)
	assert.Empty(t, s.Draft)
	assert.Len(t, s.Items, 4)
	assert.Equal(t, "Origin created successfully", rec.last().Message)

	items, err := loc.Origins.List(ctx, store.ListParams{Search: "kivu"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 340.5, items[0].AreaHectares)
	assert.Equal(t, 62.0, items[0].ForestCoverage)
}

func TestSubmitReturnsValidationErrors(t *testing.T) {
	h, _, rec := originHook(t)
	ctx := context.Background()

	h.OpenCreate()
	fillOrigin(h)
	h.SetField("forest_coverage", "150")
	h.SetField("deforestation_risk", "extreme")

	err := h.Submit(ctx)
	verr, ok := schema.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Field("forest_coverage"), "100")
	assert.Contains(t, verr.Field("deforestation_risk"), "deforestation_risk")

	s := h.State()
	assert.True(t, s.DialogOpen)
	assert.Equal(t, "150", s.Draft["forest_coverage"])
	assert.Equal(t, verr.Fields, s.FieldErrors)
	assert.False(t, s.Loading)
	assert.Empty(t, rec.got)

	h.SetField("forest_coverage", "40")
	assert.NotContains(t, h.State().FieldErrors, "forest_coverage")
}

func TestEditUpdates(t *testing.T) {
	h, loc, _ := originHook(t)
	ctx := context.Background()

	before, err := loc.Origins.Get(ctx, "ori-ashanti-farms")
	require.NoError(t, err)
	require.NotNil(t, before)

	require.NoError(t, h.Edit(*before))
	s := h.State()
	require.NotNil(t, s.Editing)
	assert.Equal(t, before.Name, s.Draft["name"])
	assert.NotContains(t, s.Draft, "id")

	h.SetField("region", "Ashanti South")
	require.NoError(t, h.Submit(ctx))

	after, err := loc.Origins.Get(ctx, "ori-ashanti-farms")
	require.NoError(t, err)
	assert.Equal(t, "Ashanti South", after.Region)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestFailuresAreNotifiedNotReturned(t *testing.T) {
	loc := local.New(storage.NewMemory())
	require.NoError(t, loc.Reset(context.Background()))
	b := &broken{Backend: loc.Origins}
	rec := &recorder{}
	h := hooks.New[models.Origin, models.OriginPatch](b, models.Origins, rec, zerolog.Nop())
	ctx := context.Background()

	h.Load(ctx)
	require.Len(t, h.State().Items, 3)

	b.fail = true
	h.Load(ctx)
	s := h.State()
	assert.Len(t, s.Items, 3, "previous list is kept")
	assert.ErrorIs(t, s.Err, errDown)
	assert.True(t, rec.last().Destructive)
	assert.Equal(t, "Failed to load origins", rec.last().Message)

	h.OpenCreate()
	fillOrigin(h)
	require.NoError(t, h.Submit(ctx))
	s = h.State()
	assert.True(t, s.DialogOpen)
	assert.Equal(t, "Kivu Highlands", s.Draft["name"])
	assert.False(t, s.Loading)
	assert.Equal(t, "Failed to create origin", rec.last().Message)

	assert.False(t, h.Delete(ctx, "ori-para-concession"))
	assert.Equal(t, "Failed to delete origin", rec.last().Message)
	assert.False(t, h.State().Loading)
}

func TestDelete(t *testing.T) {
	h, _, rec := originHook(t)
	ctx := context.Background()

	assert.True(t, h.Delete(ctx, "ori-para-concession"))
	assert.Len(t, h.State().Items, 2)
	assert.Equal(t, "Origin deleted successfully", rec.last().Message)

	assert.False(t, h.Delete(ctx, "ori-para-concession"))
	assert.True(t, rec.last().Destructive)
}

func TestResetDraftClearsEditingAndDraftTogether(t *testing.T) {
	h, loc, _ := originHook(t)
	item, err := loc.Origins.Get(context.Background(), "ori-north-sumatra")
	require.NoError(t, err)

	require.NoError(t, h.Edit(*item))
	h.ResetDraft()

	s := h.State()
	assert.False(t, s.DialogOpen)
	assert.Nil(t, s.Editing)
	assert.Empty(t, s.Draft)
}

func TestQueryIsUsedByLoad(t *testing.T) {
	h, _, _ := originHook(t)
	h.SetQuery(store.ListParams{Filters: map[string]string{"deforestation_risk": "high"}})
	h.Load(context.Background())

	for _, o := range h.State().Items {
		assert.Equal(t, models.RiskHigh, o.DeforestationRisk)
	}
}
