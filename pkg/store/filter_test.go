package store_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/pkg/models"
	"github.com/forestline/eudrtrack/pkg/store"
)

func TestBuildFilterDialect(t *testing.T) {
	f, err := store.BuildFilter(models.Suppliers, store.ListParams{
		Search:  "agro",
		Filters: map[string]string{"verification_status": "verified", "risk_level": "high"},
	})
	require.NoError(t, err)

	b, err := json.Marshal(f.Expr())
	require.NoError(t, err)
	assert.JSONEq(t, `{"_and":[
		{"_or":[
			{"name":{"_icontains":"agro"}},
			{"contact_person":{"_icontains":"agro"}},
			{"email":{"_icontains":"agro"}},
			{"country":{"_icontains":"agro"}}
		]},
		{"risk_level":{"_eq":"high"}},
		{"verification_status":{"_eq":"verified"}}
	]}`, string(b))
}

func TestBuildFilterEmpty(t *testing.T) {
	f, err := store.BuildFilter(models.Products, store.ListParams{Limit: 5})
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Nil(t, f.Expr())
	assert.True(t, f.Match(map[string]any{"name": "x"}))
}

func TestBuildFilterSingleClause(t *testing.T) {
	f, err := store.BuildFilter(models.Products, store.ListParams{Filters: map[string]string{"category": "soy"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"category": map[string]any{"_eq": "soy"}}, f.Expr())
}

func TestBuildFilterUnknownField(t *testing.T) {
	_, err := store.BuildFilter(models.Products, store.ListParams{Filters: map[string]string{"weight": "1"}})
	assert.ErrorIs(t, err, store.ErrUnknownFilter)
}

func TestMatch(t *testing.T) {
	f, err := store.BuildFilter(models.Products, store.ListParams{
		Search:  "OAK",
		Filters: map[string]string{"eudr_compliant": "true"},
	})
	require.NoError(t, err)

	assert.True(t, f.Match(map[string]any{"name": "Sawn oak boards", "eudr_compliant": true}))
	assert.False(t, f.Match(map[string]any{"name": "Sawn oak boards", "eudr_compliant": false}))
	assert.True(t, f.Match(map[string]any{"name": "Boards", "description": "from Oakwood", "eudr_compliant": true}))
	assert.False(t, f.Match(map[string]any{"name": "Cocoa beans", "eudr_compliant": true}))
}

func TestParseFilterRoundTrip(t *testing.T) {
	f := store.And(
		store.Or(store.IContains("name", "oak"), store.IContains("hs_code", "44")),
		store.Eq("category", "wood"),
	)

	b, err := json.Marshal(f.Expr())
	require.NoError(t, err)
	var generic any
	require.NoError(t, json.Unmarshal(b, &generic))

	parsed, err := store.ParseFilter(generic)
	require.NoError(t, err)
	assert.Equal(t, f.String(), parsed.String())
	assert.Equal(t, `((name ~ "oak" OR hs_code ~ "44") AND category = "wood")`, parsed.String())
}

func TestParseFilterRejectsGarbage(t *testing.T) {
	for _, in := range []any{
		"name",
		map[string]any{"a": 1, "b": 2},
		map[string]any{"_and": "x"},
		map[string]any{"name": map[string]any{"_regex": "x"}},
	} {
		_, err := store.ParseFilter(in)
		assert.Error(t, err, "%v", in)
	}

	f, err := store.ParseFilter(nil)
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, store.Page(items, 0, 0))
	assert.Equal(t, []int{2, 3}, store.Page(items, 2, 1))
	assert.Equal(t, []int{5}, store.Page(items, 10, 4))
	assert.Equal(t, []int{}, store.Page(items, 2, 5))
}
