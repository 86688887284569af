package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[V any](v V) *V { return &v }

func TestProductPatchApply(t *testing.T) {
	p := Product{
		Name:       "Teak planks",
		Category:   CommodityWood,
		Weight:     12,
		WeightUnit: WeightTonnes,
	}

	ProductPatch{}.Apply(&p)
	assert.Equal(t, "Teak planks", p.Name)
	assert.Equal(t, 12.0, p.Weight)

	ProductPatch{Weight: ptr(3.5), EUDRCompliant: ptr(true)}.Apply(&p)
	assert.Equal(t, "Teak planks", p.Name)
	assert.Equal(t, 3.5, p.Weight)
	assert.True(t, p.EUDRCompliant)

	ProductPatch{EUDRCompliant: ptr(false)}.Apply(&p)
	assert.False(t, p.EUDRCompliant)
}

func TestStatementPatchApply(t *testing.T) {
	s := DueDiligenceStatement{Status: StatementDraft}
	DueDiligenceStatementPatch{
		Status:         ptr(StatementSubmitted),
		SubmissionDate: ptr("2024-05-01"),
	}.Apply(&s)
	assert.Equal(t, StatementSubmitted, s.Status)
	assert.Equal(t, "2024-05-01", s.SubmissionDate)
}

func TestLookupCollection(t *testing.T) {
	c, ok := LookupCollection("suppliers")
	require.True(t, ok)
	assert.Equal(t, "eudr_suppliers", c.StorageKey)
	assert.True(t, c.AcceptsFilter("risk_level"))
	assert.False(t, c.AcceptsFilter("name"))

	c, ok = LookupCollection("dds")
	require.True(t, ok)
	assert.Equal(t, DueDiligenceStatements.Name, c.Name)

	_, ok = LookupCollection("widgets")
	assert.False(t, ok)
}

func TestCollectionsUnique(t *testing.T) {
	names := map[string]bool{}
	keys := map[string]bool{}
	for _, c := range Collections() {
		assert.False(t, names[c.Name], c.Name)
		assert.False(t, keys[c.StorageKey], c.StorageKey)
		names[c.Name] = true
		keys[c.StorageKey] = true
	}
	assert.Len(t, names, 8)
}
