package models_test

import (
	"testing"

	"lapak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStoredCart(t *testing.T) {
	// The stored form: a JSON object keyed by variant id strings.
	raw := `{"3":{"name":"Hoodie (M, Black)","price":50,"quantity":2},"12":{"name":"Cap","price":20,"quantity":1}}`

	snapshot, err := models.DecodeCartSnapshot(raw)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	item, ok := snapshot.Item(3)
	require.True(t, ok)
	assert.Equal(t, "Hoodie (M, Black)", item.Name)
	assert.Equal(t, 50.0, item.Price)
	assert.Equal(t, 2, item.Quantity)

	assert.Equal(t, 120.0, snapshot.Total())
	assert.Equal(t, []int64{3, 12}, snapshot.VariantIDs())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snapshot := models.CartSnapshot{}
	snapshot.SetItem(7, models.LineItem{Name: "Sneakers (42, White)", Price: 199.99, Quantity: 1})

	raw, err := models.EncodeCartSnapshot(snapshot)
	require.NoError(t, err)

	decoded, err := models.DecodeCartSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, snapshot, decoded)
}

func TestDecodeBadCart(t *testing.T) {
	_, err := models.DecodeCartSnapshot("not json at all")
	assert.Error(t, err)
}

func TestVariantIDsSkipsBadKeys(t *testing.T) {
	snapshot, err := models.DecodeCartSnapshot(`{"5":{"name":"A","price":1,"quantity":1},"oops":{"name":"B","price":1,"quantity":1}}`)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, snapshot.VariantIDs())
}
