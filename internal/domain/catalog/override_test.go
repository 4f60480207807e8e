package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOverride(t *testing.T) {
	v, err := NewCanonicalVariant("SKU-400", "Placemat", "", decimal.NewFromInt(9))
	require.NoError(t, err)

	t.Run("records both values and the reason", func(t *testing.T) {
		o, err := NewOverride(v, "price", "9", "11.50", OverrideReasonPriceMismatch)
		require.NoError(t, err)

		assert.Equal(t, v.ID, o.VariantID)
		assert.Equal(t, "SKU-400", o.SKU)
		assert.Equal(t, "price", o.Field)
		assert.Equal(t, "9", o.CanonicalValue)
		assert.Equal(t, "11.50", o.IncomingValue)
		assert.Equal(t, OverrideReasonPriceMismatch, o.Reason)
		assert.False(t, o.Resolved)
	})

	t.Run("fails without a field name", func(t *testing.T) {
		_, err := NewOverride(v, "", "a", "b", OverrideReasonAttributeMismatch)
		require.Error(t, err)
	})
}

func TestOverrideResolve(t *testing.T) {
	v, err := NewCanonicalVariant("SKU-401", "Placemat", "", decimal.NewFromInt(9))
	require.NoError(t, err)

	t.Run("marks the override resolved", func(t *testing.T) {
		o, err := NewOverride(v, "price", "9", "11.50", OverrideReasonPriceMismatch)
		require.NoError(t, err)

		require.NoError(t, o.Resolve("ops@example.com"))
		assert.True(t, o.Resolved)
		assert.Equal(t, "ops@example.com", o.ResolvedBy)
		require.NotNil(t, o.ResolvedAt)
	})

	t.Run("fails when already resolved", func(t *testing.T) {
		o, err := NewOverride(v, "price", "9", "11.50", OverrideReasonPriceMismatch)
		require.NoError(t, err)
		require.NoError(t, o.Resolve("ops@example.com"))

		assert.Error(t, o.Resolve("someone-else@example.com"))
	})

	t.Run("fails without an actor", func(t *testing.T) {
		o, err := NewOverride(v, "price", "9", "11.50", OverrideReasonPriceMismatch)
		require.NoError(t, err)

		assert.Error(t, o.Resolve(""))
	})
}
