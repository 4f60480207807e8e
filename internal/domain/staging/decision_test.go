package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportDecision(t *testing.T) {
	product, err := NewStagedVendorProduct("gid://2000", "Ceramic Mug", "", "{}")
	require.NoError(t, err)

	t.Run("records the decision for audit", func(t *testing.T) {
		d, err := NewImportDecision(product, DecisionAccepted, "ops@example.com")
		require.NoError(t, err)

		assert.Equal(t, product.ID, d.StagedProductID)
		assert.Equal(t, "gid://2000", d.UpstreamProductID)
		assert.Equal(t, DecisionAccepted, d.Decision)
		assert.Equal(t, "ops@example.com", d.DecidedBy)
		assert.False(t, d.DecidedAt.IsZero())
	})

	t.Run("fails with non-terminal decision", func(t *testing.T) {
		_, err := NewImportDecision(product, DecisionPending, "ops@example.com")
		require.Error(t, err)
	})

	t.Run("fails without actor", func(t *testing.T) {
		_, err := NewImportDecision(product, DecisionRejected, "")
		require.Error(t, err)
	})
}
