package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db.DB
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{
		"staged_vendor_products",
		"staged_variants",
		"staged_inventory_levels",
		"import_decisions",
		"canonical_variants",
		"overrides",
		"sync_runs",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
