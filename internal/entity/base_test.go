package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Test_MigrateTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, MigrateTable(db))

	for _, table := range []string{"api_keys", "medicines", "api_usage"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// Migration is idempotent.
	require.NoError(t, MigrateTable(db))
}
