package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/config"
	"github.com/yukikurage/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPaginate_GeneratesBounds(t *testing.T) {
	db, err := Open(config.DriverSQLite, ":memory:", logger.Silent)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		skip, limit int
		contains    []string
		excludes    []string
	}{
		{name: "no bounds", excludes: []string{"LIMIT", "OFFSET"}},
		{name: "limit only", limit: 2, contains: []string{"LIMIT 2"}, excludes: []string{"OFFSET"}},
		{name: "skip only", skip: 3, contains: []string{"OFFSET 3", "LIMIT"}},
		{name: "both", skip: 1, limit: 4, contains: []string{"LIMIT 4", "OFFSET 1"}},
		{name: "negative values are ignored", skip: -1, limit: -5, excludes: []string{"LIMIT", "OFFSET"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				var tasks []models.Task
				return tx.Scopes(Paginate(tc.skip, tc.limit)).Find(&tasks)
			})
			for _, s := range tc.contains {
				assert.Contains(t, sql, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, sql, s)
			}
		})
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	db, err := Open(config.DriverSQLite, ":memory:", logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "user_tokens", "tasks"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", logger.Silent)
	require.ErrorIs(t, err, config.ErrUnsupportedDriver)
}
