package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/auth"
	"github.com/yukikurage/task-manager-api/internal/config"
	"github.com/yukikurage/task-manager-api/internal/database"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"gorm.io/gorm/logger"
)

const testSecret = "thisismynewcourse"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func newTestStore(t *testing.T) repository.Store {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, ":memory:", logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return repository.NewGormStore(db)
}

func newTestUserService(t *testing.T) (*UserService, repository.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewUserService(store, auth.NewManager(testSecret, 0), 0), store
}

func registerTestUser(t *testing.T, svc *UserService, email string) (*models.User, string) {
	t.Helper()
	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Andrew",
		Email:    email,
		Password: "Red12345!",
	})
	require.NoError(t, err)
	return user, token
}
