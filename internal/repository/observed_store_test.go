package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/observability"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func storeOpCount(t *testing.T, prom *observability.Prom, op, status string) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, prom.StoreOpDuration.WithLabelValues(op, status).(prometheus.Metric).Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestObservedStore_RecordsEachOperation(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())
	store := NewObservedStore(newSQLiteStore(t), prom)
	ctx := context.Background()

	user := createUser(t, store, "andrew@example.com")
	require.NoError(t, store.Users().AddToken(ctx, user.ID, "t1"))
	_, err := store.Users().FindByIDAndToken(ctx, user.ID, "t1")
	require.NoError(t, err)

	task := &models.Task{Description: "buy milk", Owner: user.ID}
	require.NoError(t, store.Tasks().Create(ctx, task))
	tasks, err := store.Tasks().List(ctx, TaskFilter{Owner: user.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	err = store.Transaction(ctx, func(tx Store) error {
		_, err := tx.Tasks().DeleteByOwner(ctx, user.ID)
		return err
	})
	require.NoError(t, err)

	for _, op := range []string{"user.create", "user.add_token", "user.find_by_token", "task.create", "task.list", "task.delete_by_owner", "transaction"} {
		assert.Equal(t, uint64(1), storeOpCount(t, prom, op, "ok"), op)
	}
	assert.Equal(t, 0, testutil.CollectAndCount(prom.StoreErrors))
}

func TestObservedStore_NotFoundIsNotAnError(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())
	store := NewObservedStore(newSQLiteStore(t), prom)

	_, err := store.Tasks().FindOwned(context.Background(), "missing", "owner")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, testutil.CollectAndCount(prom.StoreErrors))
	assert.Equal(t, uint64(1), storeOpCount(t, prom, "task.find_owned", "ok"))
}

func TestObservedStore_ClassifiesDuplicateKey(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())
	store := NewObservedStore(newSQLiteStore(t), prom)
	createUser(t, store, "andrew@example.com")

	err := store.Users().Create(context.Background(), &models.User{Name: "Other", Email: "andrew@example.com", Password: "hash"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	assert.Equal(t, float64(1), testutil.ToFloat64(prom.StoreErrors.WithLabelValues("user.create", "unique_violation")))
}

func TestObservedStore_ClassifiesPostgresErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	prom := observability.NewProm(prometheus.NewRegistry())
	store := NewObservedStore(NewGormStore(db), prom)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE owner = \$1`).
		WithArgs("u1").
		WillReturnError(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"})
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE owner = \$1`).
		WithArgs("u1").
		WillReturnError(&pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"})

	for i := 0; i < 2; i++ {
		_, err = store.Tasks().List(context.Background(), TaskFilter{Owner: "u1"})
		require.Error(t, err)
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(prom.StoreErrors.WithLabelValues("task.list", "deadlock")))
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.StoreErrors.WithLabelValues("task.list", "query_canceled")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewObservedStore_NilObserverReturnsInner(t *testing.T) {
	inner := newSQLiteStore(t)
	assert.Same(t, inner, NewObservedStore(inner, nil))
}
