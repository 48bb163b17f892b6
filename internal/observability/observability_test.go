package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

func TestLogger_AddsTraceIDsInsideSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "inside")
	span.End()

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "outside")
	record = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
}

func TestLogger_LevelByEnv(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "production").Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "dev").Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestProm_CountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	p := NewProm(reg)

	r := gin.New()
	r.Use(p.GinHandleMiddleware())
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "/tasks/:id", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(p.InFlight.WithLabelValues("GET", "/tasks/:id")))
}

func TestProm_ObserveStore(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	require.NoError(t, p.ObserveStore("ping", func() error { return nil }))
	err := p.ObserveStore("ping", func() error { return context.DeadlineExceeded })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, float64(1), testutil.ToFloat64(p.StoreErrors.WithLabelValues("ping", "timeout")))
}

func TestClassifyStoreErr(t *testing.T) {
	assert.Equal(t, "unique_violation", classifyStoreErr(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, "pg_42P01", classifyStoreErr(&pgconn.PgError{Code: "42P01"}))
	assert.Equal(t, "deadlock", classifyStoreErr(fmt.Errorf("list tasks: %w", &pgconn.PgError{Code: "40P01"})))
	assert.Equal(t, "unique_violation", classifyStoreErr(errors.Join(errors.New("duplicate"), gorm.ErrDuplicatedKey)))
	assert.Equal(t, "unique_violation", classifyStoreErr(mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}))
	assert.Equal(t, "timeout", classifyStoreErr(context.DeadlineExceeded))
	assert.Equal(t, "connection", classifyStoreErr(errors.New("connection refused")))
	assert.Equal(t, "unknown", classifyStoreErr(errors.New("boom")))
}
