package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Label     string `gorm:"size:100"`
	CreatedAt time.Time
}

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRecord{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPluginRegisters(t *testing.T) {
	db := newTracingTestDB(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	assert.Equal(t, "db_tracing", plugin.Name())
	require.NoError(t, db.Use(plugin))

	// queries still work with the callbacks in place
	require.NoError(t, db.Create(&tracedRecord{Label: "probe"}).Error)
	var out tracedRecord
	require.NoError(t, db.First(&out).Error)
	assert.Equal(t, "probe", out.Label)
}

func TestDBTracingPluginFullSQLOption(t *testing.T) {
	db := newTracingTestDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.LogFullSQL = true
	require.NoError(t, db.Use(NewDBTracingPlugin(cfg, zap.NewNop())))
	require.NoError(t, db.Create(&tracedRecord{Label: "verbose"}).Error)
}

func TestAnnotateSpanAttributes(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	ctx, span := tp.Tracer("test").Start(context.Background(), "annotate")

	result := db.WithContext(ctx).Create(&tracedRecord{Label: "row"})
	require.NoError(t, result.Error)
	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	var rows int64 = -1
	table := ""
	for _, attr := range spans[0].Attributes() {
		switch attr.Key {
		case "db.rows_affected":
			rows = attr.Value.AsInt64()
		case "db.sql.table":
			table = attr.Value.AsString()
		}
	}
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, "traced_records", table)
}

func TestAnnotateSpanSlowQuery(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	cfg := DefaultDBTracingConfig()
	cfg.SlowQueryThresh = time.Nanosecond
	plugin := NewDBTracingPlugin(cfg, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow")
	ctx = WithQueryStartTime(ctx)
	time.Sleep(time.Millisecond)

	result := db.WithContext(ctx).Find(&[]tracedRecord{})
	require.NoError(t, result.Error)
	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	slow := false
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "db.slow_query" {
			slow = attr.Value.AsBool()
		}
	}
	assert.True(t, slow)

	events := spans[0].Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "slow_query_warning", events[0].Name)
}

func TestAnnotateSpanIgnoresRecordNotFound(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	ctx, span := tp.Tracer("test").Start(context.Background(), "miss")

	var out tracedRecord
	result := db.WithContext(ctx).First(&out, 999)
	require.True(t, errors.Is(result.Error, gorm.ErrRecordNotFound))
	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Events(), "a miss must not record an error event")
}

func TestAnnotateSpanRecordsErrors(t *testing.T) {
	db := newTracingTestDB(t)
	tp, recorder := newSpanRecorder(t)

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	ctx, span := tp.Tracer("test").Start(context.Background(), "broken")

	result := db.WithContext(ctx).Exec("SELECT * FROM no_such_table")
	require.Error(t, result.Error)
	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEmpty(t, spans[0].Events())
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
