package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDBMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("plugin counts queries by operation", func(t *testing.T) {
		reader, provider := newTestMeter(t)
		metrics, err := telemetry.NewDBMetrics(provider.Meter("db"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: time.Hour,
		}, zap.NewNop())
		require.NoError(t, err)

		db, err := persistence.NewSQLiteDatabase(":memory:", persistence.WithSetup(func(db *gorm.DB) error {
			return db.Use(telemetry.NewDBMetricsPlugin(metrics))
		}))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		before := collect(t, reader)
		selects := sumFor(t, before["db_query_total"], telemetry.AttrDBOperation.String("SELECT"))

		var n int64
		require.NoError(t, db.DB.Table("users").Count(&n).Error)
		require.NoError(t, db.DB.Table("users").Count(&n).Error)
		require.NoError(t, db.DB.Exec("DELETE FROM reminders WHERE 1 = 0").Error)

		after := collect(t, reader)
		assert.Equal(t, selects+2, sumFor(t, after["db_query_total"], telemetry.AttrDBOperation.String("SELECT")))
		assert.Equal(t, int64(1), sumFor(t, after["db_query_total"], telemetry.AttrDBOperation.String("DELETE")))

		assert.Zero(t, sumFor(t, after["db_slow_query_total"], telemetry.AttrDBTable.String("users")))
	})

	t.Run("slow queries are counted per table", func(t *testing.T) {
		reader, provider := newTestMeter(t)
		metrics, err := telemetry.NewDBMetrics(provider.Meter("db"), telemetry.DBMetricsConfig{
			SlowQueryThreshold: time.Millisecond,
		}, nil)
		require.NoError(t, err)

		metrics.RecordQuery(ctx, "SELECT", "reminders", 5*time.Millisecond)
		metrics.RecordQuery(ctx, "", "", 5*time.Millisecond)
		metrics.RecordQuery(ctx, "UPDATE", "debts", time.Microsecond)

		got := collect(t, reader)
		assert.Equal(t, int64(1), sumFor(t, got["db_slow_query_total"], telemetry.AttrDBTable.String("reminders")))
		assert.Equal(t, int64(1), sumFor(t, got["db_slow_query_total"], telemetry.AttrDBTable.String("unknown")))
		assert.Equal(t, int64(1), sumFor(t, got["db_query_total"], telemetry.AttrDBOperation.String("OTHER")))
		assert.Zero(t, sumFor(t, got["db_slow_query_total"], telemetry.AttrDBTable.String("debts")))
	})

	t.Run("pool stats are sampled", func(t *testing.T) {
		reader, provider := newTestMeter(t)
		metrics, err := telemetry.NewDBMetrics(provider.Meter("db"), telemetry.DBMetricsConfig{
			PoolStatsInterval: time.Hour,
		}, zap.NewNop())
		require.NoError(t, err)

		db, err := persistence.NewSQLiteDatabase(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		sqlDB, err := db.DB.DB()
		require.NoError(t, err)

		metrics.SetSQLDB(sqlDB)
		metrics.StartPoolStatsCollection(ctx)
		require.Eventually(t, func() bool {
			_, ok := collect(t, reader)["db_pool_connections_max"]
			return ok
		}, time.Second, 5*time.Millisecond)
		metrics.Stop()
		metrics.Stop()

		got := collect(t, reader)
		maxOpen, ok := gaugeFor(t, got["db_pool_connections_max"])
		require.True(t, ok)
		assert.Equal(t, int64(1), maxOpen)
		open, ok := gaugeFor(t, got["db_pool_connections"], telemetry.AttrDBState.String("open"))
		require.True(t, ok)
		assert.Equal(t, int64(1), open)
	})

	t.Run("pool collection needs a connection", func(t *testing.T) {
		_, provider := newTestMeter(t)
		metrics, err := telemetry.NewDBMetrics(provider.Meter("db"), telemetry.DefaultDBMetricsConfig(), nil)
		require.NoError(t, err)
		metrics.StartPoolStatsCollection(ctx)
		metrics.Stop()
	})

	t.Run("register is a no-op while metrics are disabled", func(t *testing.T) {
		db, err := persistence.NewSQLiteDatabase(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{}, zap.NewNop())
		require.NoError(t, err)

		metrics, err := telemetry.RegisterDBMetrics(db.DB, mp, telemetry.DefaultDBMetricsConfig(), zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})
}
