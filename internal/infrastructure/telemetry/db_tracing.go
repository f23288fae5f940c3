package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans; development only
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin installs otelgorm and reports slow queries.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	defaults := DefaultDBTracingConfig()
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaults.SlowQueryThresh
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = defaults.DBSystem
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. It does nothing when disabled, so it
// can be passed to persistence.WithSetup unconditionally.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerAround(db, "otel_slow_query", markQueryStart, p.logSlowQuery); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

// logSlowQuery warns about statements slower than the threshold, tagged
// with the trace of the otelgorm span so the two can be joined.
func (p *DBTracingPlugin) logSlowQuery(db *gorm.DB, operation string) {
	elapsed, ok := queryElapsed(db)
	if !ok || elapsed <= p.config.SlowQueryThresh {
		return
	}
	fields := []zap.Field{
		zap.String("db.operation", operation),
		zap.String("db.table", db.Statement.Table),
		zap.Int64("db.rows_affected", db.Statement.RowsAffected),
		zap.Duration("duration", elapsed),
		zap.Duration("threshold", p.config.SlowQueryThresh),
	}
	if traceID := GetTraceID(db.Statement.Context); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if p.config.LogFullSQL {
		fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
	}
	p.logger.Warn("Slow query", fields...)
}
