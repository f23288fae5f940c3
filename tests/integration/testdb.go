//go:build integration

// Package integration runs the reconciler against a real PostgreSQL database
// started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/migration"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL database owned by one test
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container and applies the embedded
// migrations to it.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	tdb := startContainer(t)

	m := newMigrator(t, tdb.DSN)
	require.NoError(t, m.Up(), "Failed to run migrations")
	require.NoError(t, m.Close())

	tdb.connect()
	return tdb
}

// NewEmptyTestDB starts a PostgreSQL container without applying migrations
func NewEmptyTestDB(t *testing.T) *TestDB {
	t.Helper()
	return startContainer(t)
}

func startContainer(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("fintrack_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	tdb := &TestDB{Container: container, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

func newMigrator(t *testing.T, dsn string) *migration.Migrator {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	m, err := migration.New(db, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	return m
}

func (tdb *TestDB) connect() {
	tdb.t.Helper()
	db, err := persistence.Open(gormpostgres.Open(tdb.DSN), gormlogger.Discard)
	require.NoError(tdb.t, err, "Failed to connect to database")
	sqlDB, err := db.DB()
	require.NoError(tdb.t, err)
	tdb.DB = db
	tdb.SqlDB = sqlDB
}

// Close closes the connection and terminates the container
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
		tdb.SqlDB = nil
	}
	if tdb.Container != nil {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
		tdb.Container = nil
	}
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// TableExists reports whether a table is present in the public schema
func (tdb *TestDB) TableExists(name string) bool {
	tdb.t.Helper()
	var exists bool
	err := tdb.SqlDB.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = 'public' AND tablename = $1)`,
		name,
	).Scan(&exists)
	require.NoError(tdb.t, err)
	return exists
}
