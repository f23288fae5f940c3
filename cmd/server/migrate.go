package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// applyMigrations brings the schema up to the embedded migrations over a
// dedicated connection; the migrator holds one connection until closed.
func applyMigrations(dsn string, log *zap.Logger) (err error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if closeErr := m.Close(); err == nil {
			err = closeErr
		}
	}()

	return m.Up()
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
