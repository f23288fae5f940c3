package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add reminders index", "add_reminders_index"},
		{"Add-Reminders-Index", "add_reminders_index"},
		{"ADD_REMINDERS_INDEX", "add_reminders_index"},
		{"add__job__runs", "add_job_runs"},
		{"Job Runs 2", "job_runs_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add reminders index", "Speeds up the due reminder scan")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_reminders_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_reminders_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_reminders_index")
	assert.Contains(t, string(up), "-- Speeds up the due reminder scan")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback of add_reminders_index")

	second, err := CreateMigration(dir, "drop column", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	up, err = os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimSpace(string(up)), "\n\n")
}

func TestCreateMigration_ContinuesEmbeddedNumbering(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000003_create_reconcile_job_runs.up.sql", "000003_create_reconcile_job_runs.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	mf, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, "000004", mf.Version)
}

func TestCreateMigration_Errors(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)

	nested := filepath.Join(t.TempDir(), "nested", "migrations")
	_, err = CreateMigration(nested, "init", "")
	require.NoError(t, err)
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_late.up.sql":     {},
		"000010_late.down.sql":   {},
		"000002_users.up.sql":    {},
		"000002_users.down.sql":  {},
		"000001_init.up.sql":     {},
		"README.md":              {},
		"draft.up.sql":           {},
		"000003_dir.up.sql/x.sq": {},
	}

	migrations, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_users", "000010_late"}, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestEmbeddedMigrations(t *testing.T) {
	fsys := Embedded()

	migrations, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_finance_tables",
		"000002_create_reminders_and_notifications",
		"000003_create_reconcile_job_runs",
	}, migrations)

	for _, base := range migrations {
		_, err := fs.Stat(fsys, base+".down.sql")
		assert.NoError(t, err, "%s has no down migration", base)
	}

	up, err := fs.ReadFile(fsys, "000001_create_finance_tables.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "idx_report_owner_month")
}
