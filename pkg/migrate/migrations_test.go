package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/angelmondragon/brewlytics/pkg/migrate"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := migrate.Validate(migrate.Embedded()); err != nil {
		t.Fatalf("migrations failed validation: %v", err)
	}
}

func TestEmbeddedMatchesSourceDir(t *testing.T) {
	onDisk, err := migrate.Source("migrations")
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	want, _ := fs.Glob(onDisk, "*.sql")
	got, _ := fs.Glob(migrate.Embedded(), "*.sql")
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("embedded %v differs from disk %v", got, want)
	}
}

func TestSourceRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.sql")
	if err := os.WriteFile(file, []byte("-- +goose Up"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := migrate.Source(file); err == nil {
		t.Fatal("expected error for non-directory source")
	}
}

func TestValidateRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {"create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down")}},
		"duplicate": {
			"20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down")},
			"20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down")},
		},
		"missing down": {"20260101000000_a.sql": {Data: []byte("-- +goose Up")}},
	}
	for name, fsys := range cases {
		if err := migrate.Validate(fsys); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"orders_customer_status_created_idx",
		"DROP TABLE IF EXISTS orders",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBeansMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_coffee_beans_and_taste_profiles.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS coffee_beans",
		"CHECK (stock_quantity >= 0)",
		"customer_id UUID NOT NULL UNIQUE",
		"flavor_preferences TEXT[]",
		"DROP TABLE IF EXISTS taste_profiles",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	path, err := migrate.CreateSQLMigration(dir, "Add Roast Level!", at)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260401120000_add_roast_level.sql" {
		t.Fatalf("unexpected migration path %s", path)
	}
	if err := migrate.Validate(os.DirFS(dir)); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}

	if _, err := migrate.CreateSQLMigration(dir, "older", at.Add(-time.Hour)); err == nil {
		t.Fatal("expected error for a version older than the latest migration")
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!", at.Add(time.Hour)); err == nil {
		t.Fatal("expected error for a name with no usable characters")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
