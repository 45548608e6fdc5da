package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "001_bad.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}
}

func TestValidateDirRejectsMissingDownSection(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "20250101000000_partial.sql")
	if err := os.WriteFile(name, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "goose Down") {
		t.Fatalf("expected missing down error, got %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Guest  Index!!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_guest_index.sql") {
		t.Fatalf("unexpected filename %q", base)
	}

	// Fresh dir: a second create within the same second would collide
	// on the timestamp version.
	path, err = CreateSQLMigration(t.TempDir(), "drop __ old column")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if base := filepath.Base(path); !strings.HasSuffix(base, "_drop_old_column.sql") {
		t.Fatalf("unexpected filename %q", base)
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
