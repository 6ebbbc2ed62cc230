package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateAtRejectsTakenVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	path, err := createAt(dir, "add promo codes", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20240601120000_add_promo_codes.sql" {
		t.Fatalf("unexpected file %s", filepath.Base(path))
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "-- undo add_promo_codes") {
		t.Fatalf("unexpected template:\n%s", body)
	}

	if _, err := createAt(dir, "other change", now); err == nil {
		t.Fatal("expected clash on reused version")
	}
}

func TestNewRunnerRequiresDB(t *testing.T) {
	if _, err := NewRunner(nil, ""); err == nil {
		t.Fatal("expected error for nil db")
	}
}
