package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex:idx_test_models_name"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestNewSQLiteLogsSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	cfg := config.DBConfig{
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		SlowQuery:  time.Nanosecond,
	}

	client, err := New(context.Background(), config.StorageDriverSQLite, cfg, logg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Close()

	if err := client.DB().AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"db.query"`) {
		t.Fatalf("expected slow query line, got %s", buf.String())
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), "oracle", config.DBConfig{}, nil); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := New(context.Background(), config.StorageDriverPostgres, config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestPing(t *testing.T) {
	client := Wrap(newTestDB(t), config.StorageDriverSQLite)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Driver() != config.StorageDriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
}

func TestDialectorForRejectsBadInput(t *testing.T) {
	if _, err := dialectorFor(config.StorageDriverPostgres, config.DBConfig{}); err == nil {
		t.Fatal("expected error without dsn")
	}
	if _, err := dialectorFor(config.StorageDriverSQLite, config.DBConfig{}); err == nil {
		t.Fatal("expected error without sqlite path")
	}
	if _, err := dialectorFor("mysql", config.DBConfig{DSN: "x"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if !IsUniqueViolation(err, "name") {
		t.Fatalf("expected column hint to match, got %v", err)
	}
	if IsUniqueViolation(err, "email") {
		t.Fatal("unexpected match on unrelated column")
	}
}

func TestIsUniqueViolationPostgres(t *testing.T) {
	pgErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
	if !IsUniqueViolation(pgErr, "email") {
		t.Fatal("expected pgconn unique violation to match")
	}
	if IsUniqueViolation(pgErr, "username") {
		t.Fatal("expected constraint hint mismatch")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not a unique violation")
	}

	pqErr := &pq.Error{Code: "23505", Constraint: "idx_users_username"}
	if !IsUniqueViolation(pqErr, "username") {
		t.Fatal("expected lib/pq unique violation to match")
	}
	if IsUniqueViolation(nil, "") || IsUniqueViolation(errors.New("boom"), "") {
		t.Fatal("unexpected match on unrelated error")
	}
}
