package migrate_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no migration matching %s", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"create_users_table": {
			"CREATE TABLE IF NOT EXISTS users",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username",
			"CHECK (role IN ('user', 'admin'))",
		},
		"create_catalog_tables": {
			"CREATE TABLE IF NOT EXISTS products",
			"CREATE TABLE IF NOT EXISTS categories",
			"CREATE TABLE IF NOT EXISTS collections",
			"CREATE TABLE IF NOT EXISTS carousel_slides",
			"CREATE TABLE IF NOT EXISTS promos",
			"CREATE INDEX IF NOT EXISTS idx_products_category",
		},
		"create_cart_items_table": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CHECK (quantity > 0)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_session_product ON cart_items (session_id, product_id)",
		},
		"create_newsletter_subscribers_table": {
			"CREATE TABLE IF NOT EXISTS newsletter_subscribers",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_newsletter_subscribers_email",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

func TestCartMigrationDoesNotReferenceProducts(t *testing.T) {
	content := readMigration(t, "create_cart_items_table")
	if strings.Contains(content, "REFERENCES products") {
		t.Fatal("cart items must tolerate deleted products")
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestEmbeddedMigrationsMatchCheckout(t *testing.T) {
	require.NoError(t, migrate.Validate(migrate.Migrations()))

	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	embedded, err := fs.Glob(migrate.Migrations(), "*.sql")
	require.NoError(t, err)
	require.Len(t, embedded, len(onDisk))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("notes.sql", "-- +goose Up\n-- +goose Down\n")
	write("20240101000000_a.sql", "-- +goose Up\n")
	write("20240101000000_b.sql", "-- +goose Up\n-- +goose Down\n")

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 3)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644))
	require.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Wishlist Table!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_wishlist_table.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestAutoMigrateCreatesModelTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:automigrate?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.AutoMigrate(context.Background(), conn))

	for _, model := range models.All() {
		require.True(t, conn.Migrator().HasTable(model), "missing table for %T", model)
	}
	require.True(t, conn.Migrator().HasIndex(&models.CartItem{}, "idx_cart_items_session_product"))
	require.True(t, conn.Migrator().HasIndex(&models.User{}, "idx_users_email"))
}
