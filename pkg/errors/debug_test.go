package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email", TableName: "users", Message: "duplicate key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert user: %w", pgErr), "email already registered")

	d := Dump(err)
	if d.Code != CodeConflict || d.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected code/status %s/%d", d.Code, d.HTTPStatus)
	}
	if d.PGCode != "23505" || d.PGConstraint != "idx_users_email" || d.PGTable != "users" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %v", d.Chain)
	}
	if d.Fields()["pg_constraint"] != "idx_users_email" {
		t.Fatalf("expected pg fields in log fields")
	}
}

func TestDumpExtractsPQDetails(t *testing.T) {
	err := fmt.Errorf("query: %w", &pq.Error{Code: "23503", Constraint: "fk", Table: "cart_items"})

	d := Dump(err)
	if d.PGCode != "23503" || d.PGTable != "cart_items" {
		t.Fatalf("unexpected pq fields %+v", d)
	}
	if d.Code != "" {
		t.Fatalf("untyped error should not carry a code, got %s", d.Code)
	}
}

func TestDumpFieldsOmitEmptyPostgresData(t *testing.T) {
	fields := Dump(New(CodeNotFound, "product not found")).Fields()
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("did not expect pg fields, got %v", fields)
	}
	if fields["http_status"] != http.StatusNotFound {
		t.Fatalf("expected http status field, got %v", fields["http_status"])
	}
}
