package records

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapInsertErrDetectsUniqueViolation(t *testing.T) {
	err := mapInsertErr("products", &pgconn.PgError{Code: "23505"})
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("unique violation not mapped: %v", err)
	}

	wrapped := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})
	if !errors.Is(mapInsertErr("products", wrapped), ErrDuplicateRecord) {
		t.Fatal("wrapped unique violation must still map")
	}
}

func TestMapInsertErrPassesOtherErrorsThrough(t *testing.T) {
	err := mapInsertErr("sales", &pgconn.PgError{Code: "23503"})
	if errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("foreign key violation mapped as duplicate: %v", err)
	}

	plain := mapInsertErr("sales", errors.New("connection reset"))
	if errors.Is(plain, ErrDuplicateRecord) {
		t.Fatal("plain error mapped as duplicate")
	}
	if !strings.Contains(plain.Error(), "insert sales") {
		t.Fatalf("error lost its context: %v", plain)
	}
}

func TestNewIDFormat(t *testing.T) {
	id := NewID("sale")
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] != "sale" {
		t.Fatalf("unexpected id format: %s", id)
	}
	if len(parts[2]) != 6 {
		t.Fatalf("suffix length = %d, want 6", len(parts[2]))
	}
	if NewID("sale") == id {
		t.Fatal("ids must not repeat")
	}
}
