package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code, constraint, column string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint, ColumnName: column}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(pgErr("23505", "agents_username_normalized_key", "")) {
		t.Fatal("unique violation not detected")
	}
	if IsDuplicateKey(pgErr("23503", "", "")) {
		t.Fatal("fk violation misdetected as duplicate key")
	}
	if IsDuplicateKey(fmt.Errorf("not pg")) {
		t.Fatal("foreign error misdetected")
	}
}

func TestIsDuplicateKeyWrapped(t *testing.T) {
	err := Wrap(pgErr("23505", "", ""), CodeDB, "insert agent")
	if !IsDuplicateKey(err) {
		t.Fatal("wrapped unique violation not detected")
	}
}

func TestDBCode(t *testing.T) {
	if code, ok := DBCode(pgErr("23503", "", "")); !ok || code != CodeInvalidPayload {
		t.Fatalf("fk violation = %q ok=%v", code, ok)
	}
	if code, ok := DBCode(pgErr("57P03", "", "")); !ok || code != CodeUnavailable {
		t.Fatalf("cannot-connect = %q ok=%v", code, ok)
	}
	if _, ok := DBCode(fmt.Errorf("plain")); ok {
		t.Fatal("plain error should not map")
	}
}

func TestAttachFieldFromPg(t *testing.T) {
	err := FromPostgres(pgErr("23505", "agents_username_normalized_key", ""), "insert agent")
	err = AttachFieldFromPg(err)
	// last token of agents_username_normalized_key is "key", which is skipped
	if e, _ := As(err); e.Field() != "" {
		t.Fatalf("field = %q, want empty for _key suffix", e.Field())
	}

	err = AttachFieldFromPg(FromPostgres(pgErr("23502", "", "username"), "insert agent"))
	if e, _ := As(err); e.Field() != "username" {
		t.Fatalf("field = %q, want username", e.Field())
	}
}
