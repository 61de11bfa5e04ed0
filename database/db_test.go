package database

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// newTestDB はスキーマ適用済みのインメモリ DB を返します。
// :memory: は接続ごとに別の DB になるため、接続数を 1 に固定します。
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schemaBytes, err := os.ReadFile("../schema.sql")
	if err != nil {
		t.Fatalf("failed to read schema.sql: %v", err)
	}
	if _, err := db.Exec(string(schemaBytes)); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}

func mustCreateProduct(t *testing.T, db *sqlx.DB, in ProductInput) int {
	t.Helper()
	if err := CreateProduct(db, in); err != nil {
		t.Fatalf("failed to create product %q: %v", in.Name, err)
	}
	var id int
	if err := db.Get(&id, "SELECT id FROM products WHERE name = ? ORDER BY id DESC LIMIT 1", in.Name); err != nil {
		t.Fatalf("failed to look up product %q: %v", in.Name, err)
	}
	return id
}
