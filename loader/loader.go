package loader

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
)

// InitDatabase はデータベーススキーマを適用します。schema.sql は
// CREATE TABLE IF NOT EXISTS / INSERT OR IGNORE で書かれているため、
// 起動のたびに実行しても安全です。
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if err := applySchema(db); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")
	return nil
}

// applySchema は schema.sql ファイルを読み込んで実行します。
func applySchema(db *sqlx.DB) error {
	schemaBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("could not read schema.sql: %w", err)
	}
	_, err = db.Exec(string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
