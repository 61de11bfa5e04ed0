package database

import (
	"fmt"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

func GetAllCategories(db *sqlx.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.Select(&categories, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}
