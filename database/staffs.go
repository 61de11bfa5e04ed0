package database

import (
	"fmt"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

func GetAllStaffs(db *sqlx.DB) ([]model.Staff, error) {
	var staffs []model.Staff
	err := db.Select(&staffs, "SELECT id, name, role FROM staffs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get all staffs: %w", err)
	}
	return staffs, nil
}

func CreateStaff(db *sqlx.DB, name, role string) error {
	if name == "" {
		return &ValidationError{Field: "name"}
	}
	if role == "" {
		role = "staff"
	}
	const q = `INSERT INTO staffs (name, role) VALUES (?, ?)`
	if _, err := db.Exec(q, name, role); err != nil {
		return fmt.Errorf("CreateStaff (Name: %s) failed: %w", name, err)
	}
	return nil
}
