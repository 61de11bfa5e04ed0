package database

import (
	"fmt"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

// InsertLogInTx は在庫履歴を 1 行追記します。履歴は追記専用で、
// 在庫を動かす更新と必ず同じトランザクションで呼び出します。
func InsertLogInTx(tx *sqlx.Tx, entry model.InventoryLog) error {
	const q = `
		INSERT INTO inventory_logs (product_id, staff_id, action, detail, quantity)
		VALUES (?, ?, ?, ?, ?)`
	_, err := tx.Exec(q, entry.ProductID, entry.StaffID, entry.Action, entry.Detail, entry.Quantity)
	if err != nil {
		return fmt.Errorf("InsertLogInTx (ProductID: %d, Action: %s) failed: %w", entry.ProductID, entry.Action, err)
	}
	return nil
}

// GetAllLogs は全履歴を商品名・スタッフ名付きで新しい順に返します。
// 絞り込みやページングは行いません。
func GetAllLogs(db *sqlx.DB) ([]model.InventoryLogView, error) {
	const q = `
		SELECT l.*, p.name AS product_name, s.name AS staff_name
		FROM inventory_logs l
		JOIN products p ON l.product_id = p.id
		JOIN staffs s ON l.staff_id = s.id
		ORDER BY l.created_at DESC, l.id DESC`

	var logs []model.InventoryLogView
	if err := db.Select(&logs, q); err != nil {
		return nil, fmt.Errorf("failed to get inventory logs: %w", err)
	}
	return logs, nil
}

// CountLogsForProduct は指定商品の履歴件数を返します。
func CountLogsForProduct(db *sqlx.DB, productID int) (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM inventory_logs WHERE product_id = ?", productID)
	if err != nil {
		return 0, fmt.Errorf("failed to count logs for product %d: %w", productID, err)
	}
	return count, nil
}
