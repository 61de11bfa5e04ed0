package database

import (
	"database/sql"
	"fmt"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

// ProductOrder は商品一覧の並び順キーです。
type ProductOrder string

const (
	OrderUpdatedDesc      ProductOrder = "updated_desc"  // 在庫一覧 (最終更新が新しい順)
	OrderNameAsc          ProductOrder = "name_asc"      // 商品選択画面
	OrderCategoryThenName ProductOrder = "category_name" // 商品管理画面
)

func orderClause(order ProductOrder) string {
	switch order {
	case OrderNameAsc:
		return "ORDER BY p.name"
	case OrderCategoryThenName:
		return "ORDER BY p.category_id, p.name"
	default:
		return "ORDER BY p.updated_at DESC"
	}
}

// GetActiveProducts は is_active=1 の商品をカテゴリ名付きで返します。
// 論理削除済みの商品は一覧に含まれません。
func GetActiveProducts(db *sqlx.DB, order ProductOrder) ([]model.ProductView, error) {
	q := fmt.Sprintf(`
		SELECT p.*, c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = 1
		%s`, orderClause(order))

	var products []model.ProductView
	if err := db.Select(&products, q); err != nil {
		return nil, fmt.Errorf("failed to get active products: %w", err)
	}
	return products, nil
}

func GetProduct(db *sqlx.DB, id int) (*model.Product, error) {
	var product model.Product
	err := db.Get(&product, "SELECT * FROM products WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// GetProductInTx はトランザクション内で在庫操作の対象商品を読み込みます。
func GetProductInTx(tx *sqlx.Tx, id int) (*model.Product, error) {
	var product model.Product
	err := tx.Get(&product, "SELECT * FROM products WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d in tx: %w", id, err)
	}
	return &product, nil
}

// ProductInput は登録・編集フォームから受け取る商品項目です。
type ProductInput struct {
	Name         string
	Origin       string
	CategoryID   sql.NullInt64
	CurrentStock float64
	ReorderLevel float64
	Unit         string
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if !in.CategoryID.Valid {
		return &ValidationError{Field: "category_id"}
	}
	if in.Unit == "" {
		return &ValidationError{Field: "unit"}
	}
	return nil
}

// CreateProduct は新しい商品を登録します。is_active=1, touch_count=0 で開始します。
func CreateProduct(db *sqlx.DB, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	const q = `
		INSERT INTO products (name, origin, category_id, current_stock, reorder_level, unit, is_active, updated_at, touch_count)
		VALUES (?, ?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP, 0)`
	_, err := db.Exec(q, in.Name, in.Origin, in.CategoryID, in.CurrentStock, in.ReorderLevel, in.Unit)
	if err != nil {
		return fmt.Errorf("CreateProduct (Name: %s) failed: %w", in.Name, err)
	}
	return nil
}

// UpdateProductInTx は編集フォームの内容で商品を上書きします。
// 対象が存在しなければ ErrProductNotFound を返します。
func UpdateProductInTx(tx *sqlx.Tx, id int, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	const q = `
		UPDATE products
		SET name = ?, origin = ?, category_id = ?, current_stock = ?, reorder_level = ?, unit = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := tx.Exec(q, in.Name, in.Origin, in.CategoryID, in.CurrentStock, in.ReorderLevel, in.Unit, id)
	if err != nil {
		return fmt.Errorf("UpdateProductInTx (ID: %d) failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateProductInTx (ID: %d) rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SoftDeleteProductInTx は is_active を 0 にします。物理削除はしません。
func SoftDeleteProductInTx(tx *sqlx.Tx, id int) error {
	res, err := tx.Exec("UPDATE products SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("SoftDeleteProductInTx (ID: %d) failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SoftDeleteProductInTx (ID: %d) rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AddStockOneInTx は在庫を 1 だけ増やします (クイック入庫ボタン)。
// touch_count は増やしません。
func AddStockOneInTx(tx *sqlx.Tx, id int) error {
	res, err := tx.Exec("UPDATE products SET current_stock = current_stock + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("AddStockOneInTx (ID: %d) failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("AddStockOneInTx (ID: %d) rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReduceStockOneInTx は在庫を 1 だけ減らします (クイック出庫ボタン)。
// 0 を下回らないように MAX(0, ...) で切り上げます。touch_count は増やしません。
func ReduceStockOneInTx(tx *sqlx.Tx, id int) error {
	res, err := tx.Exec("UPDATE products SET current_stock = MAX(0, current_stock - 1) WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("ReduceStockOneInTx (ID: %d) failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReduceStockOneInTx (ID: %d) rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetStockQuantityInTx は数量入力経由の在庫更新です。更新日時を進め、
// touch_count をちょうど 1 回だけ増やします。
func SetStockQuantityInTx(tx *sqlx.Tx, id int, newStock float64) error {
	const q = `
		UPDATE products
		SET current_stock = ?,
		    updated_at = CURRENT_TIMESTAMP,
		    touch_count = touch_count + 1
		WHERE id = ?`
	res, err := tx.Exec(q, newStock, id)
	if err != nil {
		return fmt.Errorf("SetStockQuantityInTx (ID: %d) failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SetStockQuantityInTx (ID: %d) rows affected: %w", id, err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// CountLowStock は発注点以下の商品数を返します (トップ画面のバッジ用)。
func CountLowStock(db *sqlx.DB) (int, error) {
	var count int
	const q = `
		SELECT COUNT(*) FROM products
		WHERE is_active = 1 AND current_stock <= reorder_level`
	if err := db.Get(&count, q); err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return count, nil
}

// GetShoppingList は補充が必要な商品 (current_stock <= reorder_level) を
// カテゴリ名付きで返します。判定は毎回読み取り時に行います。
func GetShoppingList(db *sqlx.DB) ([]model.ProductView, error) {
	const q = `
		SELECT p.*, c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = 1 AND p.current_stock <= p.reorder_level
		ORDER BY p.category_id, p.name`

	var items []model.ProductView
	if err := db.Select(&items, q); err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return items, nil
}
