package database

import (
	"database/sql"
	"errors"
	"testing"

	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

func testInput(name string, stock, reorder float64) ProductInput {
	return ProductInput{
		Name:         name,
		Origin:       "北海道",
		CategoryID:   sql.NullInt64{Int64: 1, Valid: true},
		CurrentStock: stock,
		ReorderLevel: reorder,
		Unit:         "個",
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name      string
		input     ProductInput
		wantField string
	}{
		{"missing name", ProductInput{CategoryID: sql.NullInt64{Int64: 1, Valid: true}, Unit: "個"}, "name"},
		{"missing category", ProductInput{Name: "牛乳", Unit: "L"}, "category_id"},
		{"missing unit", ProductInput{Name: "牛乳", CategoryID: sql.NullInt64{Int64: 1, Valid: true}}, "unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateProduct(db, tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
			}
		})
	}
}

func TestCreateProductDefaults(t *testing.T) {
	db := newTestDB(t)

	id := mustCreateProduct(t, db, testInput("牛乳", 2, 3))
	product, err := GetProduct(db, id)
	if err != nil {
		t.Fatalf("failed to get product: %v", err)
	}
	if !product.IsActive {
		t.Error("new product should be active")
	}
	if product.TouchCount != 0 {
		t.Errorf("new product touch_count should be 0, got %d", product.TouchCount)
	}
}

func TestSoftDeleteHidesProductButKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	id := mustCreateProduct(t, db, testInput("小麦粉", 5, 1))

	inTx(t, db, func(tx *sqlx.Tx) error {
		return InsertLogInTx(tx, model.InventoryLog{
			ProductID: id, StaffID: 1, Action: model.ActionArrival, Quantity: 5,
		})
	})

	inTx(t, db, func(tx *sqlx.Tx) error {
		return SoftDeleteProductInTx(tx, id)
	})

	for _, order := range []ProductOrder{OrderUpdatedDesc, OrderNameAsc, OrderCategoryThenName} {
		products, err := GetActiveProducts(db, order)
		if err != nil {
			t.Fatalf("failed to list products (%s): %v", order, err)
		}
		for _, p := range products {
			if p.ID == id {
				t.Errorf("soft-deleted product still listed with order %s", order)
			}
		}
	}

	// 直接参照と履歴は残る
	product, err := GetProduct(db, id)
	if err != nil {
		t.Fatalf("soft-deleted product should remain fetchable: %v", err)
	}
	if product.IsActive {
		t.Error("product should be inactive after soft delete")
	}
	count, err := CountLogsForProduct(db, id)
	if err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 historical log row, got %d", count)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	db := newTestDB(t)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("failed to begin tx: %v", err)
	}
	defer tx.Rollback()

	err = UpdateProductInTx(tx, 999, testInput("存在しない", 0, 0))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReduceStockOneClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	id := mustCreateProduct(t, db, testInput("卵", 0, 2))

	inTx(t, db, func(tx *sqlx.Tx) error {
		return ReduceStockOneInTx(tx, id)
	})

	product, err := GetProduct(db, id)
	if err != nil {
		t.Fatalf("failed to get product: %v", err)
	}
	if product.CurrentStock != 0 {
		t.Errorf("stock should clamp at 0, got %v", product.CurrentStock)
	}
}

func TestSingleUnitPathsDoNotTouch(t *testing.T) {
	db := newTestDB(t)
	id := mustCreateProduct(t, db, testInput("味噌", 3, 1))

	inTx(t, db, func(tx *sqlx.Tx) error { return AddStockOneInTx(tx, id) })
	inTx(t, db, func(tx *sqlx.Tx) error { return ReduceStockOneInTx(tx, id) })

	product, err := GetProduct(db, id)
	if err != nil {
		t.Fatalf("failed to get product: %v", err)
	}
	if product.TouchCount != 0 {
		t.Errorf("single-unit paths must not bump touch_count, got %d", product.TouchCount)
	}
}

func TestSetStockQuantityBumpsTouchCountOnce(t *testing.T) {
	db := newTestDB(t)
	id := mustCreateProduct(t, db, testInput("醤油", 1, 1))

	inTx(t, db, func(tx *sqlx.Tx) error { return SetStockQuantityInTx(tx, id, 4) })

	product, err := GetProduct(db, id)
	if err != nil {
		t.Fatalf("failed to get product: %v", err)
	}
	if product.CurrentStock != 4 {
		t.Errorf("expected stock 4, got %v", product.CurrentStock)
	}
	if product.TouchCount != 1 {
		t.Errorf("expected touch_count 1, got %d", product.TouchCount)
	}
}

func TestShoppingListMembershipMovesWithEitherField(t *testing.T) {
	db := newTestDB(t)
	id := mustCreateProduct(t, db, testInput("米", 10, 3))

	if inShoppingList(t, db, id) {
		t.Fatal("product with stock above reorder level should not need restocking")
	}

	// 在庫を発注点ちょうどまで下げると載る
	inTx(t, db, func(tx *sqlx.Tx) error { return SetStockQuantityInTx(tx, id, 3) })
	if !inShoppingList(t, db, id) {
		t.Fatal("product at reorder level should need restocking")
	}

	// 発注点を下げると外れる
	in := testInput("米", 3, 1)
	inTx(t, db, func(tx *sqlx.Tx) error { return UpdateProductInTx(tx, id, in) })
	if inShoppingList(t, db, id) {
		t.Fatal("product above lowered reorder level should drop off the list")
	}
}

func TestCountLowStock(t *testing.T) {
	db := newTestDB(t)
	mustCreateProduct(t, db, testInput("牛乳", 1, 3))
	mustCreateProduct(t, db, testInput("塩", 10, 1))
	low := mustCreateProduct(t, db, testInput("砂糖", 0, 1))

	count, err := CountLowStock(db)
	if err != nil {
		t.Fatalf("failed to count low stock: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 low stock products, got %d", count)
	}

	// 論理削除した商品は数えない
	inTx(t, db, func(tx *sqlx.Tx) error { return SoftDeleteProductInTx(tx, low) })
	count, err = CountLowStock(db)
	if err != nil {
		t.Fatalf("failed to count low stock: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 low stock product after soft delete, got %d", count)
	}
}

func inShoppingList(t *testing.T, db *sqlx.DB, id int) bool {
	t.Helper()
	items, err := GetShoppingList(db)
	if err != nil {
		t.Fatalf("failed to get shopping list: %v", err)
	}
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func inTx(t *testing.T, db *sqlx.DB, fn func(tx *sqlx.Tx) error) {
	t.Helper()
	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("failed to begin tx: %v", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		t.Fatalf("tx operation failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit tx: %v", err)
	}
}
