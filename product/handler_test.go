package product

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"pantrytrack/database"
	"pantrytrack/model"
	"pantrytrack/session"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

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

func createProduct(t *testing.T, db *sqlx.DB, name string, stock, reorder float64, unit string) int {
	t.Helper()
	in := database.ProductInput{
		Name:         name,
		CategoryID:   sql.NullInt64{Int64: 1, Valid: true},
		CurrentStock: stock,
		ReorderLevel: reorder,
		Unit:         unit,
	}
	if err := database.CreateProduct(db, in); err != nil {
		t.Fatalf("failed to create product %q: %v", name, err)
	}
	var id int
	if err := db.Get(&id, "SELECT id FROM products WHERE name = ? ORDER BY id DESC LIMIT 1", name); err != nil {
		t.Fatalf("failed to look up product %q: %v", name, err)
	}
	return id
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func lastLog(t *testing.T, db *sqlx.DB, productID int) model.InventoryLog {
	t.Helper()
	var entry model.InventoryLog
	err := db.Get(&entry, "SELECT * FROM inventory_logs WHERE product_id = ? ORDER BY id DESC LIMIT 1", productID)
	if err != nil {
		t.Fatalf("failed to get last log for product %d: %v", productID, err)
	}
	return entry
}

func logCount(t *testing.T, db *sqlx.DB, productID int) int {
	t.Helper()
	count, err := database.CountLogsForProduct(db, productID)
	if err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	return count
}

func TestUpdateProductHandlerWritesEditLog(t *testing.T) {
	db := newTestDB(t)
	sess := session.NewManager("test-secret", 1)
	id := createProduct(t, db, "小麦粉", 3, 1, "kg")

	form := url.Values{
		"name":          {"強力粉"},
		"category_id":   {"1"},
		"current_stock": {"5"},
		"reorder_level": {"2"},
		"unit":          {"袋"},
	}
	handler := UpdateProductHandler(db, sess)
	rec := postForm(t, handler, fmt.Sprintf("/update_product/%d", id), form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}

	product, err := database.GetProduct(db, id)
	if err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if product.Name != "強力粉" || product.CurrentStock != 5 || product.ReorderLevel != 2 || product.Unit != "袋" {
		t.Errorf("product not updated: %+v", product)
	}

	if got := logCount(t, db, id); got != 1 {
		t.Fatalf("log rows = %d, want 1", got)
	}
	entry := lastLog(t, db, id)
	if entry.Action != model.ActionEdit {
		t.Errorf("action = %s, want %s", entry.Action, model.ActionEdit)
	}
	if entry.Quantity != 0 {
		t.Errorf("quantity = %v, want 0", entry.Quantity)
	}
	if !entry.Detail.Valid {
		t.Fatal("edit log should carry a detail payload")
	}
	var detail model.EditDetail
	if err := json.Unmarshal([]byte(entry.Detail.String), &detail); err != nil {
		t.Fatalf("failed to decode edit detail %q: %v", entry.Detail.String, err)
	}
	want := model.EditDetail{Name: "強力粉", CurrentStock: 5, ReorderLevel: 2, Unit: "袋"}
	if detail != want {
		t.Errorf("detail = %+v, want %+v", detail, want)
	}
}

func TestUpdateProductHandlerUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	sess := session.NewManager("test-secret", 1)

	form := url.Values{
		"name":          {"幻の商品"},
		"category_id":   {"1"},
		"current_stock": {"1"},
		"reorder_level": {"0"},
		"unit":          {"個"},
	}
	handler := UpdateProductHandler(db, sess)
	rec := postForm(t, handler, "/update_product/999", form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/manage_products" {
		t.Errorf("redirect location = %q, want /admin/manage_products", loc)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM inventory_logs"); err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	if count != 0 {
		t.Errorf("log rows = %d, want 0", count)
	}
}

func TestDeleteProductHandlerWritesDeleteLog(t *testing.T) {
	db := newTestDB(t)
	sess := session.NewManager("test-secret", 1)
	id := createProduct(t, db, "賞味期限切れジャム", 1, 0, "瓶")

	handler := DeleteProductHandler(db, sess)
	rec := postForm(t, handler, fmt.Sprintf("/delete_product/%d", id), url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var isActive bool
	if err := db.Get(&isActive, "SELECT is_active FROM products WHERE id = ?", id); err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if isActive {
		t.Error("product should be inactive after delete")
	}

	if got := logCount(t, db, id); got != 1 {
		t.Fatalf("log rows = %d, want 1", got)
	}
	entry := lastLog(t, db, id)
	if entry.Action != model.ActionDelete {
		t.Errorf("action = %s, want %s", entry.Action, model.ActionDelete)
	}
	if entry.Quantity != 0 {
		t.Errorf("quantity = %v, want 0", entry.Quantity)
	}
	if entry.Detail.Valid {
		t.Errorf("delete log should not carry a detail payload, got %q", entry.Detail.String)
	}
}

func TestDeleteProductHandlerRejectsGet(t *testing.T) {
	db := newTestDB(t)
	sess := session.NewManager("test-secret", 1)

	handler := DeleteProductHandler(db, sess)
	req := httptest.NewRequest(http.MethodGet, "/delete_product/1", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
