package reorder

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"pantrytrack/database"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// BuildShoppingListCSV はお買い物リストを Shift_JIS の CSV にします。
// 表計算ソフト (日本語環境) でそのまま開ける形式です。
func BuildShoppingListCSV(items []model.ProductView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(transform.NewWriter(&buf, japanese.ShiftJIS.NewEncoder()))

	header := []string{"商品名", "カテゴリ", "現在庫", "発注点", "単位"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range items {
		categoryName := ""
		if item.CategoryName.Valid {
			categoryName = item.CategoryName.String
		}
		record := []string{
			item.Name,
			categoryName,
			strconv.FormatFloat(item.CurrentStock, 'f', -1, 64),
			strconv.FormatFloat(item.ReorderLevel, 'f', -1, 64),
			item.Unit,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for %s: %w", item.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportShoppingListCSVHandler はお買い物リストの CSV ダウンロードです
// (GET /shopping_list/export_csv)。
func ExportShoppingListCSVHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := database.GetShoppingList(db)
		if err != nil {
			log.Printf("failed to load shopping list for CSV export: %v", err)
			http.Error(w, "Failed to export shopping list", http.StatusInternalServerError)
			return
		}
		data, err := BuildShoppingListCSV(items)
		if err != nil {
			log.Printf("failed to build shopping list CSV: %v", err)
			http.Error(w, "Failed to export shopping list", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("shopping_list_%s.csv", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if _, err := w.Write(data); err != nil {
			log.Printf("failed to write CSV response: %v", err)
		}
	}
}
