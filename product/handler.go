package product

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"pantrytrack/database"
	"pantrytrack/model"
	"pantrytrack/render"
	"pantrytrack/session"

	"github.com/jmoiron/sqlx"
)

func parseIDSuffix(path, prefix string) (int, bool) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func inputFromForm(r *http.Request) database.ProductInput {
	in := database.ProductInput{
		Name:   r.FormValue("name"),
		Origin: r.FormValue("origin"),
		Unit:   r.FormValue("unit"),
	}
	if categoryID, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64); err == nil && categoryID > 0 {
		in.CategoryID = sql.NullInt64{Int64: categoryID, Valid: true}
	}
	in.CurrentStock, _ = strconv.ParseFloat(r.FormValue("current_stock"), 64)
	in.ReorderLevel, _ = strconv.ParseFloat(r.FormValue("reorder_level"), 64)
	return in
}

// AddProductHandler は商品登録です (GET/POST /add_product)。
func AddProductHandler(db *sqlx.DB, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := database.GetAllCategories(db)
		if err != nil {
			log.Printf("failed to load categories: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		renderForm := func(notice string) {
			rnd.HTML(w, "add_product.html", struct {
				Categories []model.Category
				Notice     string
			}{categories, notice})
		}

		if r.Method == http.MethodPost {
			if err := database.CreateProduct(db, inputFromForm(r)); err != nil {
				var vErr *database.ValidationError
				if errors.As(err, &vErr) {
					renderForm("必須項目が入力されていません: " + vErr.Field)
					return
				}
				log.Printf("failed to create product: %v", err)
				renderForm("登録に失敗しました。時間をおいて再度お試しください。")
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		renderForm("")
	}
}

// EditProductHandler は編集画面です (GET /edit_product/{id})。
func EditProductHandler(db *sqlx.DB, rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDSuffix(r.URL.Path, "/edit_product/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		product, err := database.GetProduct(db, id)
		if errors.Is(err, database.ErrProductNotFound) {
			sess.AddFlash(w, r, "対象の商品が見つかりませんでした。")
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Printf("failed to load product %d for edit: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		categories, err := database.GetAllCategories(db)
		if err != nil {
			log.Printf("failed to load categories: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "edit_product.html", struct {
			Product    *model.Product
			Categories []model.Category
		}{product, categories})
	}
}

// UpdateProductHandler は編集内容の保存です (POST /update_product/{id})。
// 更新と修正履歴の追記を同じトランザクションで行います。
func UpdateProductHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := parseIDSuffix(r.URL.Path, "/update_product/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		in := inputFromForm(r)

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("failed to begin product update: %v", err)
			sess.AddFlash(w, r, "更新に失敗しました。時間をおいて再度お試しください。")
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		defer tx.Rollback()

		if err := updateWithLog(tx, id, sess.CurrentStaffID(r), in); err != nil {
			if errors.Is(err, database.ErrProductNotFound) {
				sess.AddFlash(w, r, "対象の商品が見つかりませんでした。")
			} else {
				var vErr *database.ValidationError
				if errors.As(err, &vErr) {
					sess.AddFlash(w, r, "必須項目が入力されていません: "+vErr.Field)
				} else {
					log.Printf("product update failed (ID: %d): %v", id, err)
					sess.AddFlash(w, r, "更新に失敗しました。時間をおいて再度お試しください。")
				}
			}
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("failed to commit product update (ID: %d): %v", id, err)
			sess.AddFlash(w, r, "更新に失敗しました。時間をおいて再度お試しください。")
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func updateWithLog(tx *sqlx.Tx, id, staffID int, in database.ProductInput) error {
	if err := database.UpdateProductInTx(tx, id, in); err != nil {
		return err
	}
	detail, err := model.MarshalDetail(model.EditDetail{
		Name:         in.Name,
		CurrentStock: in.CurrentStock,
		ReorderLevel: in.ReorderLevel,
		Unit:         in.Unit,
	})
	if err != nil {
		return err
	}
	return database.InsertLogInTx(tx, model.InventoryLog{
		ProductID: id,
		StaffID:   staffID,
		Action:    model.ActionEdit,
		Detail:    detail,
		Quantity:  0,
	})
}

// DeleteProductHandler は論理削除です (POST /delete_product/{id})。
// is_active を 0 にし、削除の印を履歴に残します。
func DeleteProductHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := parseIDSuffix(r.URL.Path, "/delete_product/")
		if !ok {
			http.NotFound(w, r)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("failed to begin product delete: %v", err)
			sess.AddFlash(w, r, "削除に失敗しました。時間をおいて再度お試しください。")
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		defer tx.Rollback()

		err = database.SoftDeleteProductInTx(tx, id)
		if err == nil {
			err = database.InsertLogInTx(tx, model.InventoryLog{
				ProductID: id,
				StaffID:   sess.CurrentStaffID(r),
				Action:    model.ActionDelete,
				Quantity:  0,
			})
		}
		if err == nil {
			err = tx.Commit()
		}
		if err != nil {
			if errors.Is(err, database.ErrProductNotFound) {
				sess.AddFlash(w, r, "対象の商品が見つかりませんでした。")
			} else {
				log.Printf("product delete failed (ID: %d): %v", id, err)
				sess.AddFlash(w, r, "削除に失敗しました。時間をおいて再度お試しください。")
			}
			http.Redirect(w, r, "/admin/manage_products", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// StockListHandler は印刷向けの在庫一覧です (GET /stock_list)。
func StockListHandler(db *sqlx.DB, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.GetActiveProducts(db, database.OrderNameAsc)
		if err != nil {
			log.Printf("failed to list products for stock list: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "stock_list.html", struct {
			Products []model.ProductView
		}{products})
	}
}
