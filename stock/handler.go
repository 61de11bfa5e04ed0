package stock

import (
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

// 画面に出すモードごとの文言と背景色です。
func selectTitle(action model.Action) string {
	switch action {
	case model.ActionArrival:
		return "何を買いましたか？"
	case model.ActionWaste:
		return "🥀 廃棄の記録"
	default:
		return "なにを使い切りましたか？"
	}
}

func entryTitle(action model.Action) string {
	switch action {
	case model.ActionArrival:
		return "✨ 買ってきた登録"
	case model.ActionWaste:
		return "🥀 廃棄の記録"
	default:
		return "☕ 使い切った登録"
	}
}

func bgColor(action model.Action) string {
	switch action {
	case model.ActionArrival:
		return "#fff3e0"
	case model.ActionWaste:
		return "#ffebee"
	default:
		return "#e3f2fd"
	}
}

func parseIDSuffix(path, prefix string) (int, bool) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// AddOneHandler はトップ画面の +1 ボタンです (POST /add_stock/{id})。
func AddOneHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := parseIDSuffix(r.URL.Path, "/add_stock/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := AddOne(db, id, sess.CurrentStaffID(r)); err != nil {
			log.Printf("add-one mutation failed (ID: %d): %v", id, err)
			sess.AddFlash(w, r, "在庫の更新に失敗しました。時間をおいて再度お試しください。")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ReduceOneHandler はトップ画面の -1 ボタンです (POST /reduce/{id})。
func ReduceOneHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := parseIDSuffix(r.URL.Path, "/reduce/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := ReduceOne(db, id, sess.CurrentStaffID(r)); err != nil {
			log.Printf("reduce-one mutation failed (ID: %d): %v", id, err)
			sess.AddFlash(w, r, "在庫の更新に失敗しました。時間をおいて再度お試しください。")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// SelectHandler は数量入力の対象商品を選ぶ画面です (GET /{mode}/select)。
// 出庫直後はここへ戻ってくるので、発注点の通知もこの画面で表示します。
func SelectHandler(db *sqlx.DB, rnd *render.Renderer, sess *session.Manager, action model.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.GetActiveProducts(db, database.OrderNameAsc)
		if err != nil {
			log.Printf("failed to list products for %s select: %v", action, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "choose_product.html", struct {
			Products []model.ProductView
			Mode     string
			Title    string
			BgColor  string
			Messages []string
		}{products, string(action), selectTitle(action), bgColor(action), sess.Flashes(w, r)})
	}
}

// EntryHandler は数量入力画面です (GET /{mode}/entry/{id})。
func EntryHandler(db *sqlx.DB, rnd *render.Renderer, action model.Action) http.HandlerFunc {
	prefix := "/" + string(action) + "/entry/"
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDSuffix(r.URL.Path, prefix)
		if !ok {
			http.NotFound(w, r)
			return
		}
		product, err := database.GetProduct(db, id)
		if errors.Is(err, database.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			log.Printf("failed to load product %d for %s entry: %v", id, action, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "entry_quantity.html", struct {
			Product *model.Product
			Mode    string
			Title   string
			BgColor string
		}{product, string(action), entryTitle(action), bgColor(action)})
	}
}

// ExecuteHandler は数量指定の在庫操作を適用します (POST /{mode}/execute/{id})。
// 出庫で在庫が発注点以下になった場合は通知をフラッシュに積みます。
func ExecuteHandler(db *sqlx.DB, sess *session.Manager, action model.Action) http.HandlerFunc {
	prefix := "/" + string(action) + "/execute/"
	selectPath := "/" + string(action) + "/select"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := parseIDSuffix(r.URL.Path, prefix)
		if !ok {
			http.NotFound(w, r)
			return
		}
		quantity, _ := strconv.ParseFloat(r.FormValue("quantity"), 64)

		advisory, err := ApplyQuantity(db, id, sess.CurrentStaffID(r), action, quantity)
		if errors.Is(err, database.ErrProductNotFound) {
			sess.AddFlash(w, r, "対象の商品が見つかりませんでした。")
			http.Redirect(w, r, selectPath, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Printf("%s mutation failed (ID: %d): %v", action, id, err)
			sess.AddFlash(w, r, "在庫の更新に失敗しました。時間をおいて再度お試しください。")
			http.Redirect(w, r, selectPath, http.StatusSeeOther)
			return
		}
		if advisory != nil {
			sess.AddFlash(w, r, advisory.Message())
		}
		http.Redirect(w, r, selectPath, http.StatusSeeOther)
	}
}

// BulkArrivalHandler はお買い物リストからの一括入庫です
// (POST /execute_bulk_arrival、フィールド名は qty_{商品ID})。
func BulkArrivalHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		quantities := make(map[int]float64)
		for key, values := range r.PostForm {
			if !strings.HasPrefix(key, "qty_") {
				continue
			}
			id, err := strconv.Atoi(strings.TrimPrefix(key, "qty_"))
			if err != nil {
				continue
			}
			if len(values) == 0 || values[0] == "" {
				continue
			}
			quantity, err := strconv.ParseFloat(values[0], 64)
			if err != nil {
				continue
			}
			quantities[id] = quantity
		}

		applied, err := ApplyBulkArrival(db, sess.CurrentStaffID(r), quantities)
		if err != nil {
			log.Printf("bulk arrival failed: %v", err)
			sess.AddFlash(w, r, "一括入庫に失敗しました。時間をおいて再度お試しください。")
			http.Redirect(w, r, "/shopping_list", http.StatusSeeOther)
			return
		}
		if applied > 0 {
			sess.AddFlash(w, r, strconv.Itoa(applied)+"件の商品を入庫しました。")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
