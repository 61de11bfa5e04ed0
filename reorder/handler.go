package reorder

import (
	"log"
	"net/http"

	"pantrytrack/database"
	"pantrytrack/model"
	"pantrytrack/render"
	"pantrytrack/session"

	"github.com/jmoiron/sqlx"
)

// ShoppingListHandler は補充が必要な商品の一覧です (GET /shopping_list)。
// 発注点以下かどうかはフラグではなく、表示のたびに再計算します。
func ShoppingListHandler(db *sqlx.DB, rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := database.GetShoppingList(db)
		if err != nil {
			log.Printf("failed to load shopping list: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "shopping_list.html", struct {
			Items    []model.ProductView
			Messages []string
		}{items, sess.Flashes(w, r)})
	}
}
