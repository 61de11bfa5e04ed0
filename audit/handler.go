package audit

import (
	"log"
	"net/http"

	"pantrytrack/database"
	"pantrytrack/model"
	"pantrytrack/render"

	"github.com/jmoiron/sqlx"
)

// ListLogsHandler は在庫履歴の一覧です (GET /logs)。
// 履歴は追記専用で、この画面は読み取りのみです。
func ListLogsHandler(db *sqlx.DB, rnd *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := database.GetAllLogs(db)
		if err != nil {
			log.Printf("failed to load inventory logs: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "logs.html", struct {
			Logs []model.InventoryLogView
		}{logs})
	}
}
