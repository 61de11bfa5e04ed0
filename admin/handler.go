package admin

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"pantrytrack/config"
	"pantrytrack/database"
	"pantrytrack/model"
	"pantrytrack/render"
	"pantrytrack/session"

	"github.com/jmoiron/sqlx"
)

// MenuHandler は管理メニューです (GET /admin)。
func MenuHandler(rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.HTML(w, "admin_menu.html", struct {
			Messages []string
		}{sess.Flashes(w, r)})
	}
}

// ManageProductsHandler は商品管理の一覧です (GET /admin/manage_products)。
// カテゴリ → 商品名の順に並べます。
func ManageProductsHandler(db *sqlx.DB, rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.GetActiveProducts(db, database.OrderCategoryThenName)
		if err != nil {
			log.Printf("failed to list products for management: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		rnd.HTML(w, "manage_products.html", struct {
			Products []model.ProductView
			Messages []string
		}{products, sess.Flashes(w, r)})
	}
}

// AddStaffHandler はスタッフ登録です (GET/POST /admin/add_staff)。
// role が未指定のときは "staff" になります。
func AddStaffHandler(db *sqlx.DB, rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderForm := func(notice string) {
			staffs, err := database.GetAllStaffs(db)
			if err != nil {
				log.Printf("failed to list staffs: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			rnd.HTML(w, "add_staff.html", struct {
				Staffs         []model.Staff
				Notice         string
				Messages       []string
				CurrentStaffID int
			}{staffs, notice, sess.Flashes(w, r), sess.CurrentStaffID(r)})
		}

		if r.Method == http.MethodPost {
			name := r.FormValue("name")
			role := r.FormValue("role")
			if err := database.CreateStaff(db, name, role); err != nil {
				var vErr *database.ValidationError
				if errors.As(err, &vErr) {
					renderForm("必須項目が入力されていません: " + vErr.Field)
					return
				}
				log.Printf("failed to create staff: %v", err)
				sess.AddFlash(w, r, "スタッフの登録に失敗しました。時間をおいて再度お試しください。")
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		renderForm("")
	}
}

// SwitchStaffHandler は操作スタッフを切り替えます (POST /admin/switch_staff)。
// 切り替え後の在庫操作は選択したスタッフ名義で履歴に残ります。
func SwitchStaffHandler(db *sqlx.DB, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		staffID, err := strconv.Atoi(r.FormValue("staff_id"))
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		staffs, err := database.GetAllStaffs(db)
		if err != nil {
			log.Printf("failed to list staffs for switch: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		var selected *model.Staff
		for i := range staffs {
			if staffs[i].ID == staffID {
				selected = &staffs[i]
				break
			}
		}
		if selected == nil {
			sess.AddFlash(w, r, "指定されたスタッフが見つかりません。")
			http.Redirect(w, r, "/admin/add_staff", http.StatusSeeOther)
			return
		}
		sess.SetStaffID(w, r, selected.ID)
		sess.AddFlash(w, r, "担当スタッフを「"+selected.Name+"」に切り替えました。")
		http.Redirect(w, r, "/admin/add_staff", http.StatusSeeOther)
	}
}

// ConfigHandler は設定の表示と保存です (GET/POST /admin/config)。
// 待ち受けアドレスとデータベースパスの変更は再起動後に反映されます。
func ConfigHandler(rnd *render.Renderer, sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderForm := func(c config.Config, notice string) {
			rnd.HTML(w, "admin_config.html", struct {
				Config config.Config
				Notice string
			}{c, notice})
		}

		if r.Method == http.MethodPost {
			newCfg := config.Config{
				ListenAddr:    r.FormValue("listenAddr"),
				DatabasePath:  r.FormValue("databasePath"),
				SessionSecret: r.FormValue("sessionSecret"),
				OpenBrowser:   r.FormValue("openBrowser") == "on",
			}
			staffID, err := strconv.Atoi(r.FormValue("defaultStaffID"))
			if err != nil || staffID < 1 {
				renderForm(newCfg, "既定スタッフ ID は 1 以上の数値で入力してください。")
				return
			}
			newCfg.DefaultStaffID = staffID
			if err := config.SaveConfig(newCfg); err != nil {
				log.Printf("failed to save config: %v", err)
				renderForm(newCfg, "設定の保存に失敗しました。")
				return
			}
			sess.AddFlash(w, r, "設定を保存しました。アドレスとデータベースの変更は再起動後に反映されます。")
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		renderForm(config.GetConfig(), "")
	}
}

// 準備中の管理画面です。ルートだけ確保しています。
func PlaceholderHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(message)); err != nil {
			log.Printf("failed to write placeholder response: %v", err)
		}
	}
}
