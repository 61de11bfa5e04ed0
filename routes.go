package main

import (
	"net/http"

	"pantrytrack/admin"
	"pantrytrack/audit"
	"pantrytrack/model"
	"pantrytrack/product"
	"pantrytrack/render"
	"pantrytrack/reorder"
	"pantrytrack/session"
	"pantrytrack/stock"

	"github.com/jmoiron/sqlx"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, rnd *render.Renderer, sess *session.Manager) {

	// 商品登録・編集・論理削除
	mux.HandleFunc("/add_product", product.AddProductHandler(dbConn, rnd))
	mux.HandleFunc("/edit_product/", product.EditProductHandler(dbConn, rnd, sess))
	mux.HandleFunc("/update_product/", product.UpdateProductHandler(dbConn, sess))
	mux.HandleFunc("/delete_product/", product.DeleteProductHandler(dbConn, sess))
	mux.HandleFunc("/stock_list", product.StockListHandler(dbConn, rnd))

	// トップ画面のクイック入出庫 (+1 / -1)
	mux.HandleFunc("/add_stock/", stock.AddOneHandler(dbConn, sess))
	mux.HandleFunc("/reduce/", stock.ReduceOneHandler(dbConn, sess))

	// 数量指定の在庫操作 (入庫・出庫・廃棄): 選択 → 数量入力 → 実行
	for _, action := range []model.Action{model.ActionArrival, model.ActionDeparture, model.ActionWaste} {
		mode := string(action)
		mux.HandleFunc("/"+mode+"/select", stock.SelectHandler(dbConn, rnd, sess, action))
		mux.HandleFunc("/"+mode+"/entry/", stock.EntryHandler(dbConn, rnd, action))
		mux.HandleFunc("/"+mode+"/execute/", stock.ExecuteHandler(dbConn, sess, action))
	}

	// お買い物リストと一括入庫
	mux.HandleFunc("/shopping_list", reorder.ShoppingListHandler(dbConn, rnd, sess))
	mux.HandleFunc("/shopping_list/export_csv", reorder.ExportShoppingListCSVHandler(dbConn))
	mux.HandleFunc("/execute_bulk_arrival", stock.BulkArrivalHandler(dbConn, sess))

	// 在庫履歴
	mux.HandleFunc("/logs", audit.ListLogsHandler(dbConn, rnd))

	// 管理画面
	mux.HandleFunc("/admin", admin.MenuHandler(rnd, sess))
	mux.HandleFunc("/admin/manage_products", admin.ManageProductsHandler(dbConn, rnd, sess))
	mux.HandleFunc("/admin/add_staff", admin.AddStaffHandler(dbConn, rnd, sess))
	mux.HandleFunc("/admin/switch_staff", admin.SwitchStaffHandler(dbConn, sess))
	mux.HandleFunc("/admin/config", admin.ConfigHandler(rnd, sess))
	mux.HandleFunc("/admin/manage_staffs", admin.PlaceholderHandler("スタッフ管理画面（準備中）"))
	mux.HandleFunc("/admin/add_category", admin.PlaceholderHandler("カテゴリ登録画面（準備中）"))
	mux.HandleFunc("/admin/manage_categories", admin.PlaceholderHandler("カテゴリ管理画面（準備中）"))
}
