package model

import "database/sql"

type Category struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Staff struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Role string `db:"role" json:"role"`
}

type Product struct {
	ID           int           `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Origin       string        `db:"origin" json:"origin"`
	CategoryID   sql.NullInt64 `db:"category_id" json:"categoryId"`
	CurrentStock float64       `db:"current_stock" json:"currentStock"`
	ReorderLevel float64       `db:"reorder_level" json:"reorderLevel"`
	Unit         string        `db:"unit" json:"unit"`
	IsActive     bool          `db:"is_active" json:"isActive"`
	UpdatedAt    string        `db:"updated_at" json:"updatedAt"`
	TouchCount   int           `db:"touch_count" json:"touchCount"`
}

// NeedsReorder は発注点以下かどうかを読み取り時に判定します。
// フラグとしては保存せず、常に再計算します。
func (p Product) NeedsReorder() bool {
	return p.CurrentStock <= p.ReorderLevel
}

// ProductView は一覧表示用にカテゴリ名を結合したものです。
type ProductView struct {
	Product
	CategoryName sql.NullString `db:"category_name" json:"categoryName"`
}

type InventoryLog struct {
	ID        int            `db:"id" json:"id"`
	ProductID int            `db:"product_id" json:"productId"`
	StaffID   int            `db:"staff_id" json:"staffId"`
	Action    Action         `db:"action" json:"action"`
	Detail    sql.NullString `db:"detail" json:"detail"`
	Quantity  float64        `db:"quantity" json:"quantity"`
	CreatedAt string         `db:"created_at" json:"createdAt"`
}

// InventoryLogView は履歴画面用に商品名・スタッフ名を結合したものです。
type InventoryLogView struct {
	InventoryLog
	ProductName string `db:"product_name" json:"productName"`
	StaffName   string `db:"staff_name" json:"staffName"`
}
