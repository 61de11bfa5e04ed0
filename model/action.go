package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Action は inventory_logs に記録する操作種別です。
// 自由記述ではなく閉じたコードとして保存し、表示名はここで解決します。
type Action string

const (
	ActionArrival     Action = "arrival"      // 入庫
	ActionDeparture   Action = "departure"    // 出庫
	ActionWaste       Action = "waste"        // 廃棄
	ActionBulkArrival Action = "bulk_arrival" // お買い物リストからの一括入庫
	ActionEdit        Action = "edit"         // 商品情報の修正
	ActionDelete      Action = "delete"       // 論理削除
)

var actionLabels = map[Action]string{
	ActionArrival:     "入庫",
	ActionDeparture:   "出庫",
	ActionWaste:       "廃棄",
	ActionBulkArrival: "一括入庫",
	ActionEdit:        "修正",
	ActionDelete:      "商品削除",
}

// Label は履歴画面に表示する日本語ラベルを返します。
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid は閉じた列挙に含まれるコードかどうかを返します。
func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

// StockDetail は在庫数を動かした操作の前後の値です。
// inventory_logs.detail に JSON で格納します。
type StockDetail struct {
	StockBefore float64 `json:"stockBefore"`
	StockAfter  float64 `json:"stockAfter"`
}

// EditDetail は商品修正後の値一式です。履歴から文面を解析しなくても
// 変更内容を復元できるように、構造化して格納します。
type EditDetail struct {
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	ReorderLevel float64 `json:"reorderLevel"`
	Unit         string  `json:"unit"`
}

// MarshalDetail は detail ペイロードを inventory_logs.detail 用の
// NULL 許容文字列に変換します。nil はそのまま NULL になります。
func MarshalDetail(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal log detail: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
