package stock

import (
	"errors"
	"fmt"
	"sort"

	"pantrytrack/database"
	"pantrytrack/model"

	"github.com/jmoiron/sqlx"
)

// Advisory は出庫の結果、在庫が発注点以下になったことを知らせる通知です。
// 操作をブロックするものではなく、画面にメッセージを出すための情報です。
// 既に発注点以下だったかどうかは見ず、条件を満たす出庫のたびに発生します。
type Advisory struct {
	ProductName  string
	CurrentStock float64
	ReorderLevel float64
}

func (a *Advisory) Message() string {
	return fmt.Sprintf("「%s」の在庫が残りわずかです。お買い物リストに追加しました。", a.ProductName)
}

// ApplyQuantityInTx は数量指定の在庫操作 (入庫・出庫・廃棄・一括入庫) を
// 1 件適用します。在庫の更新と履歴の追記は同じトランザクションで行い、
// どちらかが失敗した場合は呼び出し側のロールバックで両方とも取り消されます。
//
// 符号は action で決まります: 入庫系は加算、出庫と廃棄は減算。
// このパスでは 0 未満への切り上げは行わず、touch_count を 1 回だけ増やします。
func ApplyQuantityInTx(tx *sqlx.Tx, productID, staffID int, action model.Action, quantity float64) (*Advisory, error) {
	product, err := database.GetProductInTx(tx, productID)
	if err != nil {
		return nil, err
	}

	var newStock float64
	switch action {
	case model.ActionArrival, model.ActionBulkArrival:
		newStock = product.CurrentStock + quantity
	case model.ActionDeparture, model.ActionWaste:
		newStock = product.CurrentStock - quantity
	default:
		return nil, fmt.Errorf("action %q is not a quantity mutation", action)
	}

	if err := database.SetStockQuantityInTx(tx, productID, newStock); err != nil {
		return nil, err
	}

	detail, err := model.MarshalDetail(model.StockDetail{
		StockBefore: product.CurrentStock,
		StockAfter:  newStock,
	})
	if err != nil {
		return nil, err
	}

	if err := database.InsertLogInTx(tx, model.InventoryLog{
		ProductID: productID,
		StaffID:   staffID,
		Action:    action,
		Detail:    detail,
		Quantity:  quantity,
	}); err != nil {
		return nil, err
	}

	if action == model.ActionDeparture && newStock <= product.ReorderLevel {
		return &Advisory{
			ProductName:  product.Name,
			CurrentStock: newStock,
			ReorderLevel: product.ReorderLevel,
		}, nil
	}
	return nil, nil
}

// ApplyQuantity は ApplyQuantityInTx をトランザクション込みで実行します。
func ApplyQuantity(db *sqlx.DB, productID, staffID int, action model.Action, quantity float64) (*Advisory, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin quantity mutation: %w", err)
	}
	defer tx.Rollback()

	advisory, err := ApplyQuantityInTx(tx, productID, staffID, action, quantity)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quantity mutation: %w", err)
	}
	return advisory, nil
}

// AddOne はクイック入庫ボタンの +1 操作です。touch_count は動かしません。
func AddOne(db *sqlx.DB, productID, staffID int) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin add-one mutation: %w", err)
	}
	defer tx.Rollback()

	if err := database.AddStockOneInTx(tx, productID); err != nil {
		return err
	}
	if err := database.InsertLogInTx(tx, model.InventoryLog{
		ProductID: productID,
		StaffID:   staffID,
		Action:    model.ActionArrival,
		Quantity:  1.0,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// ReduceOne はクイック出庫ボタンの -1 操作です。在庫は 0 で止まりますが、
// 履歴には意図した操作量としてそのまま 1.0 を記録します。
func ReduceOne(db *sqlx.DB, productID, staffID int) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin reduce-one mutation: %w", err)
	}
	defer tx.Rollback()

	if err := database.ReduceStockOneInTx(tx, productID); err != nil {
		return err
	}
	if err := database.InsertLogInTx(tx, model.InventoryLog{
		ProductID: productID,
		StaffID:   staffID,
		Action:    model.ActionDeparture,
		Quantity:  1.0,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplyBulkArrival はお買い物リストからの一括入庫です。全商品分を 1 つの
// トランザクションで適用し、適用した件数を返します。数量 0 以下・存在しない
// 商品・論理削除済みの商品は黙って読み飛ばします (エラーにはしません)。
func ApplyBulkArrival(db *sqlx.DB, staffID int, quantities map[int]float64) (int, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk arrival: %w", err)
	}
	defer tx.Rollback()

	// マップの反復順は不定なので、履歴が再現可能になるよう ID 順に揃えます。
	ids := make([]int, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	applied := 0
	for _, id := range ids {
		quantity := quantities[id]
		if quantity <= 0 {
			continue
		}
		product, err := database.GetProductInTx(tx, id)
		if errors.Is(err, database.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if !product.IsActive {
			continue
		}
		if _, err := ApplyQuantityInTx(tx, id, staffID, model.ActionBulkArrival, quantity); err != nil {
			return 0, err
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk arrival: %w", err)
	}
	return applied, nil
}
