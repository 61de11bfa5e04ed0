package database

import (
	"errors"
	"fmt"
)

// 参照先が見つからないときの番兵エラー。ハンドラー側で
// errors.Is で判定し、管理一覧へのリダイレクトに変換します。
var ErrProductNotFound = errors.New("product not found")

// ValidationError は必須項目が欠けている登録・更新入力を表します。
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}
