package db

import (
	"context"

	"pos/internal/domain/model"

	"gorm.io/gorm"
)

// Migrate はテーブルを作成/更新する。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Product{},
		&model.Transaction{},
		&model.TransactionLine{},
		&model.AuditLog{},
	)
}

// デモ用の商品マスタ（レジ画面の動作確認用）
var demoProducts = []model.Product{
	{Code: "1234567890123", Name: "ビール", Price: 220},
	{Code: "1234567890124", Name: "ティッシュ", Price: 275},
	{Code: "1234567890125", Name: "ヘアワックス", Price: 660},
	{Code: "1234567890126", Name: "お茶", Price: 165},
	{Code: "1234567890127", Name: "シュークリーム", Price: 242},
	{Code: "1234567890128", Name: "からあげ", Price: 253},
	{Code: "1234567890129", Name: "雑誌", Price: 550},
	{Code: "1234567890130", Name: "カップラーメン", Price: 231},
	{Code: "1234567890131", Name: "ビニール傘", Price: 550},
	{Code: "1234567890132", Name: "たばこ", Price: 770},
}

// SeedDemoProducts は未登録のデモ商品だけ追加する。追加した件数を返す。
func SeedDemoProducts(ctx context.Context, gdb *gorm.DB) (int, error) {
	created := 0
	for _, p := range demoProducts {
		//論理削除済みも「登録済み」とみなす
		var n int64
		if err := gdb.WithContext(ctx).Unscoped().Model(&model.Product{}).Where("code = ?", p.Code).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}
		if err := gdb.WithContext(ctx).Create(&p).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
