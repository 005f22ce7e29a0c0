package model

import "time"

// 取引ヘッダ。購入1回につき1件。
// total_amountは作成時0で、同じ購入の最後に1回だけ確定値へ更新される。
type Transaction struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Datetime     time.Time `gorm:"not null;index" json:"datetime"`
	EmployeeCode string    `gorm:"column:emp_cd;type:varchar(10);not null" json:"emp_code"`
	StoreCode    string    `gorm:"column:store_cd;type:varchar(5);not null;index" json:"store_code"`
	TerminalCode string    `gorm:"column:pos_no;type:varchar(3);not null" json:"pos_no"`
	TotalAmount  int64     `gorm:"column:total_amt;not null" json:"total_amt"`
}

func (Transaction) TableName() string { return "transaction" }
