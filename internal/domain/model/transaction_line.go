package model

// 取引明細。商品のコード・名前・単価は販売時点のスナップショット。
// 後で商品が更新/削除されても変わらない。
type TransactionLine struct {
	TransactionID int64       `gorm:"column:trd_id;not null;index" json:"trd_id"`
	ID            int64       `gorm:"column:dtl_id;primaryKey;autoIncrement" json:"dtl_id"`
	ProductID     int64       `gorm:"column:prd_id;not null;index" json:"prd_id"`
	ProductCode   ProductCode `gorm:"column:prd_code;type:varchar(32);not null" json:"prd_code"`
	ProductName   string      `gorm:"column:prd_name;type:varchar(50);not null" json:"prd_name"`
	UnitPrice     int64       `gorm:"column:prd_price;not null" json:"prd_price"`
	Quantity      int64       `gorm:"not null" json:"quantity"`
	TaxCategory   string      `gorm:"column:tax_type;type:varchar(5);not null" json:"tax_type"`

	Transaction *Transaction `gorm:"foreignKey:TransactionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Product     *Product     `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (TransactionLine) TableName() string { return "transaction_details" }
