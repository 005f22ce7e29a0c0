package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品マスタ。codeはバーコード（外部採番）で、検索キーになる。
type Product struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      ProductCode    `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Name      string         `gorm:"type:varchar(50);not null" json:"name"`
	Price     int64          `gorm:"not null" json:"price"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "product_master" }
