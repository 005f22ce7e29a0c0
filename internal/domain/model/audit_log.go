package model

import "time"

// 商品マスタの作成・更新・削除など。
type AuditAction string

const (
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
)

// 何に対する操作か
type AuditResourceType string

const (
	//商品に対する操作。
	AuditResourceProduct AuditResourceType = "product"
)

// 監査ログ（マスタ操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した担当者（JWTのsub）。
	Actor string `gorm:"type:varchar(64);not null;index" json:"actor"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（product）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
