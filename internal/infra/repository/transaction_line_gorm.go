package repository

import (
	"context"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionLineGormRepository struct {
	db *gorm.DB
}

func NewTransactionLineGormRepository(db *gorm.DB) *TransactionLineGormRepository {
	return &TransactionLineGormRepository{db: db}
}

// 明細をまとめて保存する。スライスの順序がdtl_idの順序になる。
func (r *TransactionLineGormRepository) CreateBulk(ctx context.Context, transactionID int64, lines []model.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].TransactionID = transactionID
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *TransactionLineGormRepository) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionLine, error) {
	var lines []model.TransactionLine
	err := r.db.WithContext(ctx).Where("trd_id = ?", transactionID).Order("dtl_id asc").Find(&lines).Error
	if err != nil {
		return []model.TransactionLine{}, err
	}
	return lines, nil
}

var _ repo.TransactionLineRepository = (*TransactionLineGormRepository)(nil)
