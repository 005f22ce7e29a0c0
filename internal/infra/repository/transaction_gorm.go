package repository

import (
	"context"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type TransactionGormRepository struct {
	db *gorm.DB
}

func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

func (r *TransactionGormRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return model.Transaction{}, translateError(err)
	}
	return t, nil
}

func (r *TransactionGormRepository) List(ctx context.Context, f repo.TransactionListFilter) ([]model.Transaction, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	//店舗・レジ絞り込み
	if f.StoreCode != "" {
		q = q.Where("store_cd = ?", f.StoreCode)
	}
	if f.TerminalCode != "" {
		q = q.Where("pos_no = ?", f.TerminalCode)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("datetime >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("datetime <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Transaction{}, 0, err
	}

	var items []model.Transaction
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Transaction{}, 0, err
	}

	return items, total, nil
}

func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, translateError(err)
	}
	return t.ID, nil
}

func (r *TransactionGormRepository) UpdateTotal(ctx context.Context, id int64, total int64) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("total_amt", total)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

var _ repo.TransactionRepository = (*TransactionGormRepository)(nil)
