package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 削除されていない商品をID順で返す。
func (r *ProductGormRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// コードで商品を取得
func (r *ProductGormRepository) FindByCode(ctx context.Context, code model.ProductCode) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if err != nil {
		return model.Product{}, translateError(err)
	}
	return p, nil
}

// 商品の作成
// 同じコードの論理削除済み商品があれば、それを復活させる（codeの一意制約のため）。
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	var deleted model.Product
	err := r.db.WithContext(ctx).Unscoped().
		Where("code = ? AND deleted_at IS NOT NULL", p.Code).
		First(&deleted).Error
	if err == nil {
		res := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).
			Where("id = ?", deleted.ID).
			Updates(map[string]interface{}{
				"name":       p.Name,
				"price":      p.Price,
				"deleted_at": nil,
			})
		if res.Error != nil {
			return model.Product{}, translateError(res.Error)
		}
		return r.FindByCode(ctx, p.Code)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, err
	}

	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translateError(err)
	}
	return p, nil
}

// 商品の更新
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"code":  p.Code,
		"name":  p.Name,
		"price": p.Price,
	})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（明細の外部キーを残すため論理削除）
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)
