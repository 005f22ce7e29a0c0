package repository

import (
	"context"
	"errors"

	"pos/internal/domain/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// 商品マスタの永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByCode(ctx context.Context, code model.ProductCode) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
