package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type ProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	now      func() time.Time
}

// DI
func NewProductUsecase(tx repo.TransactionManager, products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{
		tx:       tx,
		products: products,
		now:      time.Now,
	}
}

// POST/PUT /productsの入力DTO
type ProductInput struct {
	Code  model.ProductCode
	Name  string
	Price int64
}

// 監査ログに残す形
type productSnapshot struct {
	ID    int64             `json:"id"`
	Code  model.ProductCode `json:"code"`
	Name  string            `json:"name"`
	Price int64             `json:"price"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.List(ctx)
	if err != nil {
		return nil, errDB(err)
	}
	return items, nil
}

// レジのバーコード読み取り
func (u *ProductUsecase) GetProduct(ctx context.Context, code model.ProductCode) (model.Product, error) {
	code = model.ProductCode(strings.TrimSpace(code.String()))
	if code == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	p, err := u.products.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errProductNotFound(code)
	}
	if err != nil {
		return model.Product{}, errDB(err)
	}
	return p, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, actor string, in ProductInput) (model.Product, error) {
	if strings.TrimSpace(actor) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in, err := normalizeProductInput(in)
	if err != nil {
		return model.Product{}, err
	}

	var created model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().Create(ctx, model.Product{
			Code:  in.Code,
			Name:  in.Name,
			Price: in.Price,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return WrapHTTPError(http.StatusConflict, "product code already exists", err)
		}
		if err != nil {
			return errDB(err)
		}

		if err := u.writeAudit(ctx, r, actor, model.AuditActionCreateProduct, p.ID, nil, &p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return created, nil
}

// codeで対象を特定し、入力の内容で置き換える（コード変更も可）
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actor string, code model.ProductCode, in ProductInput) (model.Product, error) {
	if strings.TrimSpace(actor) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = model.ProductCode(strings.TrimSpace(code.String()))
	if code == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}
	if strings.TrimSpace(in.Code.String()) == "" {
		in.Code = code
	}
	in, err := normalizeProductInput(in)
	if err != nil {
		return model.Product{}, err
	}

	var updated model.Product
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByCode(ctx, code)
		if errors.Is(err, repo.ErrNotFound) {
			return errProductNotFound(code)
		}
		if err != nil {
			return errDB(err)
		}

		after := before
		after.Code = in.Code
		after.Name = in.Name
		after.Price = in.Price

		err = r.Products().Update(ctx, after)
		if errors.Is(err, repo.ErrDuplicate) {
			return WrapHTTPError(http.StatusConflict, "product code already exists", err)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return errProductNotFound(code)
		}
		if err != nil {
			return errDB(err)
		}

		//updated_atなどDB側で決まる値を返すため読み直す
		after, err = r.Products().FindByCode(ctx, in.Code)
		if err != nil {
			return errDB(err)
		}

		if err := u.writeAudit(ctx, r, actor, model.AuditActionUpdateProduct, before.ID, &before, &after); err != nil {
			return err
		}
		updated = after
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// 論理削除。過去の明細はスナップショットなので影響しない。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, actor string, code model.ProductCode) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = model.ProductCode(strings.TrimSpace(code.String()))
	if code == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByCode(ctx, code)
		if errors.Is(err, repo.ErrNotFound) {
			return errProductNotFound(code)
		}
		if err != nil {
			return errDB(err)
		}

		err = r.Products().SoftDelete(ctx, before.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return errProductNotFound(code)
		}
		if err != nil {
			return errDB(err)
		}

		return u.writeAudit(ctx, r, actor, model.AuditActionDeleteProduct, before.ID, &before, nil)
	})
}

func normalizeProductInput(in ProductInput) (ProductInput, error) {
	in.Code = model.ProductCode(strings.TrimSpace(in.Code.String()))
	in.Name = strings.TrimSpace(in.Name)

	if in.Code == "" {
		return in, NewHTTPError(http.StatusBadRequest, "code required")
	}
	if len(in.Code) > 32 {
		return in, NewHTTPError(http.StatusBadRequest, "code too long")
	}
	if in.Name == "" {
		return in, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if utf8.RuneCountInString(in.Name) > 50 {
		return in, NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if in.Price < 0 {
		return in, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	return in, nil
}

// 監査ログを作成
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func (u *ProductUsecase) writeAudit(ctx context.Context, r repo.TxRepos, actor string, action model.AuditAction, id int64, before, after *model.Product) error {
	beforeJSON, err := snapshotJSON(before)
	if err != nil {
		return errDB(err)
	}
	afterJSON, err := snapshotJSON(after)
	if err != nil {
		return errDB(err)
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   id,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.now(),
	}); err != nil {
		return errDB(err)
	}
	return nil
}

func snapshotJSON(p *model.Product) (string, error) {
	if p == nil {
		return "", nil
	}
	b, err := json.Marshal(productSnapshot{ID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
