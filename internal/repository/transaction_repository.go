package repository

import (
	"context"
	"time"

	"pos/internal/domain/model"
)

type TransactionListFilter struct {
	Page         int
	Limit        int
	StoreCode    string
	TerminalCode string
	From         *time.Time
	To           *time.Time
}

// 取引ヘッダの永続化。
type TransactionRepository interface {
	FindByID(ctx context.Context, id int64) (model.Transaction, error)
	List(ctx context.Context, f TransactionListFilter) ([]model.Transaction, int64, error)

	//仮ヘッダ（total_amount=0）を作ってIDを返す
	Create(ctx context.Context, t model.Transaction) (int64, error)
	UpdateTotal(ctx context.Context, id int64, total int64) error
}

// 取引明細の永続化。
type TransactionLineRepository interface {
	CreateBulk(ctx context.Context, transactionID int64, lines []model.TransactionLine) error
	ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionLine, error)
}
