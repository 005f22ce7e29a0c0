package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
)

type TransactionUsecase struct {
	transactions repo.TransactionRepository
	lines        repo.TransactionLineRepository
}

func NewTransactionUsecase(transactions repo.TransactionRepository, lines repo.TransactionLineRepository) *TransactionUsecase {
	return &TransactionUsecase{transactions: transactions, lines: lines}
}

type TransactionLineOutput struct {
	LineID      int64             `json:"dtl_id"`
	ProductID   int64             `json:"prd_id"`
	ProductCode model.ProductCode `json:"prd_code"`
	ProductName string            `json:"prd_name"`
	UnitPrice   int64             `json:"prd_price"`
	Quantity    int64             `json:"quantity"`
	TaxCategory string            `json:"tax_type"`
}

type TransactionOutput struct {
	ID           int64                   `json:"id"`
	Datetime     time.Time               `json:"datetime"`
	EmployeeCode string                  `json:"emp_code"`
	StoreCode    string                  `json:"store_code"`
	TerminalCode string                  `json:"pos_no"`
	TotalAmount  int64                   `json:"total_amt"`
	Lines        []TransactionLineOutput `json:"lines"`
}

// GET /transactionsの入力DTO
type ListTransactionsInput struct {
	Page         int
	Limit        int
	StoreCode    string
	TerminalCode string
	From         *time.Time
	To           *time.Time
}

type TransactionListOutput struct {
	Items []model.Transaction `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// 取引1件を明細つきで返す（明細は登録順）
func (u *TransactionUsecase) GetTransaction(ctx context.Context, id int64) (TransactionOutput, error) {
	if id <= 0 {
		return TransactionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	t, err := u.transactions.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return TransactionOutput{}, NewHTTPError(http.StatusNotFound, "Transaction not found")
	}
	if err != nil {
		return TransactionOutput{}, errDB(err)
	}

	lines, err := u.lines.ListByTransactionID(ctx, id)
	if err != nil {
		return TransactionOutput{}, errDB(err)
	}
	return toTransactionOutput(t, lines), nil
}

func (u *TransactionUsecase) ListTransactions(ctx context.Context, in ListTransactionsInput) (TransactionListOutput, error) {
	if in.Page < 1 {
		return TransactionListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return TransactionListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return TransactionListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	items, total, err := u.transactions.List(ctx, repo.TransactionListFilter{
		Page:         in.Page,
		Limit:        in.Limit,
		StoreCode:    in.StoreCode,
		TerminalCode: in.TerminalCode,
		From:         in.From,
		To:           in.To,
	})
	if err != nil {
		return TransactionListOutput{}, errDB(err)
	}
	if items == nil {
		items = []model.Transaction{}
	}

	return TransactionListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func toTransactionOutput(t model.Transaction, lines []model.TransactionLine) TransactionOutput {
	outLines := make([]TransactionLineOutput, 0, len(lines))
	for _, l := range lines {
		outLines = append(outLines, TransactionLineOutput{
			LineID:      l.ID,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			TaxCategory: l.TaxCategory,
		})
	}

	return TransactionOutput{
		ID:           t.ID,
		Datetime:     t.Datetime,
		EmployeeCode: t.EmployeeCode,
		StoreCode:    t.StoreCode,
		TerminalCode: t.TerminalCode,
		TotalAmount:  t.TotalAmount,
		Lines:        outLines,
	}
}
