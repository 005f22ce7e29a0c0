package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	products         repo.ProductRepository
	transactions     repo.TransactionRepository
	transactionLines repo.TransactionLineRepository
	auditLogs        repo.AuditLogRepository
}

func (r *TxReposMock) Products() repo.ProductRepository                 { return r.products }
func (r *TxReposMock) Transactions() repo.TransactionRepository         { return r.transactions }
func (r *TxReposMock) TransactionLines() repo.TransactionLineRepository { return r.transactionLines }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository               { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByCode(ctx context.Context, code model.ProductCode) (model.Product, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TransactionRepoMock struct{ mock.Mock }

func (m *TransactionRepoMock) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Transaction)
	return t, args.Error(1)
}

func (m *TransactionRepoMock) List(ctx context.Context, f repo.TransactionListFilter) ([]model.Transaction, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Transaction)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *TransactionRepoMock) Create(ctx context.Context, t model.Transaction) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransactionRepoMock) UpdateTotal(ctx context.Context, id int64, total int64) error {
	args := m.Called(ctx, id, total)
	return args.Error(0)
}

type TransactionLineRepoMock struct{ mock.Mock }

func (m *TransactionLineRepoMock) CreateBulk(ctx context.Context, transactionID int64, lines []model.TransactionLine) error {
	args := m.Called(ctx, transactionID, lines)
	return args.Error(0)
}

func (m *TransactionLineRepoMock) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionLine, error) {
	args := m.Called(ctx, transactionID)
	lines, _ := args.Get(0).([]model.TransactionLine)
	return lines, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Publisher / Recorder mocks
// =====================

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishPurchaseCompleted(ctx context.Context, ev model.PurchaseCompletedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type RecorderMock struct{ mock.Mock }

func (m *RecorderMock) ObservePurchase(outcome string, totalPrice int64) {
	m.Called(outcome, totalPrice)
}

// =====================
// helpers
// =====================

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %T: %v", err, err)
	assert.Equal(t, status, he.Status)
	assert.Equal(t, msg, he.Message)
}

var errBoom = errors.New("boom")
