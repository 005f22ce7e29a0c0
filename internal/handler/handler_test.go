package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pos/internal/domain/model"
	"pos/internal/domain/pricing"
	"pos/internal/handler"
	"pos/internal/infra/db/dbtest"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/middleware"
	"pos/internal/usecase"
	"pos/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

// =====================
// レスポンス確認用
// =====================

type errorBody struct {
	Message string `json:"message"`
}

type purchaseBody struct {
	Success         bool  `json:"success"`
	TotalPrice      int64 `json:"total_price"`
	TotalPriceExTax int64 `json:"total_price_ex_tax"`
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(context.Context) error { return p.err }

// =====================
// helper
// =====================

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	gdb := dbtest.New(t)

	products := infraRepo.NewProductGormRepository(gdb)
	for _, p := range []model.Product{
		{Code: "111", Name: "ビール", Price: 220},
		{Code: "222", Name: "お茶", Price: 100},
	} {
		_, err := products.Create(context.Background(), p)
		require.NoError(t, err)
	}

	tm := infraRepo.NewTxManagerGorm(gdb)
	productUC := usecase.NewProductUsecase(tm, products)
	purchaseUC := usecase.NewPurchaseUsecase(tm, usecase.DefaultPurchaseDefaults(), pricing.DefaultTaxRule())
	trdUC := usecase.NewTransactionUsecase(
		infraRepo.NewTransactionGormRepository(gdb),
		infraRepo.NewTransactionLineGormRepository(gdb),
	)
	auditUC := usecase.NewAuditLogUsecase(infraRepo.NewAuditLogGormRepository(gdb))

	e := echo.New()
	e.Validator = validator.EchoValidator{}
	guard := []echo.MiddlewareFunc{middleware.AuthJWT(testSecret), middleware.AdminRoleGuard()}
	ledgerGuard := []echo.MiddlewareFunc{middleware.AuthJWT(testSecret), middleware.LedgerRoleGuard()}

	handler.NewPurchaseHandler(purchaseUC).RegisterRoutes(e)
	handler.NewProductHandler(productUC).RegisterRoutes(e)
	handler.NewAdminProductHandler(productUC).RegisterRoutes(e, guard...)
	handler.NewTransactionHandler(trdUC).RegisterRoutes(e, ledgerGuard...)
	handler.NewAuditLogHandler(auditUC).RegisterRoutes(e, guard...)
	return e, gdb
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := middleware.IssueToken(testSecret, "manager", middleware.RoleAdmin, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(e *echo.Echo, method, path, body, authz string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =====================
// POST /purchase
// =====================

func TestPurchaseHandler_Success(t *testing.T) {
	e, _ := newTestServer(t)

	for _, path := range []string{"/purchase/", "/purchase"} {
		rec := doJSON(e, http.MethodPost, path,
			`{"emp_code":"1001","store_code":"30","pos_no":"90","products":[{"code":"111","quantity":3}]}`, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, purchaseBody{Success: true, TotalPrice: 726, TotalPriceExTax: 660}, decode[purchaseBody](t, rec))
	}
}

// 旧APIは数値コードで送る
func TestPurchaseHandler_NumericCodes(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/purchase/",
		`{"products":[{"code":111,"quantity":2},{"code":222,"quantity":1}]}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, purchaseBody{Success: true, TotalPrice: 594, TotalPriceExTax: 540}, decode[purchaseBody](t, rec))
}

func TestPurchaseHandler_ProductNotFound(t *testing.T) {
	e, gdb := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/purchase/",
		`{"products":[{"code":"111","quantity":1},{"code":"999","quantity":1}]}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[errorBody](t, rec).Message)

	var n int64
	require.NoError(t, gdb.Model(&model.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPurchaseHandler_BadRequest(t *testing.T) {
	e, _ := newTestServer(t)

	cases := map[string]struct {
		body string
		msg  string
	}{
		"broken json":    {`{"products":`, "invalid body"},
		"float code":     {`{"products":[{"code":1.5,"quantity":1}]}`, "invalid body"},
		"no products":    {`{"emp_code":"1"}`, "products required"},
		"empty products": {`{"products":[]}`, "products required"},
		"zero quantity":  {`{"products":[{"code":"111","quantity":0}]}`, "products[0].quantity must be >= 1"},
		"blank code":     {`{"products":[{"code":"","quantity":1}]}`, "products[0].code required"},
		"long pos_no":    {`{"pos_no":"1234","products":[{"code":"111","quantity":1}]}`, "pos_no too long"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/purchase/", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, decode[errorBody](t, rec).Message)
		})
	}
}

// =====================
// /products
// =====================

func TestProductHandler_Reads(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Product](t, rec), 2)

	rec = doJSON(e, http.MethodGet, "/products/111", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[model.Product](t, rec)
	assert.Equal(t, "ビール", p.Name)
	assert.Equal(t, int64(220), p.Price)

	rec = doJSON(e, http.MethodGet, "/products/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[errorBody](t, rec).Message)
}

func TestAdminProductHandler_RequiresAdmin(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/products", `{"code":"333","name":"水","price":90}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	clerk, err := middleware.IssueToken(testSecret, "clerk", "CLERK", time.Hour, time.Now())
	require.NoError(t, err)
	rec = doJSON(e, http.MethodDelete, "/products/111", "", "Bearer "+clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminProductHandler_CRUD(t *testing.T) {
	e, gdb := newTestServer(t)
	authz := adminToken(t)

	rec := doJSON(e, http.MethodPost, "/products", `{"code":"333","name":"水","price":90}`, authz)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.ProductCode("333"), decode[model.Product](t, rec).Code)

	rec = doJSON(e, http.MethodPost, "/products", `{"code":"333","name":"水","price":90}`, authz)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/products", `{"code":"444","name":" ","price":90}`, authz)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name required", decode[errorBody](t, rec).Message)

	rec = doJSON(e, http.MethodPut, "/products/333", `{"name":"天然水","price":100}`, authz)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(100), decode[model.Product](t, rec).Price)

	rec = doJSON(e, http.MethodDelete, "/products/333", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted", decode[errorBody](t, rec).Message)

	rec = doJSON(e, http.MethodGet, "/products/333", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	//作成・更新・削除の3件
	rec = doJSON(e, http.MethodGet, "/audit-logs", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]model.AuditLog](t, rec)
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionDeleteProduct, logs[0].Action)
	assert.Equal(t, "manager", logs[0].Actor)

	rec = doJSON(e, http.MethodGet, "/audit-logs?action=CREATE_PRODUCT", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.AuditLog](t, rec), 1)

	var n int64
	require.NoError(t, gdb.Model(&model.AuditLog{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

// =====================
// /transactions
// =====================

func TestTransactionHandler(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/purchase/",
		`{"store_code":"31","products":[{"code":"222","quantity":1},{"code":"111","quantity":2}]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	//台帳はトークンなしでは見られない
	rec = doJSON(e, http.MethodGet, "/transactions", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(e, http.MethodGet, "/transactions/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auditor, err := middleware.IssueToken(testSecret, "auditor", middleware.RoleAuditor, time.Hour, time.Now())
	require.NoError(t, err)
	authz := "Bearer " + auditor

	rec = doJSON(e, http.MethodGet, "/transactions?store_code=31", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[usecase.TransactionListOutput](t, rec)
	require.Equal(t, int64(1), list.Total)
	id := list.Items[0].ID

	rec = doJSON(e, http.MethodGet, "/transactions/"+jsonInt(id), "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[usecase.TransactionOutput](t, rec)
	assert.Equal(t, int64(594), detail.TotalAmount)
	assert.Equal(t, "9999999999", detail.EmployeeCode)
	require.Len(t, detail.Lines, 2)
	assert.Equal(t, model.ProductCode("222"), detail.Lines[0].ProductCode)

	rec = doJSON(e, http.MethodGet, "/transactions/12345", "", authz)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found", decode[errorBody](t, rec).Message)

	rec = doJSON(e, http.MethodGet, "/transactions?from=yesterday", "", authz)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid from", decode[errorBody](t, rec).Message)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// =====================
// /health
// =====================

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	handler.NewHealthHandler(pingerStub{}).RegisterRoutes(e)
	rec := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	e = echo.New()
	handler.NewHealthHandler(pingerStub{err: errors.New("down")}).RegisterRoutes(e)
	rec = doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
