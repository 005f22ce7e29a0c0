package server

import (
	"fmt"

	"pos/internal/config"
	"pos/internal/domain/pricing"
	"pos/internal/handler"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/metrics"
	"pos/internal/usecase"

	"gorm.io/gorm"
)

// NewHandlers はRepository → Usecase → Handlerを組み立てる
func NewHandlers(cfg config.Config, gdb *gorm.DB, m *metrics.ServerMetrics, pub usecase.PurchaseEventPublisher) (Handlers, error) {
	tax, err := pricing.ParseTaxRule(cfg.TaxRate, cfg.TaxCategory)
	if err != nil {
		return Handlers{}, fmt.Errorf("tax rule: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return Handlers{}, err
	}

	//Repository（GORM実装）生成
	tm := infraRepo.NewTxManagerGorm(gdb)
	products := infraRepo.NewProductGormRepository(gdb)
	transactions := infraRepo.NewTransactionGormRepository(gdb)
	lines := infraRepo.NewTransactionLineGormRepository(gdb)
	auditLogs := infraRepo.NewAuditLogGormRepository(gdb)

	//Usecase生成
	purchaseUC := usecase.NewPurchaseUsecase(
		tm,
		usecase.PurchaseDefaults{
			EmployeeCode: cfg.DefaultEmployeeCode,
			StoreCode:    cfg.DefaultStoreCode,
			TerminalCode: cfg.DefaultTerminalCode,
		},
		tax,
		usecase.WithPurchaseTimeout(cfg.PurchaseTimeout),
		usecase.WithPublisher(pub),
		usecase.WithRecorder(m),
	)
	productUC := usecase.NewProductUsecase(tm, products)
	transactionUC := usecase.NewTransactionUsecase(transactions, lines)
	auditUC := usecase.NewAuditLogUsecase(auditLogs)

	//Handler生成
	return Handlers{
		Purchase:     handler.NewPurchaseHandler(purchaseUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Transaction:  handler.NewTransactionHandler(transactionUC),
		AuditLog:     handler.NewAuditLogHandler(auditUC),
		Health:       handler.NewHealthHandler(sqlDB),
	}, nil
}
