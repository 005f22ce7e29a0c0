package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Products() ProductRepository
	Transactions() TransactionRepository
	TransactionLines() TransactionLineRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがnilを返せばcommit、エラーかpanicならrollbackする。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
