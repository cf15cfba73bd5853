package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderDetails() OrderDetailRepository
	StatusLogs() OrderStatusLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返す（またはpanicする）とrollback、nilならcommit。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
