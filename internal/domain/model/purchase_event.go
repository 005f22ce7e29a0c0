package model

import "time"

// 購入確定イベント（コミット後に外部へ通知する）。
type PurchaseCompletedEvent struct {
	EventID         string    `json:"event_id"`
	TransactionID   int64     `json:"transaction_id"`
	StoreCode       string    `json:"store_code"`
	TerminalCode    string    `json:"terminal_code"`
	EmployeeCode    string    `json:"employee_code"`
	TotalPrice      int64     `json:"total_price"`
	TotalPriceExTax int64     `json:"total_price_ex_tax"`
	OccurredAt      time.Time `json:"occurred_at"`
}
