package models

// DashboardStats итог сдачи молока за месяц.
type DashboardStats struct {
	TotalMilkSold float64 `json:"total_milk_sold"`
	GrandTotal    float64 `json:"grand_total"`
}

// MilkCollection записи о сдаче молока за месяц.
type MilkCollection struct {
	Month   string         `json:"month"`
	Summary DashboardStats `json:"summary"`
	History []MilkEntry    `json:"history"`
}

// MilkEntry запись о сдаче молока в ответе.
type MilkEntry struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	DisplayDate   string  `json:"display_date"`
	Quantity      float64 `json:"quantity"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
}

// PaymentHistory сводка и история платежей.
type PaymentHistory struct {
	Summary  PaymentSummary `json:"summary"`
	Payments []PaymentEntry `json:"payments"`
}

// PaymentSummary суммы по статусам.
type PaymentSummary struct {
	ApprovedAmount float64 `json:"approved_amount"`
	PendingAmount  float64 `json:"pending_amount"`
	TotalPayments  int     `json:"total_payments"`
}

// PaymentEntry платёж в ответе. Note равен null, если примечания нет.
type PaymentEntry struct {
	ID            int64   `json:"id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	PaymentDate   string  `json:"payment_date"`
	DisplayDate   string  `json:"display_date"`
	Note          *string `json:"note"`
}

// BillEntry счёт в ответе.
type BillEntry struct {
	ID          int64   `json:"id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	DueAmount   float64 `json:"due_amount"`
	Status      string  `json:"status"`
}
