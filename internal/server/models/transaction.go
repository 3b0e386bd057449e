package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID              int64
	WhatsAppID      string
	Amount          decimal.Decimal
	TransactionType string
	Category        string
	Description     string
	LoggedBy        string
	CreatedAt       time.Time
}
