package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending limit. The most recently created row for a number is
// the one in effect.
type Budget struct {
	ID               int64
	WhatsAppNumber   string
	Amount           decimal.Decimal
	Period           string
	ThresholdPercent int
	CreatedAt        time.Time
}
