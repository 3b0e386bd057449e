package ai

import (
	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/i18n"
)

// Kind tags the classified purpose of one inbound message.
type Kind string

const (
	KindTransaction    Kind = "transaction"
	KindReport         Kind = "report"
	KindBudgetInquiry  Kind = "budget_inquiry"
	KindBudgetUpdate   Kind = "budget_update"
	KindLanguageChange Kind = "language_change"
	KindError          Kind = "error"
)

// Error reasons carried by KindError intents.
const (
	ReasonUnsupportedTopic = "unsupported_topic"
	ReasonParse            = "parse_error"
)

// Intent is the transient classification result for one message. It is never
// persisted; the router consumes it once. Only the fields matching Kind are
// meaningful.
type Intent struct {
	Kind             Kind
	DetectedLanguage i18n.Language

	// KindTransaction / KindBudgetUpdate
	Amount decimal.Decimal

	// KindTransaction
	TransactionType string
	Category        string
	Description     string

	// KindReport
	Period    string
	StartDate string
	EndDate   string

	// KindLanguageChange
	NewLanguage i18n.Language

	// KindError
	Reason string
}

// BudgetInfo is the result of budget extraction during onboarding.
type BudgetInfo struct {
	Amount decimal.Decimal
	Period string
}
