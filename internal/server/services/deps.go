// Package services contains the business logic behind the webhook endpoints:
// the event router, the onboarding state machine, the group admission gate,
// the domain handlers, and the report export worker.
package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/ai"
	"github.com/mragil/expense-tracker-wa/internal/i18n"
)

// IntentExtractor classifies message text and pulls structured values out of
// free-form replies. Implemented by *ai.Extractor.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, text string) ai.Intent
	ExtractName(ctx context.Context, text string) (string, error)
	ExtractBudget(ctx context.Context, text string) (*ai.BudgetInfo, error)
}

// Messenger is the outbound WhatsApp transport. Implemented by
// *messenger.Client. Send failures are logged by callers and never abort
// event processing.
type Messenger interface {
	SendText(ctx context.Context, jid, text string) error
	LeaveGroup(ctx context.Context, instance, groupJID string) error
}

// formatMoney renders an amount with locale-appropriate thousands grouping:
// "50.000" for Indonesian, "50,000" for English.
func formatMoney(lang i18n.Language, d decimal.Decimal) string {
	sep := ","
	if lang == i18n.LangID {
		sep = "."
	}

	s := d.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
