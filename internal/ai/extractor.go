// Package ai turns free-form chat messages into structured intents, names and
// budget amounts using an OpenAI-compatible chat-completion endpoint.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/mragil/expense-tracker-wa/internal/i18n"
)

// completionAPI is the slice of the OpenAI client used here; *openai.Client
// satisfies it.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor calls the classification model. All extraction methods operate on
// a single user message with no conversation history.
type Extractor struct {
	client completionAPI
	model  string
	now    func() time.Time
}

// NewExtractor constructs an Extractor against the given OpenAI-compatible
// endpoint. baseURL may be empty for the public API.
func NewExtractor(baseURL, apiKey, model string) *Extractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Extractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

func (e *Extractor) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// cleanJSON strips markdown code fences that models add despite instructions.
func cleanJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// intentResponse mirrors the JSON contract of the intent prompt.
type intentResponse struct {
	Type             string      `json:"type"`
	Error            string      `json:"error"`
	DetectedLanguage string      `json:"detectedLanguage"`
	Amount           json.Number `json:"amount"`
	TransactionType  string      `json:"transactionType"`
	Category         string      `json:"category"`
	Description      string      `json:"description"`
	Period           string      `json:"period"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	Language         string      `json:"language"`
}

// ExtractIntent classifies one message. It never fails: malformed model
// output and transport errors are reported as the KindError variant so the
// router always has a branch to take.
func (e *Extractor) ExtractIntent(ctx context.Context, text string) Intent {
	dateContext := fmt.Sprintf("Current date: %s\n", e.now().Format("2006-01-02"))
	raw, err := e.complete(ctx, dateContext+intentPrompt, text)
	if err != nil {
		return Intent{Kind: KindError, Reason: ReasonParse, DetectedLanguage: i18n.Default}
	}

	var resp intentResponse
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &resp); err != nil {
		return Intent{Kind: KindError, Reason: ReasonParse, DetectedLanguage: i18n.Default}
	}

	lang := i18n.Parse(resp.DetectedLanguage)

	if resp.Error != "" {
		return Intent{Kind: KindError, Reason: resp.Error, DetectedLanguage: lang}
	}

	intent := Intent{DetectedLanguage: lang}
	switch Kind(resp.Type) {
	case KindTransaction:
		intent.Kind = KindTransaction
		intent.TransactionType = resp.TransactionType
		intent.Category = resp.Category
		intent.Description = resp.Description
	case KindReport:
		intent.Kind = KindReport
		intent.Period = resp.Period
		if intent.Period == "" {
			intent.Period = "today"
		}
		intent.StartDate = resp.StartDate
		intent.EndDate = resp.EndDate
		return intent
	case KindBudgetInquiry:
		intent.Kind = KindBudgetInquiry
		return intent
	case KindBudgetUpdate:
		intent.Kind = KindBudgetUpdate
	case KindLanguageChange:
		intent.Kind = KindLanguageChange
		intent.NewLanguage = i18n.Parse(resp.Language)
		return intent
	default:
		return Intent{Kind: KindError, Reason: ReasonParse, DetectedLanguage: lang}
	}

	// transaction and budget_update carry an amount
	amount, err := decimal.NewFromString(resp.Amount.String())
	if err != nil || amount.IsNegative() || amount.IsZero() {
		return Intent{Kind: KindError, Reason: ReasonParse, DetectedLanguage: lang}
	}
	intent.Amount = amount
	return intent
}

// ExtractName pulls a display name out of possibly conversational phrasing.
func (e *Extractor) ExtractName(ctx context.Context, text string) (string, error) {
	name, err := e.complete(ctx, namePrompt, text)
	if err != nil {
		return "", err
	}
	return strings.Trim(name, `"' `), nil
}

type budgetResponse struct {
	Error  string      `json:"error"`
	Amount json.Number `json:"amount"`
	Period string      `json:"period"`
}

// ExtractBudget parses a budget amount from onboarding input. A nil result
// with nil error means no amount could be read and the caller should
// re-prompt.
func (e *Extractor) ExtractBudget(ctx context.Context, text string) (*BudgetInfo, error) {
	raw, err := e.complete(ctx, budgetPrompt, text)
	if err != nil {
		return nil, err
	}

	var resp budgetResponse
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &resp); err != nil {
		return nil, nil
	}
	if resp.Error != "" {
		return nil, nil
	}

	amount, err := decimal.NewFromString(resp.Amount.String())
	if err != nil || !amount.IsPositive() {
		return nil, nil
	}

	period := resp.Period
	if period == "" {
		period = "month"
	}
	return &BudgetInfo{Amount: amount, Period: period}, nil
}
