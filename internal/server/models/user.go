package models

import "time"

// OnboardingStep marks a user's progress through mandatory setup.
type OnboardingStep string

const (
	StepName      OnboardingStep = "name"
	StepBudget    OnboardingStep = "budget"
	StepCompleted OnboardingStep = "completed"
)

// User is a chat participant keyed by their WhatsApp number.
// IsActive is true iff OnboardingStep is StepCompleted.
type User struct {
	WhatsAppNumber string
	DisplayName    string
	OnboardingStep OnboardingStep
	IsActive       bool
	Language       string
	CreatedAt      time.Time
}
