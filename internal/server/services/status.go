package services

// Status is the single outcome tag produced for every inbound webhook event.
type Status string

const (
	StatusIgnored               Status = "ignored"
	StatusNotWhitelisted        Status = "not_whitelisted"
	StatusNoText                Status = "no_text"
	StatusOnboardingStarted     Status = "onboarding_started"
	StatusOnboardingContinue    Status = "onboarding_continue"
	StatusUnsupportedTopic      Status = "unsupported_topic"
	StatusLanguageChange        Status = "processed_language_change"
	StatusReport                Status = "processed_report"
	StatusBudgetInquiry         Status = "processed_budget_inquiry"
	StatusBudgetUpdate          Status = "processed_budget_update"
	StatusTransaction           Status = "processed_transaction"
	StatusGroupRegistered       Status = "group_registered"
	StatusGroupWelcomeSent      Status = "group_welcome_sent"
	StatusGroupReactivated      Status = "group_reactivated"
	StatusLeftUnauthorizedGroup Status = "left_unauthorized_group"
	StatusGroupInactive         Status = "group_inactive"
)
