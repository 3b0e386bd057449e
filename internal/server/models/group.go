package models

import "time"

// Group is a group chat the bot participates in. An active group always has
// a non-empty AddedBy.
type Group struct {
	JID       string
	Subject   string
	AddedBy   string
	IsActive  bool
	Language  string
	UpdatedAt time.Time
}
