package services

import (
	"context"
	"testing"

	"github.com/mragil/expense-tracker-wa/internal/messenger"
	"github.com/mragil/expense-tracker-wa/internal/server/config"
	"github.com/mragil/expense-tracker-wa/internal/server/models"
)

func newAdmissionConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.WhitelistedNumbers = []string{"628111@s.whatsapp.net"}
	cfg.BotNumber = "628999"
	return cfg
}

func upsertEvent(jid, subject, author string) *messenger.GroupsUpsertEvent {
	return &messenger.GroupsUpsertEvent{
		Event:    messenger.EventGroupsUpsert,
		Instance: "main",
		Data:     []messenger.GroupUpsertEntry{{ID: jid, Subject: subject, Author: author}},
	}
}

func TestGroupUpsert_AuthorizedByWhitelist(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, err := s.HandleGroupUpsert(context.Background(),
		upsertEvent("12345@g.us", "Family", "628111@s.whatsapp.net"))
	if err != nil {
		t.Fatalf("HandleGroupUpsert error: %v", err)
	}
	if status != StatusGroupRegistered {
		t.Fatalf("want %s, got %s", StatusGroupRegistered, status)
	}

	g := rm.groups.upserted
	if g == nil || g.JID != "12345@g.us" || g.AddedBy != "628111@s.whatsapp.net" || !g.IsActive {
		t.Fatalf("unexpected group row: %+v", g)
	}
	if len(msgr.sent) != 1 {
		t.Fatalf("want 1 welcome message, got %d", len(msgr.sent))
	}
	if len(msgr.left) != 0 {
		t.Fatalf("bot must stay in an authorized group")
	}
}

func TestGroupUpsert_AuthorizedByActiveUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.users.getOut = &models.User{WhatsAppNumber: "628222@s.whatsapp.net", IsActive: true}
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, err := s.HandleGroupUpsert(context.Background(),
		upsertEvent("12345@g.us", "Friends", "628222@s.whatsapp.net"))
	if err != nil {
		t.Fatalf("HandleGroupUpsert error: %v", err)
	}
	if status != StatusGroupRegistered {
		t.Fatalf("want %s, got %s", StatusGroupRegistered, status)
	}
}

func TestGroupUpsert_UnauthorizedLeaves(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, err := s.HandleGroupUpsert(context.Background(),
		upsertEvent("12345@g.us", "Strangers", "628333@s.whatsapp.net"))
	if err != nil {
		t.Fatalf("HandleGroupUpsert error: %v", err)
	}
	if status != StatusLeftUnauthorizedGroup {
		t.Fatalf("want %s, got %s", StatusLeftUnauthorizedGroup, status)
	}
	if len(msgr.left) != 1 || msgr.left[0] != "12345@g.us" {
		t.Fatalf("want leaveGroup for the group, got %+v", msgr.left)
	}
	if rm.groups.upserted != nil {
		t.Fatal("no group row expected for an unauthorized group")
	}
	if len(msgr.sent) != 0 {
		t.Fatal("no welcome expected for an unauthorized group")
	}
}

func TestGroupUpsert_LeaveFailureStillReportsStatus(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	msgr := &fakeMessenger{leaveErr: errBoom{}}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, err := s.HandleGroupUpsert(context.Background(),
		upsertEvent("12345@g.us", "Strangers", "628333@s.whatsapp.net"))
	if err != nil {
		t.Fatalf("HandleGroupUpsert error: %v", err)
	}
	if status != StatusLeftUnauthorizedGroup {
		t.Fatalf("want %s, got %s", StatusLeftUnauthorizedGroup, status)
	}
}

func TestParticipantsUpdate_BotAdded(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	event := &messenger.ParticipantsUpdateEvent{
		Event:    messenger.EventParticipantsUpdate,
		Instance: "main",
		Data: messenger.ParticipantsUpdateData{
			ID:           "12345@g.us",
			Action:       messenger.ActionAdd,
			Author:       "628111@s.whatsapp.net",
			Participants: []messenger.Participant{{PhoneNumber: "628999"}},
		},
	}
	status, err := s.HandleParticipantsUpdate(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleParticipantsUpdate error: %v", err)
	}
	if status != StatusGroupRegistered {
		t.Fatalf("want %s, got %s", StatusGroupRegistered, status)
	}
}

func TestParticipantsUpdate_OtherParticipantAddedIgnored(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAdmissionService(db, rm, &fakeMessenger{}, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	event := &messenger.ParticipantsUpdateEvent{
		Event: messenger.EventParticipantsUpdate,
		Data: messenger.ParticipantsUpdateData{
			ID:           "12345@g.us",
			Action:       messenger.ActionAdd,
			Author:       "628111@s.whatsapp.net",
			Participants: []messenger.Participant{{PhoneNumber: "628555"}},
		},
	}
	status, err := s.HandleParticipantsUpdate(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleParticipantsUpdate error: %v", err)
	}
	if status != StatusIgnored {
		t.Fatalf("want %s, got %s", StatusIgnored, status)
	}
	if rm.groups.upserted != nil {
		t.Fatal("no group row expected")
	}
}

func TestParticipantsUpdate_BotRemovedDeactivates(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewAdmissionService(db, rm, &fakeMessenger{}, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	event := &messenger.ParticipantsUpdateEvent{
		Event: messenger.EventParticipantsUpdate,
		Data: messenger.ParticipantsUpdateData{
			ID:           "12345@g.us",
			Action:       messenger.ActionRemove,
			Participants: []messenger.Participant{{PhoneNumber: "628999"}},
		},
	}
	status, err := s.HandleParticipantsUpdate(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleParticipantsUpdate error: %v", err)
	}
	if status != StatusGroupInactive {
		t.Fatalf("want %s, got %s", StatusGroupInactive, status)
	}
	if rm.groups.deactivated != "12345@g.us" {
		t.Fatalf("want group deactivated, got %q", rm.groups.deactivated)
	}
}

func TestEnsureGroup_UnknownGroupRegisteredLazily(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, group, err := s.EnsureGroup(context.Background(), "12345@g.us", "628444@s.whatsapp.net")
	if err != nil {
		t.Fatalf("EnsureGroup error: %v", err)
	}
	if status != StatusGroupWelcomeSent {
		t.Fatalf("want %s, got %s", StatusGroupWelcomeSent, status)
	}
	if group != nil {
		t.Fatal("short-circuit must not return a group")
	}
	if rm.groups.upserted == nil || rm.groups.upserted.AddedBy != "628444@s.whatsapp.net" {
		t.Fatalf("unexpected group row: %+v", rm.groups.upserted)
	}
	if len(msgr.sent) != 1 {
		t.Fatalf("want 1 welcome message, got %d", len(msgr.sent))
	}
}

func TestEnsureGroup_InactiveGroupReactivated(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.groups.getOut = &models.Group{JID: "12345@g.us", AddedBy: "628111@s.whatsapp.net", IsActive: false}
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, _, err := s.EnsureGroup(context.Background(), "12345@g.us", "628444@s.whatsapp.net")
	if err != nil {
		t.Fatalf("EnsureGroup error: %v", err)
	}
	if status != StatusGroupReactivated {
		t.Fatalf("want %s, got %s", StatusGroupReactivated, status)
	}
	if rm.groups.upserted == nil || !rm.groups.upserted.IsActive {
		t.Fatalf("group should be active again: %+v", rm.groups.upserted)
	}
}

func TestEnsureGroup_ActiveGroupPassesThrough(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.groups.getOut = &models.Group{JID: "12345@g.us", IsActive: true, Language: "en"}
	msgr := &fakeMessenger{}
	s := NewAdmissionService(db, rm, msgr, newTestBundle(t), newAdmissionConfig(), newTestLogger())

	status, group, err := s.EnsureGroup(context.Background(), "12345@g.us", "628444@s.whatsapp.net")
	if err != nil {
		t.Fatalf("EnsureGroup error: %v", err)
	}
	if status != "" {
		t.Fatalf("want pass-through, got status %s", status)
	}
	if group == nil || group.Language != "en" {
		t.Fatalf("unexpected group: %+v", group)
	}
	if len(msgr.sent) != 0 {
		t.Fatal("no welcome expected for a known active group")
	}
}
