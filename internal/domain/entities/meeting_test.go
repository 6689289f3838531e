package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusFromProviderCode(t *testing.T) {
	cases := map[string]MeetingStatus{
		"in_waiting_room":     MeetingStatusInWaitingRoom,
		"joining_call":        MeetingStatus("JOINING_CALL"),
		" in_call_recording ": MeetingStatus("IN_CALL_RECORDING"),
	}
	for code, want := range cases {
		if got := StatusFromProviderCode(code); got != want {
			t.Errorf("StatusFromProviderCode(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestMeetingStatusGuards(t *testing.T) {
	terminal := []MeetingStatus{
		MeetingStatusCompleted,
		MeetingStatusDidNotHappen,
		MeetingStatusErrorTranscription,
		MeetingStatusErrorMissingTranscript,
		MeetingStatusErrorNLP,
	}
	for _, s := range terminal {
		if !s.IsTerminal() || s.AcceptsStatusChange() || s.AcceptsCompletion() {
			t.Errorf("%s should be terminal and reject events", s)
		}
	}

	if MeetingStatusGeneratingInsights.AcceptsStatusChange() {
		t.Errorf("GENERATING_INSIGHTS must not be reverted by a status change")
	}
	if !MeetingStatusGeneratingInsights.AcceptsCompletion() {
		t.Errorf("GENERATING_INSIGHTS must accept a redelivered completion")
	}
	if !MeetingStatus("IN_CALL_RECORDING").AcceptsStatusChange() {
		t.Errorf("in-progress statuses accept status changes")
	}
}

func TestMeetingDurationDefault(t *testing.T) {
	m := NewMeeting(uuid.New(), uuid.New(), uuid.New(), MeetingTypeOneOnOne, time.Now(), "")
	if m.Duration() != 60*time.Minute {
		t.Fatalf("expected default 60m, got %s", m.Duration())
	}
	if m.TimeZone != "UTC" {
		t.Fatalf("expected UTC default timezone, got %q", m.TimeZone)
	}

	thirty := 30
	m.DurationMinutes = &thirty
	if m.Duration() != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", m.Duration())
	}
}

func TestParseUserRole(t *testing.T) {
	if ParseUserRole("manager") != RoleManager {
		t.Fatalf("expected MANAGER")
	}
	if ParseUserRole("owner") != RoleUser {
		t.Fatalf("unknown roles fall back to USER")
	}
}
