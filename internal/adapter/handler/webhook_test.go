package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
)

type fakeCoordinator struct {
	events []meeting.BotEvent
	out    *meeting.Outcome
	err    error
}

func (f *fakeCoordinator) HandleBotEvent(_ context.Context, ev meeting.BotEvent) (*meeting.Outcome, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return &meeting.Outcome{Event: ev.Event, BotID: ev.BotID}, nil
}

func TestMeetingBaaSWebhook_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"event":`, http.StatusBadRequest},
		{"missing bot id", `{"event":"complete","data":{}}`, http.StatusBadRequest},
		{"transcript not a list", `{"event":"complete","data":{"bot_id":"b1","transcript":{"x":1}}}`, http.StatusBadRequest},
		{"unknown bot acknowledged", `{"event":"complete","data":{"bot_id":"b1"}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(entities.RoleAdmin)
			rec := s.do(http.MethodPost, "/api/webhooks/meetingbaas", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusOK && len(s.bots.events) != 0 {
				t.Error("invalid payload reached the coordinator")
			}
		})
	}
}

func TestMeetingBaaSWebhook_MapsEvent(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)
	s.bots.out = &meeting.Outcome{Matched: true, Status: entities.MeetingStatusCompleted}

	body := `{"event":"complete","data":{"bot_id":"bot-1","mp4":"https://cdn/x.mp4",
		"transcript":[{"speaker":"Ada","offset":0,"words":[{"start":0,"end":1,"word":"Hello"},{"start":1,"end":2,"word":" world"}]}]}}`
	rec := s.do(http.MethodPost, "/api/webhooks/meetingbaas", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	ev := s.bots.events[0]
	if ev.Event != meeting.EventComplete || ev.BotID != "bot-1" || ev.RecordingURL != "https://cdn/x.mp4" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Transcript) != 1 || len(ev.Transcript[0].Words) != 2 || len(ev.RawTranscript) == 0 {
		t.Errorf("transcript not decoded: %+v", ev.Transcript)
	}
	if !strings.Contains(string(decode(t, rec).Data), `"outcome":"completed"`) {
		t.Errorf("ack = %s", rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/webhooks/meetingbaas", `{"event":"bot.status_change","data":{"bot_id":"bot-1","status":{"code":"in_waiting_room"}}}`)
	if rec.Code != http.StatusOK || s.bots.events[1].StatusCode != "in_waiting_room" {
		t.Errorf("status change = %d %+v", rec.Code, s.bots.events[1])
	}
}

func TestMeetingBaaSWebhook_LookupFailureIs500(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)
	s.bots.err = errors.New("connection refused")

	rec := s.do(http.MethodPost, "/api/webhooks/meetingbaas", `{"event":"complete","data":{"bot_id":"b"}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env := decode(t, rec); env.Info != "" {
		t.Errorf("internal error leaked: %q", env.Info)
	}
}

func TestMeetingBaaSWebhook_APIKey(t *testing.T) {
	coord := &fakeCoordinator{}
	h := NewWebhookHandler(coord, "secret-key", nil, zap.NewNop())
	e := echo.New()
	e.POST("/hook", h.HandleMeetingBaaS)

	for _, key := range []string{"", "wrong"} {
		req := newJSONRequest(http.MethodPost, "/hook", `{"event":"complete","data":{"bot_id":"b"}}`)
		if key != "" {
			req.Header.Set("x-meeting-baas-api-key", key)
		}
		rec := serve(e, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("key %q: status = %d, want 401", key, rec.Code)
		}
	}

	req := newJSONRequest(http.MethodPost, "/hook", `{"event":"complete","data":{"bot_id":"b"}}`)
	req.Header.Set("x-meeting-baas-api-key", "secret-key")
	if rec := serve(e, req); rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d", rec.Code)
	}
	if len(coord.events) != 1 {
		t.Errorf("events = %d, want 1", len(coord.events))
	}
}

func TestWebhookEventLabels(t *testing.T) {
	tests := []struct {
		label func(string) string
		in    string
		want  string
	}{
		{botEventLabel, meeting.EventComplete, meeting.EventComplete},
		{botEventLabel, meeting.EventStatusChange, meeting.EventStatusChange},
		{botEventLabel, "bot.joined", otherEventLabel},
		{botEventLabel, "", otherEventLabel},
		{identityEventLabel, "organizationMembership.deleted", "organizationMembership.deleted"},
		{identityEventLabel, "user.created", "user.created"},
		{identityEventLabel, "session.created", otherEventLabel},
	}
	for _, tt := range tests {
		if got := tt.label(tt.in); got != tt.want {
			t.Errorf("label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWebhookMetrics_UnknownEventsShareOneSeries(t *testing.T) {
	s := newTestServer(entities.RoleAdmin)
	for _, name := range []string{"x-1f3a", "x-9b2c", "bot.joined"} {
		s.do(http.MethodPost, "/api/webhooks/meetingbaas", `{"event":"`+name+`","data":{"bot_id":"b"}}`)
		s.do(http.MethodPost, "/api/webhooks/clerk", `{"type":"`+name+`","data":{}}`)
	}

	body := s.do(http.MethodGet, "/metrics", nil).Body.String()
	for _, name := range []string{"x-1f3a", "x-9b2c", "bot.joined"} {
		if strings.Contains(body, name) {
			t.Errorf("metrics expose caller-supplied event %q", name)
		}
	}
	if !strings.Contains(body, `event="other"`) {
		t.Error("unknown events not counted under the other label")
	}
}
