package sendgrid

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func TestSender_Disabled(t *testing.T) {
	s := NewSender(config.EmailConfig{FromAddress: "insights@example.com"})
	err := s.Send(context.Background(), "Ann", "ann@example.com", "hi", "body", "")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestSender_BuildMessage(t *testing.T) {
	s := NewSender(config.EmailConfig{FromName: "Meeting Insights", FromAddress: "insights@example.com"})
	msg := s.BuildMessage("Ann Lee", "ann@example.com", "Insights ready", "plain", "<p>html</p>")

	if msg.From.Address != "insights@example.com" || msg.From.Name != "Meeting Insights" {
		t.Errorf("from = %+v", msg.From)
	}
	if msg.Subject != "Insights ready" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if len(msg.Personalizations) != 1 || len(msg.Personalizations[0].To) != 1 {
		t.Fatalf("personalizations = %+v", msg.Personalizations)
	}
	if to := msg.Personalizations[0].To[0]; to.Address != "ann@example.com" {
		t.Errorf("to = %+v", to)
	}
	if len(msg.Content) != 2 {
		t.Errorf("content parts = %d, want 2", len(msg.Content))
	}
}
