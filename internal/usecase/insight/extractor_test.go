package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
)

type fakeCompleter struct {
	replies []string
	errs    []error
	calls   int
	system  string
	prompt  string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.system, f.prompt = system, prompt
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return f.replies[len(f.replies)-1], nil
}

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestLLMExtractor_RetriesTransientFailure(t *testing.T) {
	fc := &fakeCompleter{
		errs:    []error{errors.New("connection reset"), nil},
		replies: []string{"", `{"summary":"ok","action_items":["a","b"]}`},
	}
	ex := NewOneOnOneExtractor(fc, fastPolicy(), nil)

	drafts, err := ex.Extract(context.Background(), "Hello", Participants{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if fc.calls != 2 {
		t.Errorf("calls = %d, want 2", fc.calls)
	}
	if len(drafts) != 3 {
		t.Errorf("len(drafts) = %d, want 3", len(drafts))
	}
	if !strings.HasSuffix(fc.prompt, "Hello") {
		t.Errorf("prompt does not carry transcript: %q", fc.prompt)
	}
}

func TestLLMExtractor_GivesUpAfterPolicy(t *testing.T) {
	fc := &fakeCompleter{errs: []error{errors.New("x"), errors.New("x"), errors.New("x"), errors.New("x")}}
	ex := NewOneOnOneExtractor(fc, fastPolicy(), nil)

	if _, err := ex.Extract(context.Background(), "Hello", Participants{}); err == nil {
		t.Fatal("expected error")
	}
	if fc.calls != 3 {
		t.Errorf("calls = %d, want 3", fc.calls)
	}
}

func TestLLMExtractor_PermanentStatusNotRetried(t *testing.T) {
	fc := &fakeCompleter{errs: []error{&retry.StatusError{Service: "claude", StatusCode: 401}}}
	ex := NewOneOnOneExtractor(fc, fastPolicy(), nil)

	if _, err := ex.Extract(context.Background(), "Hello", Participants{}); err == nil {
		t.Fatal("expected error")
	}
	if fc.calls != 1 {
		t.Errorf("calls = %d, want 1", fc.calls)
	}
}

func TestReviewExtractor_PromptNames(t *testing.T) {
	tests := []struct {
		name         string
		meetingType  entities.MeetingType
		participants Participants
		want         []string
	}{
		{
			name:         "named",
			meetingType:  entities.MeetingTypeSixMonthReview,
			participants: Participants{ManagerName: "Dana", EmployeeName: "Lee"},
			want:         []string{"six-month", "Dana is assessing Lee"},
		},
		{
			name:        "fallback",
			meetingType: entities.MeetingTypeTwelveMonthReview,
			want:        []string{"twelve-month", "the manager is assessing the employee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{replies: []string{`{"summary":"s"}`}}
			ex := NewReviewExtractor(tt.meetingType, fc, fastPolicy(), nil)
			if _, err := ex.Extract(context.Background(), "t", tt.participants); err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(fc.system, w) {
					t.Errorf("system prompt missing %q", w)
				}
			}
		})
	}
}

func TestRegistry_For(t *testing.T) {
	r := NewRegistry(&fakeCompleter{replies: []string{"{}"}}, fastPolicy(), nil)

	for _, mt := range []entities.MeetingType{
		entities.MeetingTypeOneOnOne,
		entities.MeetingTypeSixMonthReview,
		entities.MeetingTypeTwelveMonthReview,
	} {
		if r.For(mt) == nil {
			t.Errorf("no extractor for %s", mt)
		}
	}
	if r.For(entities.MeetingType("STANDUP")) != nil {
		t.Error("unknown meeting type should have no extractor")
	}
}

func TestLLMExtractor_MistypedFieldIsNotRetried(t *testing.T) {
	fc := &fakeCompleter{replies: []string{
		`{"summary":"Discussed Q3 roadmap","goals_discussed":["Ship beta"],"action_items":[{"task":"Book training"}]}`,
	}}
	ex := NewOneOnOneExtractor(fc, fastPolicy(), nil)

	drafts, err := ex.Extract(context.Background(), "Hello", Participants{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if fc.calls != 1 {
		t.Errorf("calls = %d, want 1", fc.calls)
	}
	if len(drafts) != 2 {
		t.Errorf("len(drafts) = %d, want 2", len(drafts))
	}
}
