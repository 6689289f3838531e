package meeting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/usecase/insight"
)

type fakeMeetingRepo struct {
	mu       sync.Mutex
	byBot    map[string]*entities.Meeting
	writes   int
	findErr  error
	statuses []entities.MeetingStatus
	created  []*entities.Meeting
}

func newFakeMeetingRepo(meetings ...*entities.Meeting) *fakeMeetingRepo {
	r := &fakeMeetingRepo{byBot: map[string]*entities.Meeting{}}
	for _, m := range meetings {
		if m.ExternalBotID != nil {
			r.byBot[*m.ExternalBotID] = m
		}
	}
	return r
}

func (r *fakeMeetingRepo) byID(id uuid.UUID) *entities.Meeting {
	for _, m := range r.byBot {
		if m.ID == id {
			return m
		}
	}
	for _, m := range r.created {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	cp := *m
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.byID(id); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, entities.ErrMeetingNotFound
}

func (r *fakeMeetingRepo) FindByExternalBotID(_ context.Context, botID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	m, ok := r.byBot[botID]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	// hand out a copy, as a database would
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.statuses = append(r.statuses, status)
	if m := r.byID(id); m != nil {
		m.Status = status
	}
	return nil
}

func (r *fakeMeetingRepo) MarkGeneratingInsights(_ context.Context, id uuid.UUID, url *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.statuses = append(r.statuses, entities.MeetingStatusGeneratingInsights)
	if m := r.byID(id); m != nil {
		m.Status = entities.MeetingStatusGeneratingInsights
		m.AudioFileURL = url
	}
	return nil
}

func (r *fakeMeetingRepo) AttachBot(_ context.Context, id uuid.UUID, botID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	m := r.byID(id)
	if m == nil {
		return entities.ErrMeetingNotFound
	}
	m.ExternalBotID = &botID
	m.Status = entities.MeetingStatusBotInvited
	r.byBot[botID] = m
	return nil
}

func (r *fakeMeetingRepo) ListByOrganization(context.Context, uuid.UUID) ([]*entities.Meeting, error) {
	return nil, nil
}

func (r *fakeMeetingRepo) ListByParticipants(context.Context, uuid.UUID, []uuid.UUID, []uuid.UUID) ([]*entities.Meeting, error) {
	return nil, nil
}

func (r *fakeMeetingRepo) status(botID string) entities.MeetingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byBot[botID].Status
}

type fakeTranscriptRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entities.Transcript
}

func (r *fakeTranscriptRepo) Upsert(_ context.Context, t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows == nil {
		r.rows = map[uuid.UUID]*entities.Transcript{}
	}
	r.rows[t.MeetingID] = t
	return nil
}

func (r *fakeTranscriptRepo) FindByMeetingID(_ context.Context, id uuid.UUID) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.rows[id]; ok {
		return t, nil
	}
	return nil, entities.ErrTranscriptNotFound
}

type fakeInsightRepo struct {
	mu   sync.Mutex
	rows []*entities.Insight
	err  error
}

func (r *fakeInsightRepo) CreateBatch(_ context.Context, rows []*entities.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *fakeInsightRepo) ListByMeetingID(_ context.Context, id uuid.UUID) ([]*entities.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Insight
	for _, row := range r.rows {
		if row.MeetingID == id {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeInsightRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeExtractor struct {
	drafts       []insight.Draft
	err          error
	calls        int
	participants insight.Participants
	started      chan struct{}
	block        chan struct{}
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, p insight.Participants) ([]insight.Draft, error) {
	f.calls++
	f.participants = p
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.drafts, f.err
}

type fakeExtractors map[entities.MeetingType]insight.Extractor

func (f fakeExtractors) For(t entities.MeetingType) insight.Extractor {
	return f[t]
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) MeetingCompleted(context.Context, *entities.Meeting, int) error {
	n.calls++
	return n.err
}

type fakeArchive struct {
	objects map[uuid.UUID][]byte
}

func (a *fakeArchive) ArchiveTranscript(_ context.Context, id uuid.UUID, raw []byte) (string, error) {
	if a.objects == nil {
		a.objects = map[uuid.UUID][]byte{}
	}
	a.objects[id] = raw
	return "meetings/" + id.String() + "/transcript.json", nil
}

type fixture struct {
	meeting     *entities.Meeting
	meetings    *fakeMeetingRepo
	transcripts *fakeTranscriptRepo
	insights    *fakeInsightRepo
	extractor   *fakeExtractor
	notifier    *fakeNotifier
}

func newFixture(meetingType entities.MeetingType, status entities.MeetingStatus) *fixture {
	botID := "bot-" + uuid.NewString()
	m := &entities.Meeting{
		ID:            uuid.New(),
		MeetingType:   meetingType,
		Status:        status,
		ScheduledTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		TimeZone:      "UTC",
		ExternalBotID: &botID,
		Manager:       &entities.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Employee:      &entities.Employee{FirstName: "Alan", LastName: "Turing"},
	}
	return &fixture{
		meeting:     m,
		meetings:    newFakeMeetingRepo(m),
		transcripts: &fakeTranscriptRepo{},
		insights:    &fakeInsightRepo{},
		extractor: &fakeExtractor{drafts: []insight.Draft{
			{Type: entities.InsightTypeSummary, Content: "Talked about Q3"},
			{Type: entities.InsightTypeActionItem, Content: "Ship the beta"},
			{Type: entities.InsightTypeActionItem, Content: "Book training"},
		}},
		notifier: &fakeNotifier{},
	}
}

func (f *fixture) botID() string { return *f.meeting.ExternalBotID }

func (f *fixture) coordinator(opts ...Option) *Coordinator {
	extractors := fakeExtractors{
		entities.MeetingTypeOneOnOne:          f.extractor,
		entities.MeetingTypeSixMonthReview:    f.extractor,
		entities.MeetingTypeTwelveMonthReview: f.extractor,
	}
	return NewCoordinator(f.meetings, f.transcripts, f.insights, extractors, f.notifier, CoordinatorConfig{}, nil, opts...)
}

func helloSegments() []entities.TranscriptSegment {
	return []entities.TranscriptSegment{
		{Speaker: "Ada", Words: []entities.TranscriptWord{{Word: "Hello"}, {Word: " world"}}},
		{Speaker: "Alan", Words: []entities.TranscriptWord{{Word: "Again"}}},
	}
}

func (f *fixture) completeEvent() BotEvent {
	return BotEvent{
		Event:        EventComplete,
		BotID:        f.botID(),
		Transcript:   helloSegments(),
		RecordingURL: "https://cdn.example.com/rec.mp4",
	}
}

func TestReconstructTranscript(t *testing.T) {
	got := ReconstructTranscript(helloSegments())
	if got != "Hello world\nAgain" {
		t.Errorf("ReconstructTranscript() = %q, want %q", got, "Hello world\nAgain")
	}
	if got := ReconstructTranscript(nil); got != "" {
		t.Errorf("ReconstructTranscript(nil) = %q, want empty", got)
	}
}

func TestHandleBotEvent_UnknownBot(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	c := f.coordinator()

	for _, ev := range []BotEvent{
		{Event: EventStatusChange, BotID: "nobody", StatusCode: "in_call_recording"},
		{Event: EventComplete, BotID: "nobody", Transcript: helloSegments()},
	} {
		out, err := c.HandleBotEvent(context.Background(), ev)
		if err != nil {
			t.Fatalf("HandleBotEvent() error = %v", err)
		}
		if out.Matched {
			t.Error("expected unmatched outcome")
		}
		if out.Label() != "unmatched" {
			t.Errorf("Label() = %q, want unmatched", out.Label())
		}
	}
	if f.meetings.writes != 0 || len(f.transcripts.rows) != 0 || f.insights.count() != 0 {
		t.Errorf("unknown bot caused writes: meetings=%d transcripts=%d insights=%d",
			f.meetings.writes, len(f.transcripts.rows), f.insights.count())
	}
}

func TestHandleBotEvent_LookupFailure(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	f.meetings.findErr = errors.New("connection refused")

	_, err := f.coordinator().HandleBotEvent(context.Background(), BotEvent{Event: EventComplete, BotID: f.botID()})
	if err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestHandleBotEvent_StatusChange(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	out, err := f.coordinator().HandleBotEvent(context.Background(), BotEvent{
		Event: EventStatusChange, BotID: f.botID(), StatusCode: "in_call_recording",
	})
	if err != nil {
		t.Fatalf("HandleBotEvent() error = %v", err)
	}
	if out.Status != "IN_CALL_RECORDING" || f.meetings.status(f.botID()) != "IN_CALL_RECORDING" {
		t.Errorf("status = %q, want IN_CALL_RECORDING", out.Status)
	}
}

func TestHandleBotEvent_WaitingRoomRule(t *testing.T) {
	thirty := 30
	tests := []struct {
		name     string
		timeZone string
		now      time.Time
		want     entities.MeetingStatus
	}{
		{
			name:     "utc past end",
			timeZone: "UTC",
			now:      time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC),
			want:     entities.MeetingStatusDidNotHappen,
		},
		{
			name:     "utc before end",
			timeZone: "UTC",
			now:      time.Date(2026, 3, 2, 10, 10, 0, 0, time.UTC),
			want:     entities.MeetingStatusInWaitingRoom,
		},
		{
			// 10:00 in New York is 15:00 UTC in March before DST
			name:     "zone aware before end",
			timeZone: "America/New_York",
			now:      time.Date(2026, 3, 2, 15, 10, 0, 0, time.UTC),
			want:     entities.MeetingStatusInWaitingRoom,
		},
		{
			name:     "zone aware past end",
			timeZone: "America/New_York",
			now:      time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC),
			want:     entities.MeetingStatusDidNotHappen,
		},
		{
			name:     "unknown zone falls back to utc",
			timeZone: "Mars/Olympus_Mons",
			now:      time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC),
			want:     entities.MeetingStatusDidNotHappen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
			f.meeting.DurationMinutes = &thirty
			f.meeting.TimeZone = tt.timeZone

			c := f.coordinator(WithClock(func() time.Time { return tt.now }))
			out, err := c.HandleBotEvent(context.Background(), BotEvent{
				Event: EventStatusChange, BotID: f.botID(), StatusCode: "in_waiting_room",
			})
			if err != nil {
				t.Fatalf("HandleBotEvent() error = %v", err)
			}
			if out.Status != tt.want {
				t.Errorf("status = %q, want %q", out.Status, tt.want)
			}
		})
	}
}

func TestScheduledEnd_DefaultDuration(t *testing.T) {
	m := &entities.Meeting{ScheduledTime: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), TimeZone: "UTC"}
	end, naive := ScheduledEnd(m)
	if naive {
		t.Error("UTC should load")
	}
	if want := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("ScheduledEnd() = %v, want %v", end, want)
	}
	if past, _ := PastScheduledEnd(m, time.Date(2026, 1, 1, 10, 1, 0, 0, time.UTC)); !past {
		t.Error("expected past scheduled end")
	}
}

func TestHandleBotEvent_StatusChangeIgnoredWhenFinal(t *testing.T) {
	for _, status := range []entities.MeetingStatus{
		entities.MeetingStatusCompleted,
		entities.MeetingStatusErrorNLP,
		entities.MeetingStatusGeneratingInsights,
	} {
		f := newFixture(entities.MeetingTypeOneOnOne, status)
		out, err := f.coordinator().HandleBotEvent(context.Background(), BotEvent{
			Event: EventStatusChange, BotID: f.botID(), StatusCode: "in_call_recording",
		})
		if err != nil {
			t.Fatalf("HandleBotEvent() error = %v", err)
		}
		if !out.Ignored {
			t.Errorf("%s: expected ignored outcome", status)
		}
		if f.meetings.writes != 0 {
			t.Errorf("%s: status change wrote %d times", status, f.meetings.writes)
		}
	}
}

func TestHandleBotEvent_CompleteSuccess(t *testing.T) {
	f := newFixture(entities.MeetingTypeSixMonthReview, entities.MeetingStatus("IN_CALL_RECORDING"))
	archive := &fakeArchive{}

	out, err := f.coordinator(WithArchive(archive)).HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("HandleBotEvent() error = %v", err)
	}

	if out.Status != entities.MeetingStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", out.Status)
	}
	if out.InsightCount != 3 || f.insights.count() != 3 {
		t.Errorf("insights = %d/%d, want 3", out.InsightCount, f.insights.count())
	}
	if failed := out.Failed(); len(failed) != 0 {
		t.Errorf("unexpected failed steps: %v", failed)
	}

	tr, err := f.transcripts.FindByMeetingID(context.Background(), f.meeting.ID)
	if err != nil {
		t.Fatalf("transcript not stored: %v", err)
	}
	if tr.Content != "Hello world\nAgain" {
		t.Errorf("transcript content = %q", tr.Content)
	}
	if raw := archive.objects[f.meeting.ID]; len(raw) == 0 {
		t.Error("transcript was not archived")
	}
	if f.notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", f.notifier.calls)
	}
	if f.extractor.participants.ManagerName != "Ada Lovelace" || f.extractor.participants.EmployeeName != "Alan Turing" {
		t.Errorf("participants = %+v", f.extractor.participants)
	}

	stored, _ := f.meetings.FindByID(context.Background(), f.meeting.ID)
	if stored.AudioFileURL == nil || *stored.AudioFileURL != "https://cdn.example.com/rec.mp4" {
		t.Errorf("recording url not stored: %v", stored.AudioFileURL)
	}
	wantTrail := []entities.MeetingStatus{entities.MeetingStatusGeneratingInsights, entities.MeetingStatusCompleted}
	if len(f.meetings.statuses) != len(wantTrail) {
		t.Fatalf("status trail = %v, want %v", f.meetings.statuses, wantTrail)
	}
	for i := range wantTrail {
		if f.meetings.statuses[i] != wantTrail[i] {
			t.Errorf("status trail = %v, want %v", f.meetings.statuses, wantTrail)
		}
	}
}

func TestHandleBotEvent_CompleteMissingTranscript(t *testing.T) {
	for name, segments := range map[string][]entities.TranscriptSegment{
		"absent":     nil,
		"no words":   {{Speaker: "Ada"}},
		"whitespace": {{Words: []entities.TranscriptWord{{Word: "  "}}}},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
			ev := f.completeEvent()
			ev.Transcript = segments

			out, err := f.coordinator().HandleBotEvent(context.Background(), ev)
			if err != nil {
				t.Fatalf("HandleBotEvent() error = %v", err)
			}
			if out.Status != entities.MeetingStatusErrorMissingTranscript {
				t.Errorf("status = %q, want ERROR_MISSING_TRANSCRIPT", out.Status)
			}
			if len(f.transcripts.rows) != 0 {
				t.Error("transcript row created for empty transcript")
			}
			if f.extractor.calls != 0 {
				t.Error("extractor called for empty transcript")
			}
		})
	}
}

func TestHandleBotEvent_CompleteBotError(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	ev := f.completeEvent()
	ev.Error = "transcription provider failed"

	out, _ := f.coordinator().HandleBotEvent(context.Background(), ev)
	if out.Status != entities.MeetingStatusErrorTranscription {
		t.Errorf("status = %q, want ERROR_TRANSCRIPTION", out.Status)
	}
	if len(f.transcripts.rows) != 0 || f.extractor.calls != 0 {
		t.Error("bot error should stop processing")
	}
}

func TestHandleBotEvent_CompleteNLPFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		typ   entities.MeetingType
	}{
		{
			name:  "extractor error",
			setup: func(f *fixture) { f.extractor.err = errors.New("llm unavailable"); f.extractor.drafts = nil },
			typ:   entities.MeetingTypeOneOnOne,
		},
		{
			name:  "extractor empty",
			setup: func(f *fixture) { f.extractor.drafts = nil },
			typ:   entities.MeetingTypeOneOnOne,
		},
		{
			name:  "unknown meeting type",
			setup: func(*fixture) {},
			typ:   entities.MeetingType("STANDUP"),
		},
		{
			name:  "insert failure",
			setup: func(f *fixture) { f.insights.err = errors.New("disk full") },
			typ:   entities.MeetingTypeOneOnOne,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.typ, entities.MeetingStatusBotInvited)
			tt.setup(f)

			out, err := f.coordinator().HandleBotEvent(context.Background(), f.completeEvent())
			if err != nil {
				t.Fatalf("HandleBotEvent() error = %v", err)
			}
			if out.Status != entities.MeetingStatusErrorNLP {
				t.Errorf("status = %q, want ERROR_NLP", out.Status)
			}
			if f.insights.count() != 0 {
				t.Errorf("insights = %d, want 0", f.insights.count())
			}
			if f.notifier.calls != 0 {
				t.Error("notifier called on NLP failure")
			}
			if len(f.transcripts.rows) != 1 {
				t.Error("transcript should still be stored")
			}
		})
	}
}

func TestHandleBotEvent_NotifyFailureIsNotFatal(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	f.notifier.err = errors.New("sendgrid down")

	out, err := f.coordinator().HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("HandleBotEvent() error = %v", err)
	}
	if out.Status != entities.MeetingStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", out.Status)
	}
	failed := out.Failed()
	if len(failed) != 1 || failed[0].Name != StepNotify {
		t.Errorf("failed steps = %v, want only %s", failed, StepNotify)
	}
	if out.Label() != "degraded" {
		t.Errorf("Label() = %q, want degraded", out.Label())
	}
}

func TestHandleBotEvent_RedeliveredCompleteIsNoop(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	c := f.coordinator()

	if _, err := c.HandleBotEvent(context.Background(), f.completeEvent()); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	writes := f.meetings.writes

	out, err := c.HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if !out.Ignored {
		t.Error("redelivery after COMPLETED should be ignored")
	}
	if f.insights.count() != 3 {
		t.Errorf("insights = %d after redelivery, want 3", f.insights.count())
	}
	if f.meetings.writes != writes || f.notifier.calls != 1 {
		t.Error("redelivery caused writes or notifications")
	}
}

func TestHandleBotEvent_CompleteResumesGeneratingInsights(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusGeneratingInsights)
	out, _ := f.coordinator().HandleBotEvent(context.Background(), f.completeEvent())
	if out.Status != entities.MeetingStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", out.Status)
	}
}

func TestHandleBotEvent_ConcurrentCompleteIsSerialized(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	f.extractor.block = make(chan struct{})
	f.extractor.started = make(chan struct{}, 1)

	store := cache.NewMemoryStore()
	defer store.Close()
	c := f.coordinator(WithLocker(cache.NewMemoryLocker(store, "test:")))

	first := make(chan *Outcome)
	go func() {
		out, _ := c.HandleBotEvent(context.Background(), f.completeEvent())
		first <- out
	}()

	// the first delivery holds the lock once extraction has started
	select {
	case <-f.extractor.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first delivery never reached extraction")
	}

	second, err := c.HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !second.Ignored || second.Reason != "already processing" {
		t.Errorf("second delivery = %+v, want ignored as already processing", second)
	}

	close(f.extractor.block)
	if out := <-first; out.Status != entities.MeetingStatusCompleted {
		t.Errorf("first delivery status = %q, want COMPLETED", out.Status)
	}
	if f.insights.count() != 3 {
		t.Errorf("insights = %d, want 3", f.insights.count())
	}
}

// beforeLocker runs hook once ahead of the first TryLock
type beforeLocker struct {
	inner cache.Locker
	hook  func()
	once  sync.Once
}

func (l *beforeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (cache.ReleaseFunc, bool, error) {
	l.once.Do(l.hook)
	return l.inner.TryLock(ctx, key, ttl)
}

func TestHandleBotEvent_CompleteFinishedBeforeLockIsNoop(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)

	store := cache.NewMemoryStore()
	defer store.Close()
	inner := cache.NewMemoryLocker(store, "test:")

	var first *Outcome
	locker := &beforeLocker{inner: inner, hook: func() {
		// another delivery completes the meeting between lookup and lock
		first, _ = f.coordinator(WithLocker(inner)).HandleBotEvent(context.Background(), f.completeEvent())
	}}

	second, err := f.coordinator(WithLocker(locker)).HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if first == nil || first.Status != entities.MeetingStatusCompleted {
		t.Fatalf("first delivery = %+v, want COMPLETED", first)
	}
	if !second.Ignored || second.Reason != "meeting already COMPLETED" {
		t.Errorf("second delivery = %+v, want ignored as already COMPLETED", second)
	}
	if second.Status != entities.MeetingStatusCompleted {
		t.Errorf("second delivery status = %q, want COMPLETED", second.Status)
	}
	if f.insights.count() != 3 || f.notifier.calls != 1 || f.extractor.calls != 1 {
		t.Errorf("insights = %d, notifications = %d, extractions = %d; want 3, 1, 1",
			f.insights.count(), f.notifier.calls, f.extractor.calls)
	}
}

func TestHandleBotEvent_CompleteReloadFailureStops(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)

	store := cache.NewMemoryStore()
	defer store.Close()
	locker := &beforeLocker{inner: cache.NewMemoryLocker(store, "test:"), hook: func() {
		f.meetings.mu.Lock()
		f.meetings.findErr = errors.New("connection reset")
		f.meetings.mu.Unlock()
	}}

	out, err := f.coordinator(WithLocker(locker)).HandleBotEvent(context.Background(), f.completeEvent())
	if err != nil {
		t.Fatalf("HandleBotEvent() error = %v", err)
	}
	failed := out.Failed()
	if len(failed) != 1 || failed[0].Name != StepReloadMeeting {
		t.Errorf("failed steps = %+v, want %s", failed, StepReloadMeeting)
	}
	if f.meetings.writes != 0 || f.extractor.calls != 0 {
		t.Errorf("writes = %d, extractions = %d; want none", f.meetings.writes, f.extractor.calls)
	}
}

func TestHandleBotEvent_UnsupportedEvent(t *testing.T) {
	f := newFixture(entities.MeetingTypeOneOnOne, entities.MeetingStatusBotInvited)
	out, err := f.coordinator().HandleBotEvent(context.Background(), BotEvent{Event: "bot.joined", BotID: f.botID()})
	if err != nil {
		t.Fatalf("HandleBotEvent() error = %v", err)
	}
	if !out.Ignored || f.meetings.writes != 0 {
		t.Errorf("unsupported event should be ignored without writes: %+v", out)
	}
}
