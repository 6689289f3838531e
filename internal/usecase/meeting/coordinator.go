package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-insights/internal/usecase/insight"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

// Step names reported in Outcome.Steps
const (
	StepUpdateStatus       = "update_status"
	StepUpsertTranscript   = "upsert_transcript"
	StepArchiveTranscript  = "archive_transcript"
	StepMarkGenerating     = "mark_generating_insights"
	StepExtractInsights    = "extract_insights"
	StepSaveInsights       = "save_insights"
	StepNotify             = "notify_manager"
	StepAcquireLock        = "acquire_lock"
	StepReloadMeeting      = "reload_meeting"
	StepEncodeTranscript   = "encode_transcript"
	extractionJobType      = "extract_insights"
	completionLockPrefix   = "complete:"
	defaultExtractionLimit = 3 * time.Minute
	defaultLockTTL         = 10 * time.Minute
)

// ExtractorSource picks the extractor for a meeting type; nil means unsupported
type ExtractorSource interface {
	For(meetingType entities.MeetingType) insight.Extractor
}

// CompletionNotifier tells the manager that insights are ready
type CompletionNotifier interface {
	MeetingCompleted(ctx context.Context, meeting *entities.Meeting, insightCount int) error
}

// TranscriptArchiver stores the raw transcript payload
type TranscriptArchiver interface {
	ArchiveTranscript(ctx context.Context, meetingID uuid.UUID, raw []byte) (string, error)
}

// CoordinatorConfig bounds the pipeline
type CoordinatorConfig struct {
	ExtractionTimeout time.Duration
	LockTTL           time.Duration
}

// Option customises a Coordinator
type Option func(*Coordinator)

// WithClock overrides the time source used by the waiting-room rule
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLocker serialises concurrent complete deliveries for the same bot
func WithLocker(l cache.Locker) Option {
	return func(c *Coordinator) { c.locker = l }
}

// WithArchive stores raw transcripts in object storage
func WithArchive(a TranscriptArchiver) Option {
	return func(c *Coordinator) { c.archive = a }
}

// WithMetrics records status transitions and extraction latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// Coordinator drives a meeting through its lifecycle from recording-bot webhook events
type Coordinator struct {
	meetings    repositories.MeetingRepository
	transcripts repositories.TranscriptRepository
	insights    repositories.InsightRepository
	extractors  ExtractorSource
	notifier    CompletionNotifier
	archive     TranscriptArchiver
	locker      cache.Locker
	metrics     *metrics.Metrics
	now         func() time.Time
	cfg         CoordinatorConfig
	logger      *zap.Logger
}

// NewCoordinator creates a lifecycle coordinator
func NewCoordinator(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	insights repositories.InsightRepository,
	extractors ExtractorSource,
	notifier CompletionNotifier,
	cfg CoordinatorConfig,
	logger *zap.Logger,
	opts ...Option,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExtractionTimeout <= 0 {
		cfg.ExtractionTimeout = defaultExtractionLimit
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	c := &Coordinator{
		meetings:    meetings,
		transcripts: transcripts,
		insights:    insights,
		extractors:  extractors,
		notifier:    notifier,
		now:         time.Now,
		cfg:         cfg,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleBotEvent applies one webhook event. Events for unknown bots are acknowledged
// without writes. Every step after the meeting lookup is best-effort and reported in
// the outcome; the error return is reserved for the lookup itself failing.
func (c *Coordinator) HandleBotEvent(ctx context.Context, ev BotEvent) (*Outcome, error) {
	out := &Outcome{Event: ev.Event, BotID: ev.BotID}

	meeting, err := c.meetings.FindByExternalBotID(ctx, ev.BotID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			c.logger.Info("bot event for unknown meeting",
				zap.String("bot_id", ev.BotID),
				zap.String("event", ev.Event),
			)
			return out, nil
		}
		return nil, fmt.Errorf("failed to find meeting for bot %s: %w", ev.BotID, err)
	}

	out.Matched = true
	out.MeetingID = meeting.ID
	out.Status = meeting.Status

	switch ev.Event {
	case EventStatusChange:
		c.handleStatusChange(ctx, meeting, ev, out)
	case EventComplete:
		// the provider may drop the connection; processing must still finish
		c.handleComplete(context.WithoutCancel(ctx), meeting, ev, out)
	default:
		out.ignore("unsupported event")
	}

	c.logOutcome(out)
	return out, nil
}

func (c *Coordinator) handleStatusChange(ctx context.Context, meeting *entities.Meeting, ev BotEvent, out *Outcome) {
	status := entities.StatusFromProviderCode(ev.StatusCode)
	if status == "" {
		out.ignore("missing status code")
		return
	}
	if !meeting.Status.AcceptsStatusChange() {
		out.ignore(fmt.Sprintf("status %s is final for status changes", meeting.Status))
		return
	}

	if status == entities.MeetingStatusInWaitingRoom {
		past, naive := PastScheduledEnd(meeting, c.now())
		if naive {
			c.logger.Warn("meeting time zone unavailable, comparing in UTC",
				zap.String("meeting_id", meeting.ID.String()),
				zap.String("time_zone", meeting.TimeZone),
			)
		}
		if past {
			status = entities.MeetingStatusDidNotHappen
		}
	}

	c.setStatus(ctx, meeting, status, out)
}

func (c *Coordinator) handleComplete(ctx context.Context, meeting *entities.Meeting, ev BotEvent, out *Outcome) {
	if !meeting.Status.AcceptsCompletion() {
		out.ignore(fmt.Sprintf("meeting already %s", meeting.Status))
		return
	}

	if c.locker != nil {
		release, ok, err := c.locker.TryLock(ctx, completionLockPrefix+ev.BotID, c.cfg.LockTTL)
		switch {
		case err != nil:
			// lock backend down: process unlocked
			out.record(StepAcquireLock, err)
		case !ok:
			out.ignore("already processing")
			return
		default:
			defer func() {
				if err := release(ctx); err != nil {
					c.logger.Warn("failed to release completion lock",
						zap.String("bot_id", ev.BotID),
						zap.Error(err),
					)
				}
			}()

			// a delivery holding the lock may have finished since the lookup
			current, err := c.meetings.FindByExternalBotID(ctx, ev.BotID)
			if err != nil {
				out.record(StepReloadMeeting, err)
				return
			}
			if !current.Status.AcceptsCompletion() {
				out.Status = current.Status
				out.ignore(fmt.Sprintf("meeting already %s", current.Status))
				return
			}
			*meeting = *current
			out.Status = meeting.Status
		}
	}

	if strings.TrimSpace(ev.Error) != "" {
		c.logger.Warn("bot reported processing error",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("bot_error", ev.Error),
		)
		c.setStatus(ctx, meeting, entities.MeetingStatusErrorTranscription, out)
		return
	}

	text := ReconstructTranscript(ev.Transcript)
	if strings.TrimSpace(text) == "" {
		c.setStatus(ctx, meeting, entities.MeetingStatusErrorMissingTranscript, out)
		return
	}

	raw := ev.RawTranscript
	if len(raw) == 0 {
		encoded, err := json.Marshal(ev.Transcript)
		out.record(StepEncodeTranscript, err)
		raw = encoded
	}

	out.record(StepUpsertTranscript, c.transcripts.Upsert(ctx, entities.NewTranscript(meeting.ID, text, raw)))

	if c.archive != nil {
		_, err := c.archive.ArchiveTranscript(ctx, meeting.ID, raw)
		out.record(StepArchiveTranscript, err)
	}

	var recordingURL *string
	if ev.RecordingURL != "" {
		recordingURL = &ev.RecordingURL
	}
	err := c.meetings.MarkGeneratingInsights(ctx, meeting.ID, recordingURL)
	out.record(StepMarkGenerating, err)
	if err == nil {
		meeting.Status = entities.MeetingStatusGeneratingInsights
		meeting.AudioFileURL = recordingURL
		out.Status = meeting.Status
		c.metrics.MeetingStatus(string(meeting.Status))
	}

	drafts := c.extract(ctx, meeting, ev.BotID, text, out)
	if len(drafts) == 0 {
		c.setStatus(ctx, meeting, entities.MeetingStatusErrorNLP, out)
		return
	}

	rows := make([]*entities.Insight, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, entities.NewInsight(meeting.ID, d.Type, d.Content))
	}
	if err := c.insights.CreateBatch(ctx, rows); err != nil {
		out.record(StepSaveInsights, err)
		c.setStatus(ctx, meeting, entities.MeetingStatusErrorNLP, out)
		return
	}
	out.record(StepSaveInsights, nil)
	out.InsightCount = len(rows)

	c.setStatus(ctx, meeting, entities.MeetingStatusCompleted, out)

	if c.notifier != nil {
		out.record(StepNotify, c.notifier.MeetingCompleted(ctx, meeting, len(rows)))
	}
}

// extract runs the type-specific extractor under a bounded job context.
// Failures and unsupported types yield no drafts.
func (c *Coordinator) extract(ctx context.Context, meeting *entities.Meeting, botID, text string, out *Outcome) []insight.Draft {
	extractor := c.extractors.For(meeting.MeetingType)
	if extractor == nil {
		c.logger.Warn("no extractor for meeting type",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("meeting_type", string(meeting.MeetingType)),
		)
		c.metrics.ObserveExtraction(string(meeting.MeetingType), "unsupported", 0)
		return nil
	}

	jobCtx, cancel := jobcontext.JobBegin(ctx, extractionJobType, meeting.ID, botID, c.cfg.ExtractionTimeout)
	defer cancel()

	participants := insight.Participants{
		ManagerName:  meeting.Manager.DisplayName(),
		EmployeeName: meeting.Employee.DisplayName(),
	}

	start := time.Now()
	drafts, err := extractor.Extract(jobCtx, text, participants)
	out.record(StepExtractInsights, err)

	result := "ok"
	switch {
	case err != nil:
		result = "error"
		drafts = nil
	case len(drafts) == 0:
		result = "empty"
	}
	c.metrics.ObserveExtraction(string(meeting.MeetingType), result, time.Since(start))
	return drafts
}

func (c *Coordinator) setStatus(ctx context.Context, meeting *entities.Meeting, status entities.MeetingStatus, out *Outcome) {
	err := c.meetings.UpdateStatus(ctx, meeting.ID, status)
	out.record(StepUpdateStatus, err)
	if err != nil {
		return
	}
	meeting.Status = status
	out.Status = status
	c.metrics.MeetingStatus(string(status))
}

func (c *Coordinator) logOutcome(out *Outcome) {
	fields := []zap.Field{
		zap.String("event", out.Event),
		zap.String("bot_id", out.BotID),
		zap.String("meeting_id", out.MeetingID.String()),
		zap.String("status", string(out.Status)),
		zap.Int("insights", out.InsightCount),
	}
	if out.Ignored {
		c.logger.Info("bot event ignored", append(fields, zap.String("reason", out.Reason))...)
		return
	}
	failed := out.Failed()
	if len(failed) == 0 {
		c.logger.Info("bot event handled", fields...)
		return
	}
	for _, step := range failed {
		c.logger.Error("bot event step failed",
			append(fields, zap.String("step", step.Name), zap.Error(step.Err))...,
		)
	}
}
