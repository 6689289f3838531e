package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/meetingbaas"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
)

// BotInviter sends a recording bot into a call
type BotInviter interface {
	Enabled() bool
	InviteBot(ctx context.Context, inv meetingbaas.Invitation) (string, error)
}

// AccessChecker is the part of the access resolver the meeting service relies on
type AccessChecker interface {
	Employee(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Employee, error)
	AccessibleMeetings(ctx context.Context, p entities.Principal) ([]*entities.Meeting, error)
	CanViewMeeting(ctx context.Context, p entities.Principal, meetingID uuid.UUID) (bool, error)
}

// ScheduleInput describes a meeting to schedule
type ScheduleInput struct {
	EmployeeID      uuid.UUID
	MeetingType     entities.MeetingType
	Title           string
	ScheduledTime   time.Time
	DurationMinutes *int
	TimeZone        string
	Platform        string
	MeetingURL      string
}

// ScheduleResult is the created meeting plus the outcome of the bot invitation
type ScheduleResult struct {
	Meeting   *entities.Meeting
	BotInvite error
}

// Detail is a meeting together with its transcript and insights
type Detail struct {
	Meeting    *entities.Meeting
	Transcript *entities.Transcript
	Insights   []*entities.Insight
}

// Service schedules meetings and serves access-filtered reads
type Service struct {
	meetings    repositories.MeetingRepository
	transcripts repositories.TranscriptRepository
	insights    repositories.InsightRepository
	access      AccessChecker
	bots        BotInviter
	policy      retry.Policy
	logger      *zap.Logger
}

// NewService creates a new meeting service
func NewService(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	insights repositories.InsightRepository,
	access AccessChecker,
	bots BotInviter,
	policy retry.Policy,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		meetings:    meetings,
		transcripts: transcripts,
		insights:    insights,
		access:      access,
		bots:        bots,
		policy:      policy,
		logger:      logger,
	}
}

// ScheduleMeeting creates a meeting between the principal and an accessible employee.
// When a meeting URL is given and the bot provider is configured, a bot is invited;
// an invitation failure leaves the meeting in PENDING_BOT_INVITE and is reported in the result.
func (s *Service) ScheduleMeeting(ctx context.Context, p entities.Principal, in ScheduleInput) (*ScheduleResult, error) {
	if !p.HasOrganization() {
		return nil, entities.ErrForbidden
	}
	if !in.MeetingType.IsValid() {
		return nil, entities.ErrInvalidMeetingType
	}
	if in.ScheduledTime.IsZero() {
		return nil, entities.ErrInvalidScheduleTime
	}

	employee, err := s.access.Employee(ctx, p, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	m := entities.NewMeeting(*p.OrganizationID, p.UserID, employee.ID, in.MeetingType, in.ScheduledTime, in.TimeZone)
	m.Title = in.Title
	m.DurationMinutes = in.DurationMinutes
	m.Platform = in.Platform
	if url := strings.TrimSpace(in.MeetingURL); url != "" {
		m.MeetingURL = &url
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Employee = employee

	s.logger.Info("meeting scheduled",
		zap.String("meeting_id", m.ID.String()),
		zap.String("employee_id", employee.ID.String()),
		zap.String("meeting_type", string(m.MeetingType)),
	)

	result := &ScheduleResult{Meeting: m}
	if m.MeetingURL == nil || s.bots == nil || !s.bots.Enabled() {
		return result, nil
	}

	botID, err := s.inviteBot(ctx, m)
	if err != nil {
		s.logger.Error("failed to invite recording bot",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
		result.BotInvite = err
		return result, nil
	}

	if err := s.meetings.AttachBot(ctx, m.ID, botID); err != nil {
		s.logger.Error("failed to attach bot to meeting",
			zap.String("meeting_id", m.ID.String()),
			zap.String("bot_id", botID),
			zap.Error(err),
		)
		result.BotInvite = fmt.Errorf("bot %s invited but not stored: %w", botID, err)
		return result, nil
	}
	m.ExternalBotID = &botID
	m.Status = entities.MeetingStatusBotInvited
	return result, nil
}

func (s *Service) inviteBot(ctx context.Context, m *entities.Meeting) (string, error) {
	start, _ := ScheduledStart(m)
	inv := meetingbaas.Invitation{
		MeetingURL: *m.MeetingURL,
		StartTime:  start,
		Extra:      map[string]string{"meeting_id": m.ID.String()},
	}

	var botID string
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		id, err := s.bots.InviteBot(ctx, inv)
		if err != nil {
			return err
		}
		botID = id
		return nil
	}, func(err error, wait time.Duration) {
		s.logger.Warn("bot invitation failed, retrying",
			zap.String("meeting_id", m.ID.String()),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	return botID, err
}

// ListMeetings returns the meetings the principal may read
func (s *Service) ListMeetings(ctx context.Context, p entities.Principal) ([]*entities.Meeting, error) {
	return s.access.AccessibleMeetings(ctx, p)
}

// GetMeeting returns an accessible meeting with its transcript and insights.
// Meetings outside the principal's scope are reported as not found.
func (s *Service) GetMeeting(ctx context.Context, p entities.Principal, id uuid.UUID) (*Detail, error) {
	ok, err := s.access.CanViewMeeting(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}

	m, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &Detail{Meeting: m}

	transcript, err := s.transcripts.FindByMeetingID(ctx, id)
	switch {
	case err == nil:
		detail.Transcript = transcript
	case !errors.Is(err, entities.ErrTranscriptNotFound):
		return nil, err
	}

	detail.Insights, err = s.insights.ListByMeetingID(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}
