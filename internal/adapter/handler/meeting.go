package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	meetingDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-insights/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
)

// MeetingService schedules meetings and serves access-filtered reads
type MeetingService interface {
	ScheduleMeeting(ctx context.Context, p entities.Principal, in meeting.ScheduleInput) (*meeting.ScheduleResult, error)
	ListMeetings(ctx context.Context, p entities.Principal) ([]*entities.Meeting, error)
	GetMeeting(ctx context.Context, p entities.Principal, id uuid.UUID) (*meeting.Detail, error)
}

// Meeting handles meeting requests
type Meeting struct {
	service MeetingService
	logger  *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service MeetingService, logger *zap.Logger) *Meeting {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Meeting{service: service, logger: logger}
}

// ScheduleMeeting handles POST /meetings
// @Summary      Schedule a recorded meeting
// @Description  Creates the meeting and, when a meeting URL is given, invites the recording bot
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meeting.ScheduleMeetingRequest  true  "Meeting"
// @Success      201      {object}  meeting.ScheduleMeetingResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Router       /api/meetings [post]
func (h *Meeting) ScheduleMeeting(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.ScheduleMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	employeeID, err := optionalUUID(&req.EmployeeID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	res, err := h.service.ScheduleMeeting(c.Request().Context(), p, meeting.ScheduleInput{
		EmployeeID:      *employeeID,
		MeetingType:     entities.MeetingType(req.MeetingType),
		Title:           req.Title,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		TimeZone:        req.TimeZone,
		Platform:        req.Platform,
		MeetingURL:      req.MeetingURL,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToScheduleMeetingResponse(res))
}

// ListMeetings handles GET /meetings
// @Summary      List accessible meetings
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.ListResponse
// @Router       /api/meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetings, err := h.service.ListMeetings(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Items: presenter.ToMeetingResponses(meetings), Total: len(meetings)})
}

// GetMeeting handles GET /meetings/:id
// @Summary      Get a meeting with transcript and insights
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  meeting.MeetingDetailResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	detail, err := h.service.GetMeeting(c.Request().Context(), p, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(detail))
}
