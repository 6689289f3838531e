package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	webhookDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// maxWebhookBody bounds webhook payloads; complete events carry the full transcript
const maxWebhookBody = 32 << 20

// otherEventLabel is the metrics label for event names outside the known set
const otherEventLabel = "other"

// botEventLabel keeps the webhook metric's event label to a closed set
func botEventLabel(event string) string {
	switch event {
	case meeting.EventStatusChange, meeting.EventComplete:
		return event
	}
	return otherEventLabel
}

// BotEventHandler applies recording-bot events
type BotEventHandler interface {
	HandleBotEvent(ctx context.Context, ev meeting.BotEvent) (*meeting.Outcome, error)
}

// WebhookHandler handles recording-bot webhook events
type WebhookHandler struct {
	coordinator BotEventHandler
	apiKey      string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. An empty apiKey disables the header check.
func NewWebhookHandler(coordinator BotEventHandler, apiKey string, m *metrics.Metrics, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		coordinator: coordinator,
		apiKey:      apiKey,
		metrics:     m,
		logger:      logger,
	}
}

// HandleMeetingBaaS receives bot status changes and completed recordings
// @Summary      MeetingBaaS Webhook
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.AckResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/webhooks/meetingbaas [post]
func (h *WebhookHandler) HandleMeetingBaaS(c echo.Context) error {
	if h.apiKey != "" && !ai.SecretEqual(h.apiKey, c.Request().Header.Get(webhookDTO.MeetingBaaSAPIKeyHeader)) {
		h.metrics.WebhookEvent("meetingbaas", "unauthorized")
		return HandleError(h.logger, c, errors.ErrWebhookUnauthorized())
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	var payload webhookDTO.MeetingBaaSEvent
	if err := json.Unmarshal(body, &payload); err != nil {
		h.metrics.WebhookEvent("meetingbaas", "invalid")
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if payload.Data.BotID == "" {
		h.metrics.WebhookEvent(botEventLabel(payload.Event), "invalid")
		return HandleError(h.logger, c, errors.ErrMissingField("data.bot_id"))
	}

	segments, err := payload.Data.Segments()
	if err != nil {
		h.metrics.WebhookEvent(botEventLabel(payload.Event), "invalid")
		return HandleError(h.logger, c, errors.ErrInvalidPayload().WithDetail("field", "data.transcript"))
	}

	ev := meeting.BotEvent{
		Event:         payload.Event,
		BotID:         payload.Data.BotID,
		StatusCode:    payload.Data.StatusCode(),
		Transcript:    segments,
		RawTranscript: payload.Data.Transcript,
		RecordingURL:  payload.Data.MP4,
		Error:         payload.Data.Error,
	}

	out, err := h.coordinator.HandleBotEvent(c.Request().Context(), ev)
	if err != nil {
		h.metrics.WebhookEvent(botEventLabel(ev.Event), "error")
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	h.metrics.WebhookEvent(botEventLabel(ev.Event), out.Label())
	return HandleSuccess(h.logger, c, common.AckResponse{
		Received: true,
		Outcome:  out.Label(),
		Reason:   out.Reason,
	})
}
