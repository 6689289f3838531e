package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	webhookDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-insights/internal/usecase/identity"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

// IdentitySyncer mirrors identity-provider records locally
type IdentitySyncer interface {
	SyncUser(ctx context.Context, profile identity.UserProfile) (*entities.User, error)
	SyncOrganization(ctx context.Context, profile identity.OrganizationProfile) (*entities.Organization, error)
	DeleteOrganization(ctx context.Context, externalID string) error
	AddMembership(ctx context.Context, m identity.Membership) error
	RemoveMembership(ctx context.Context, m identity.Membership) error
}

// IdentityWebhookHandler handles signed identity-provider webhook events
type IdentityWebhookHandler struct {
	identity IdentitySyncer
	secret   string
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewIdentityWebhookHandler creates a new identity webhook handler. With an empty
// secret signatures are not checked; configuration forbids that in production.
func NewIdentityWebhookHandler(syncer IdentitySyncer, secret string, m *metrics.Metrics, logger *zap.Logger) *IdentityWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secret == "" {
		logger.Warn("identity webhook signature verification disabled")
	}
	return &IdentityWebhookHandler{
		identity: syncer,
		secret:   secret,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}
}

// HandleClerk receives user, organization and membership events
// @Summary      Clerk Webhook
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.AckResponse
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/webhooks/clerk [post]
func (h *IdentityWebhookHandler) HandleClerk(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.secret != "" {
		headers := ai.SvixHeaders{
			ID:        c.Request().Header.Get(webhookDTO.SvixIDHeader),
			Timestamp: c.Request().Header.Get(webhookDTO.SvixTimestampHeader),
			Signature: c.Request().Header.Get(webhookDTO.SvixSignatureHeader),
		}
		if err := ai.VerifySvix(h.secret, headers, body, h.now()); err != nil {
			h.metrics.WebhookEvent("clerk", "invalid_signature")
			return HandleError(h.logger, c, errors.ErrInvalidWebhookSignature(err))
		}
	}

	var event webhookDTO.ClerkEvent
	if err := json.Unmarshal(body, &event); err != nil || event.Type == "" {
		h.metrics.WebhookEvent("clerk", "invalid")
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	handled, err := h.dispatch(c.Request().Context(), event)
	if err != nil {
		h.metrics.WebhookEvent(identityEventLabel(event.Type), "error")
		var appErr errors.AppError
		if stdErrors.As(err, &appErr) {
			return HandleError(h.logger, c, appErr)
		}
		if stdErrors.Is(err, entities.ErrInvalidExternalID) {
			return HandleError(h.logger, c, errors.ErrMissingField("data.id"))
		}
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	outcome := "ok"
	if !handled {
		outcome = "ignored"
		h.logger.Info("identity event ignored", zap.String("event", event.Type))
	}
	h.metrics.WebhookEvent(identityEventLabel(event.Type), outcome)
	return HandleSuccess(h.logger, c, common.AckResponse{Received: true, Outcome: outcome})
}

func identityEventLabel(eventType string) string {
	switch eventType {
	case webhookDTO.ClerkUserCreated, webhookDTO.ClerkUserUpdated,
		webhookDTO.ClerkOrganizationCreated, webhookDTO.ClerkOrganizationUpdated, webhookDTO.ClerkOrganizationDeleted,
		webhookDTO.ClerkMembershipCreated, webhookDTO.ClerkMembershipUpdated, webhookDTO.ClerkMembershipDeleted:
		return eventType
	}
	return otherEventLabel
}

func (h *IdentityWebhookHandler) dispatch(ctx context.Context, event webhookDTO.ClerkEvent) (bool, error) {
	switch event.Type {
	case webhookDTO.ClerkUserCreated, webhookDTO.ClerkUserUpdated:
		var u webhookDTO.ClerkUser
		if err := decodeData(event.Data, &u); err != nil {
			return false, err
		}
		_, err := h.identity.SyncUser(ctx, identity.UserProfile{
			ExternalID: u.ID,
			Email:      u.PrimaryEmail(),
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Role:       u.PublicMetadata.Role,
		})
		return true, err

	case webhookDTO.ClerkOrganizationCreated, webhookDTO.ClerkOrganizationUpdated:
		var o webhookDTO.ClerkOrganization
		if err := decodeData(event.Data, &o); err != nil {
			return false, err
		}
		_, err := h.identity.SyncOrganization(ctx, identity.OrganizationProfile{
			ExternalID: o.ID,
			Name:       o.Name,
			Slug:       o.Slug,
		})
		return true, err

	case webhookDTO.ClerkOrganizationDeleted:
		var o webhookDTO.ClerkOrganization
		if err := decodeData(event.Data, &o); err != nil {
			return false, err
		}
		return true, h.identity.DeleteOrganization(ctx, o.ID)

	case webhookDTO.ClerkMembershipCreated, webhookDTO.ClerkMembershipUpdated:
		var m webhookDTO.ClerkMembership
		if err := decodeData(event.Data, &m); err != nil {
			return false, err
		}
		return true, h.identity.AddMembership(ctx, toMembership(m))

	case webhookDTO.ClerkMembershipDeleted:
		var m webhookDTO.ClerkMembership
		if err := decodeData(event.Data, &m); err != nil {
			return false, err
		}
		return true, h.identity.RemoveMembership(ctx, toMembership(m))
	}
	return false, nil
}

func toMembership(m webhookDTO.ClerkMembership) identity.Membership {
	return identity.Membership{
		OrganizationExternalID: m.Organization.ID,
		UserExternalID:         m.PublicUserData.UserID,
		OrgRole:                m.Role,
		MetadataRole:           m.PublicMetadata.Role,
	}
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.ErrInvalidPayload().WithDetail("field", "data")
	}
	return nil
}
