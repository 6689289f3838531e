package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

var _ repositories.MeetingRepository = (*MeetingRepository)(nil)

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Omit("Manager", "Employee").Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID retrieves a meeting with its manager and employee
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Employee").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// FindByExternalBotID retrieves the meeting a bot webhook refers to
func (r *MeetingRepository) FindByExternalBotID(ctx context.Context, botID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Employee").
		Where("external_bot_id = ?", botID).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by bot ID: %w", err)
	}
	return &meeting, nil
}

// UpdateStatus sets the meeting status
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return r.updates(ctx, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// MarkGeneratingInsights sets GENERATING_INSIGHTS and stores the recording URL
func (r *MeetingRepository) MarkGeneratingInsights(ctx context.Context, id uuid.UUID, recordingURL *string) error {
	fields := map[string]interface{}{
		"status":     entities.MeetingStatusGeneratingInsights,
		"updated_at": time.Now(),
	}
	if recordingURL != nil && *recordingURL != "" {
		fields["audio_file_url"] = *recordingURL
	}
	return r.updates(ctx, id, fields)
}

// AttachBot stores the bot correlation id and moves the meeting to BOT_INVITED
func (r *MeetingRepository) AttachBot(ctx context.Context, id uuid.UUID, botID string) error {
	return r.updates(ctx, id, map[string]interface{}{
		"external_bot_id": botID,
		"status":          entities.MeetingStatusBotInvited,
		"updated_at":      time.Now(),
	})
}

func (r *MeetingRepository) updates(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update meeting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrMeetingNotFound
	}
	return nil
}

// ListByOrganization lists every meeting in an organization
func (r *MeetingRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("organization_id = ?", orgID).
		Order("scheduled_time DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// ListByParticipants lists meetings where the manager or the employee is in the given sets
func (r *MeetingRepository) ListByParticipants(ctx context.Context, orgID uuid.UUID, managerIDs, employeeIDs []uuid.UUID) ([]*entities.Meeting, error) {
	if len(managerIDs) == 0 && len(employeeIDs) == 0 {
		return []*entities.Meeting{}, nil
	}

	query := r.db.WithContext(ctx).
		Preload("Employee").
		Where("organization_id = ?", orgID)
	switch {
	case len(managerIDs) > 0 && len(employeeIDs) > 0:
		query = query.Where("(manager_id IN ? OR employee_id IN ?)", managerIDs, employeeIDs)
	case len(managerIDs) > 0:
		query = query.Where("manager_id IN ?", managerIDs)
	default:
		query = query.Where("employee_id IN ?", employeeIDs)
	}

	var meetings []*entities.Meeting
	if err := query.
		Order("scheduled_time DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings by participants: %w", err)
	}
	return meetings, nil
}
