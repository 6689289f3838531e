package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

const insightBatchSize = 100

// InsightRepository handles meeting insight data operations
type InsightRepository struct {
	db *gorm.DB
}

var _ repositories.InsightRepository = (*InsightRepository)(nil)

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// CreateBatch bulk-inserts insights
func (r *InsightRepository) CreateBatch(ctx context.Context, insights []*entities.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(insights, insightBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create insights: %w", err)
	}
	return nil
}

// ListByMeetingID lists the insights of a meeting in creation order
func (r *InsightRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Insight, error) {
	var insights []*entities.Insight
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&insights).Error; err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}
