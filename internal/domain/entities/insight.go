package entities

import (
	"time"

	"github.com/google/uuid"
)

// InsightType tags what kind of fact an insight carries
type InsightType string

const (
	InsightTypeSummary           InsightType = "SUMMARY"
	InsightTypeGoalDiscussed     InsightType = "GOAL_DISCUSSED"
	InsightTypeActionItem        InsightType = "ACTION_ITEM"
	InsightTypeStrengths         InsightType = "STRENGTHS"
	InsightTypeAreasForSupport   InsightType = "AREAS_FOR_SUPPORT"
	InsightTypeOverallAssessment InsightType = "OVERALL_ASSESSMENT"

	// one-on-one only
	InsightTypeWellbeing InsightType = "WELLBEING"
	InsightTypeBlocker   InsightType = "BLOCKER"
	InsightTypeFeedback  InsightType = "FEEDBACK"
)

// Insight is one extracted fact about a meeting
type Insight struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID   `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Type      InsightType `json:"type" gorm:"type:varchar(32);not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Insight) TableName() string {
	return "meeting_insights"
}

// NewInsight creates an insight row for a meeting
func NewInsight(meetingID uuid.UUID, insightType InsightType, content string) *Insight {
	return &Insight{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Type:      insightType,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
