package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptWord is one recognized word inside a bot transcript segment
type TranscriptWord struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// TranscriptSegment is one speaker turn as delivered by the recording bot
type TranscriptSegment struct {
	Speaker string           `json:"speaker"`
	Offset  float64          `json:"offset"`
	Words   []TranscriptWord `json:"words"`
}

// Transcript is the stored transcript, exactly one per meeting
type Transcript struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Segments  datatypes.JSON `json:"segments,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript
func NewTranscript(meetingID uuid.UUID, content string, segments []byte) *Transcript {
	now := time.Now()
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Content:   content,
		Segments:  datatypes.JSON(segments),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
