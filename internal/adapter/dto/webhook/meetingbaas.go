package webhook

import (
	"encoding/json"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// MeetingBaaSAPIKeyHeader carries the shared key on recording-bot deliveries
const MeetingBaaSAPIKeyHeader = "x-meeting-baas-api-key"

// MeetingBaaSEvent is the envelope of every recording-bot delivery
type MeetingBaaSEvent struct {
	Event string          `json:"event" validate:"required"`
	Data  MeetingBaaSData `json:"data"`
}

// MeetingBaaSData is the event payload; fields are populated per event kind
type MeetingBaaSData struct {
	BotID  string     `json:"bot_id"`
	Status *BotStatus `json:"status,omitempty"`

	// complete
	Transcript json.RawMessage `json:"transcript,omitempty"`
	MP4        string          `json:"mp4,omitempty"`
	Speakers   []string        `json:"speakers,omitempty"`

	// failed / complete with error
	Error string `json:"error,omitempty"`
}

// BotStatus is the status block of a bot.status_change event
type BotStatus struct {
	Code      string `json:"code"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Segments decodes the transcript segments; an absent or null transcript yields none
func (d MeetingBaaSData) Segments() ([]entities.TranscriptSegment, error) {
	if len(d.Transcript) == 0 || string(d.Transcript) == "null" {
		return nil, nil
	}
	var segments []entities.TranscriptSegment
	if err := json.Unmarshal(d.Transcript, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// StatusCode returns the status code or "" when absent
func (d MeetingBaaSData) StatusCode() string {
	if d.Status == nil {
		return ""
	}
	return d.Status.Code
}
