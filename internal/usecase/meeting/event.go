package meeting

import (
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// Bot event kinds delivered by the recording provider
const (
	EventStatusChange = "bot.status_change"
	EventComplete     = "complete"
)

// BotEvent is one recording-bot webhook delivery
type BotEvent struct {
	Event      string
	BotID      string
	StatusCode string

	// complete only
	Transcript    []entities.TranscriptSegment
	RawTranscript []byte
	RecordingURL  string
	Error         string
}

// StepResult records one best-effort sub-step of event handling
type StepResult struct {
	Name string
	Err  error
}

// Outcome describes what handling an event did
type Outcome struct {
	Event        string
	BotID        string
	Matched      bool
	MeetingID    uuid.UUID
	Ignored      bool
	Reason       string
	Status       entities.MeetingStatus
	InsightCount int
	Steps        []StepResult
}

func (o *Outcome) record(name string, err error) {
	o.Steps = append(o.Steps, StepResult{Name: name, Err: err})
}

func (o *Outcome) ignore(reason string) {
	o.Ignored = true
	o.Reason = reason
}

// Failed returns the steps that returned an error
func (o *Outcome) Failed() []StepResult {
	var failed []StepResult
	for _, s := range o.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Label summarises the outcome for metrics and acknowledgements
func (o *Outcome) Label() string {
	switch {
	case !o.Matched:
		return "unmatched"
	case o.Ignored:
		return "ignored"
	case len(o.Failed()) > 0:
		return "degraded"
	}
	return strings.ToLower(string(o.Status))
}

// ReconstructTranscript concatenates each segment's words without a separator
// and joins segments with a newline
func ReconstructTranscript(segments []entities.TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		var sb strings.Builder
		for _, w := range seg.Words {
			sb.WriteString(w.Word)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
