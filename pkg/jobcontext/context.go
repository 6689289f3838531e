package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyJobType      KeyContext = "job_type"
	keyMeetingID    KeyContext = "meeting_id"
	keyBotID        KeyContext = "bot_id"
	keyJobStartTime KeyContext = "job_start_time"
)

// DefaultTimeout bounds a job when the caller passes a non-positive timeout
const DefaultTimeout = 3 * time.Minute

// JobMetadata holds metadata for a job execution
type JobMetadata struct {
	JobID     uuid.UUID
	JobType   string
	MeetingID uuid.UUID
	BotID     string
	StartTime time.Time
	Elapsed   time.Duration
}

// JobBegin derives a context bounded by timeout and tagged with the meeting the job works on.
// The returned cancel func must always be called.
func JobBegin(parentCtx context.Context, jobType string, meetingID uuid.UUID, botID string, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyJobID, uuid.New())
	ctx = context.WithValue(ctx, keyJobType, jobType)
	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyBotID, botID)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetJobType extracts job type from context
func GetJobType(ctx context.Context) (string, bool) {
	jobType, ok := ctx.Value(keyJobType).(string)
	return jobType, ok
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (uuid.UUID, bool) {
	meetingID, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return meetingID, ok
}

func GetBotID(ctx context.Context) string {
	botID, _ := ctx.Value(keyBotID).(string)
	return botID
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	jobType, _ := GetJobType(ctx)
	meetingID, _ := GetMeetingID(ctx)
	startTime, ok := GetJobStartTime(ctx)

	var elapsed time.Duration
	if ok {
		elapsed = time.Since(startTime)
	}

	return &JobMetadata{
		JobID:     jobID,
		JobType:   jobType,
		MeetingID: meetingID,
		BotID:     GetBotID(ctx),
		StartTime: startTime,
		Elapsed:   elapsed,
	}
}
