package insight

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
)

// Participants carries the display names substituted into prompts.
// Empty names fall back to generic role nouns.
type Participants struct {
	ManagerName  string
	EmployeeName string
}

// Draft is one extracted insight before it is bound to a meeting
type Draft struct {
	Type    entities.InsightType
	Content string
}

// Extractor turns transcript text into insight drafts.
// An error means extraction failed as a whole; partial JSON still yields drafts.
type Extractor interface {
	Extract(ctx context.Context, transcript string, participants Participants) ([]Draft, error)
}

// LLMExtractor prompts a completion service for a fixed JSON shape and maps it to drafts
type LLMExtractor struct {
	name      string
	completer pkgai.Completer
	policy    retry.Policy
	prompt    func(transcript string, p Participants) (system, user string, err error)
	decode    func(raw string) (decoded, error)
	logger    *zap.Logger
}

var _ Extractor = (*LLMExtractor)(nil)

// NewOneOnOneExtractor builds the extractor for ONE_ON_ONE meetings
func NewOneOnOneExtractor(completer pkgai.Completer, policy retry.Policy, logger *zap.Logger) *LLMExtractor {
	return newLLMExtractor("one_on_one", completer, policy, logger, oneOnOnePrompt, decodeOneOnOne)
}

// NewReviewExtractor builds the extractor for a performance review of the given type
func NewReviewExtractor(meetingType entities.MeetingType, completer pkgai.Completer, policy retry.Policy, logger *zap.Logger) *LLMExtractor {
	period := reviewPeriod(meetingType)
	prompt := func(transcript string, p Participants) (string, string, error) {
		return reviewPrompt(transcript, p, period)
	}
	return newLLMExtractor("review_"+period, completer, policy, logger, prompt, decodeReview)
}

func newLLMExtractor(
	name string,
	completer pkgai.Completer,
	policy retry.Policy,
	logger *zap.Logger,
	prompt func(string, Participants) (string, string, error),
	decode func(string) (decoded, error),
) *LLMExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{
		name:      name,
		completer: completer,
		policy:    policy,
		prompt:    prompt,
		decode:    decode,
		logger:    logger,
	}
}

// Extract calls the completion service with bounded retries and decodes the reply
func (e *LLMExtractor) Extract(ctx context.Context, transcript string, participants Participants) ([]Draft, error) {
	system, user, err := e.prompt(transcript, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s prompt: %w", e.name, err)
	}

	meta := jobcontext.GetJobMetadata(ctx)
	log := e.logger.With(
		zap.String("extractor", e.name),
		zap.String("meeting_id", meta.MeetingID.String()),
		zap.String("job_id", meta.JobID.String()),
	)

	var drafts []Draft
	attempt := 0
	err = retry.Do(ctx, e.policy, func(ctx context.Context) error {
		attempt++
		raw, err := e.completer.Complete(ctx, system, user)
		if err != nil {
			return err
		}
		result, err := e.decode(raw)
		if err != nil {
			// a malformed reply is retried like a transient failure
			return err
		}
		for _, skipped := range result.Skipped {
			log.Warn("skipping unreadable reply field",
				zap.String("field", skipped.Key),
				zap.Error(skipped.Err),
			)
		}
		drafts = result.Drafts
		return nil
	}, func(err error, wait time.Duration) {
		log.Warn("insight extraction attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		log.Error("insight extraction failed", zap.Int("attempts", attempt), zap.Error(err))
		return nil, err
	}

	log.Info("insight extraction finished",
		zap.Int("attempts", attempt),
		zap.Int("drafts", len(drafts)),
	)
	return drafts, nil
}

// Registry dispatches meeting types to their extractor
type Registry struct {
	oneOnOne          Extractor
	sixMonthReview    Extractor
	twelveMonthReview Extractor
}

// NewRegistry wires the extractors for every meeting type
func NewRegistry(completer pkgai.Completer, policy retry.Policy, logger *zap.Logger) *Registry {
	return &Registry{
		oneOnOne:          NewOneOnOneExtractor(completer, policy, logger),
		sixMonthReview:    NewReviewExtractor(entities.MeetingTypeSixMonthReview, completer, policy, logger),
		twelveMonthReview: NewReviewExtractor(entities.MeetingTypeTwelveMonthReview, completer, policy, logger),
	}
}

// For returns the extractor for a meeting type, or nil for unknown types
func (r *Registry) For(meetingType entities.MeetingType) Extractor {
	switch meetingType {
	case entities.MeetingTypeOneOnOne:
		return r.oneOnOne
	case entities.MeetingTypeSixMonthReview:
		return r.sixMonthReview
	case entities.MeetingTypeTwelveMonthReview:
		return r.twelveMonthReview
	}
	return nil
}
