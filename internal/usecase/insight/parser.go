package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// field maps one key of the model's JSON reply to an insight type
type field struct {
	key  string
	typ  entities.InsightType
	list bool
}

var oneOnOneFields = []field{
	{key: "summary", typ: entities.InsightTypeSummary},
	{key: "wellbeing", typ: entities.InsightTypeWellbeing},
	{key: "goals_discussed", typ: entities.InsightTypeGoalDiscussed, list: true},
	{key: "action_items", typ: entities.InsightTypeActionItem, list: true},
	{key: "blockers", typ: entities.InsightTypeBlocker, list: true},
	{key: "feedback", typ: entities.InsightTypeFeedback, list: true},
}

var reviewFields = []field{
	{key: "summary", typ: entities.InsightTypeSummary},
	{key: "overall_assessment", typ: entities.InsightTypeOverallAssessment},
	{key: "strengths", typ: entities.InsightTypeStrengths, list: true},
	{key: "areas_for_support", typ: entities.InsightTypeAreasForSupport, list: true},
	{key: "goals_discussed", typ: entities.InsightTypeGoalDiscussed, list: true},
	{key: "action_items", typ: entities.InsightTypeActionItem, list: true},
}

// FieldError reports a reply field that could not be mapped and was skipped
type FieldError struct {
	Key string
	Err error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

// decoded is the outcome of mapping one reply: the drafts that could be
// built plus the fields that were skipped
type decoded struct {
	Drafts  []Draft
	Skipped []FieldError
}

func decodeOneOnOne(raw string) (decoded, error) {
	return decodeFields(raw, oneOnOneFields)
}

func decodeReview(raw string) (decoded, error) {
	return decodeFields(raw, reviewFields)
}

// decodeFields maps each known key independently so a mistyped field only
// loses itself. The reply as a whole must still be a JSON object.
func decodeFields(raw string, fields []field) (decoded, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSON(raw)), &obj); err != nil {
		return decoded{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if obj == nil {
		return decoded{}, errors.New("failed to parse JSON response: expected an object")
	}

	var out decoded
	for _, f := range fields {
		value, ok := obj[f.key]
		if !ok || isNull(value) {
			continue
		}

		var (
			items []string
			err   error
		)
		if f.list {
			items, err = decodeList(value)
		} else {
			var s string
			if err = json.Unmarshal(value, &s); err == nil {
				items = []string{s}
			}
		}
		if err != nil {
			out.Skipped = append(out.Skipped, FieldError{Key: f.key, Err: err})
		}
		for _, item := range items {
			out.Drafts = appendText(out.Drafts, f.typ, item)
		}
	}
	return out, nil
}

// decodeList accepts an array of strings or a single string. Non-string
// elements are dropped and reported while the string elements are kept.
func decodeList(value json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(value, &one); err == nil {
		return []string{one}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(value, &elems); err != nil {
		return nil, errors.New("expected string or array of strings")
	}

	items := make([]string, 0, len(elems))
	dropped := 0
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			dropped++
			continue
		}
		items = append(items, s)
	}
	if dropped > 0 {
		return items, fmt.Errorf("%d of %d elements are not strings", dropped, len(elems))
	}
	return items, nil
}

func isNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

func appendText(drafts []Draft, t entities.InsightType, s string) []Draft {
	if s = strings.TrimSpace(s); s != "" {
		drafts = append(drafts, Draft{Type: t, Content: s})
	}
	return drafts
}

// extractJSON extracts the JSON object from a reply that may be wrapped in
// markdown code fences or surrounded by prose
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
