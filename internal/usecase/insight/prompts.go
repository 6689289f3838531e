package insight

import (
	"strings"
	"text/template"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

const (
	fallbackManagerName  = "the manager"
	fallbackEmployeeName = "the employee"
)

const jsonOnly = "Respond with a single JSON object and nothing else. Omit a field or use an empty array when the conversation does not cover it."

var oneOnOneSystem = `You analyse transcripts of one-on-one meetings between a manager and a direct report.
` + jsonOnly + `
The JSON object has these fields:
{
  "summary": "2-4 sentence overview of the conversation",
  "wellbeing": "how the employee seems to be doing, in one or two sentences",
  "goals_discussed": ["each goal or objective that was discussed"],
  "action_items": ["each concrete follow-up, including the owner when stated"],
  "blockers": ["each obstacle the employee raised"],
  "feedback": ["each piece of feedback given in either direction"]
}`

var reviewSystemTmpl = template.Must(template.New("review").Parse(
	`You analyse transcripts of {{.Period}} performance reviews.
In this review {{.Manager}} is assessing {{.Employee}}.
` + jsonOnly + `
The JSON object has these fields:
{
  "summary": "2-4 sentence overview of the review",
  "overall_assessment": "the overall assessment of {{.Employee}}'s performance over the {{.Period}} period",
  "strengths": ["each strength of {{.Employee}} that was recognised"],
  "areas_for_support": ["each area where {{.Employee}} needs support or development"],
  "goals_discussed": ["each goal set or reviewed"],
  "action_items": ["each concrete follow-up, including the owner when stated"]
}`))

const userTmpl = "Transcript:\n\n"

func oneOnOnePrompt(transcript string, _ Participants) (string, string, error) {
	return oneOnOneSystem, userTmpl + transcript, nil
}

func reviewPrompt(transcript string, p Participants, period string) (string, string, error) {
	var sb strings.Builder
	err := reviewSystemTmpl.Execute(&sb, struct {
		Period   string
		Manager  string
		Employee string
	}{
		Period:   period,
		Manager:  nameOr(p.ManagerName, fallbackManagerName),
		Employee: nameOr(p.EmployeeName, fallbackEmployeeName),
	})
	if err != nil {
		return "", "", err
	}
	return sb.String(), userTmpl + transcript, nil
}

func reviewPeriod(t entities.MeetingType) string {
	if t == entities.MeetingTypeTwelveMonthReview {
		return "twelve-month"
	}
	return "six-month"
}

func nameOr(name, fallback string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return fallback
}
