package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ErrNoRecipient is returned when the manager has no email address
var ErrNoRecipient = errors.New("manager has no email address")

// Mailer delivers one email
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, plain, html string) error
}

// Notifier composes and sends meeting notifications
type Notifier struct {
	mailer       Mailer
	dashboardURL string
	logger       *zap.Logger
}

// NewNotifier creates a notifier linking to the given dashboard base URL
func NewNotifier(mailer Mailer, dashboardURL string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		mailer:       mailer,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
		logger:       logger,
	}
}

type completedView struct {
	ManagerName  string
	EmployeeName string
	MeetingType  string
	InsightCount int
	Link         string
}

var completedSubject = texttemplate.Must(texttemplate.New("subject").Parse(
	`Insights ready for your meeting with {{.EmployeeName}}`))

var completedText = texttemplate.Must(texttemplate.New("text").Parse(`Hi {{.ManagerName}},

{{.InsightCount}} insights were extracted from your {{.MeetingType}} with {{.EmployeeName}}.

Review them here: {{.Link}}
`))

var completedHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<p>Hi {{.ManagerName}},</p>
<p>{{.InsightCount}} insights were extracted from your {{.MeetingType}} with {{.EmployeeName}}.</p>
<p><a href="{{.Link}}">Review the meeting insights</a></p>
`))

// MeetingCompleted emails the meeting's manager that insights are available.
// The meeting must carry its Manager and Employee associations.
func (n *Notifier) MeetingCompleted(ctx context.Context, meeting *entities.Meeting, insightCount int) error {
	if meeting.Manager == nil || strings.TrimSpace(meeting.Manager.Email) == "" {
		return ErrNoRecipient
	}

	view := completedView{
		ManagerName:  nameOr(meeting.Manager.DisplayName(), "there"),
		EmployeeName: nameOr(meeting.Employee.DisplayName(), "your report"),
		MeetingType:  meetingTypeLabel(meeting.MeetingType),
		InsightCount: insightCount,
		Link:         fmt.Sprintf("%s/meetings/%s", n.dashboardURL, meeting.ID),
	}

	subject, plain, html, err := render(view)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	if err := n.mailer.Send(ctx, view.ManagerName, meeting.Manager.Email, subject, plain, html); err != nil {
		return err
	}

	n.logger.Info("completion notification sent",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("manager_id", meeting.ManagerID.String()),
	)
	return nil
}

func render(view completedView) (subject, plain, html string, err error) {
	var s, p, h bytes.Buffer
	if err = completedSubject.Execute(&s, view); err != nil {
		return
	}
	if err = completedText.Execute(&p, view); err != nil {
		return
	}
	if err = completedHTML.Execute(&h, view); err != nil {
		return
	}
	return s.String(), p.String(), h.String(), nil
}

func meetingTypeLabel(t entities.MeetingType) string {
	switch t {
	case entities.MeetingTypeOneOnOne:
		return "one-on-one"
	case entities.MeetingTypeSixMonthReview:
		return "six-month review"
	case entities.MeetingTypeTwelveMonthReview:
		return "twelve-month review"
	}
	return "meeting"
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
