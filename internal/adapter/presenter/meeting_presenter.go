package presenter

import (
	"encoding/json"

	meetingDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}
	return &meetingDTO.MeetingResponse{
		ID:              m.ID,
		OrganizationID:  m.OrganizationID,
		ManagerID:       m.ManagerID,
		EmployeeID:      m.EmployeeID,
		MeetingType:     string(m.MeetingType),
		Status:          string(m.Status),
		Title:           m.Title,
		ScheduledTime:   m.ScheduledTime,
		DurationMinutes: int(m.Duration().Minutes()),
		TimeZone:        m.TimeZone,
		Platform:        m.Platform,
		MeetingURL:      m.MeetingURL,
		ExternalBotID:   m.ExternalBotID,
		AudioFileURL:    m.AudioFileURL,
		EmployeeName:    m.Employee.DisplayName(),
		ManagerName:     m.Manager.DisplayName(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToMeetingResponses converts a slice of meetings; the result is never nil
func ToMeetingResponses(meetings []*entities.Meeting) []*meetingDTO.MeetingResponse {
	out := make([]*meetingDTO.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, ToMeetingResponse(m))
	}
	return out
}

// ToScheduleMeetingResponse converts a scheduling result
func ToScheduleMeetingResponse(res *meeting.ScheduleResult) *meetingDTO.ScheduleMeetingResponse {
	if res == nil {
		return nil
	}
	resp := &meetingDTO.ScheduleMeetingResponse{
		Meeting:    *ToMeetingResponse(res.Meeting),
		BotInvited: res.Meeting.ExternalBotID != nil,
	}
	if res.BotInvite != nil {
		resp.BotInviteError = res.BotInvite.Error()
	}
	return resp
}

// ToMeetingDetailResponse converts a meeting with its transcript and insights
func ToMeetingDetailResponse(d *meeting.Detail) *meetingDTO.MeetingDetailResponse {
	if d == nil {
		return nil
	}
	resp := &meetingDTO.MeetingDetailResponse{
		MeetingResponse: *ToMeetingResponse(d.Meeting),
		Insights:        make([]meetingDTO.InsightResponse, 0, len(d.Insights)),
	}
	if d.Transcript != nil {
		resp.Transcript = &meetingDTO.TranscriptResponse{
			Content:   d.Transcript.Content,
			UpdatedAt: d.Transcript.UpdatedAt,
		}
		if len(d.Transcript.Segments) > 0 {
			resp.Transcript.Segments = json.RawMessage(d.Transcript.Segments)
		}
	}
	for _, in := range d.Insights {
		resp.Insights = append(resp.Insights, meetingDTO.InsightResponse{
			ID:      in.ID,
			Type:    string(in.Type),
			Content: in.Content,
		})
	}
	return resp
}
