package meetingbaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
)

// APIKeyHeader carries the MeetingBaaS key on outbound calls and inbound webhooks
const APIKeyHeader = "x-meeting-baas-api-key"

// Client invites recording bots into video calls
type Client struct {
	apiKey     string
	baseURL    string
	webhookURL string
	botName    string
	client     *http.Client
}

// NewClient creates a MeetingBaaS client
func NewClient(cfg config.MeetingBaaSConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		webhookURL: cfg.WebhookURL,
		botName:    cfg.BotName,
		client:     &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the client has credentials
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Invitation describes the call a bot should join
type Invitation struct {
	MeetingURL string
	StartTime  time.Time
	Extra      map[string]string
}

type speechToText struct {
	Provider string `json:"provider"`
}

type automaticLeave struct {
	WaitingRoomTimeout int `json:"waiting_room_timeout"`
}

// JoinRequest is the POST /bots body
type JoinRequest struct {
	MeetingURL     string            `json:"meeting_url"`
	BotName        string            `json:"bot_name"`
	Reserved       bool              `json:"reserved"`
	RecordingMode  string            `json:"recording_mode"`
	SpeechToText   speechToText      `json:"speech_to_text"`
	WebhookURL     string            `json:"webhook_url,omitempty"`
	StartTime      int64             `json:"start_time,omitempty"`
	AutomaticLeave automaticLeave    `json:"automatic_leave"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// JoinResponse is the POST /bots reply
type JoinResponse struct {
	BotID string `json:"bot_id"`
}

// InviteBot asks MeetingBaaS to send a bot to the call and returns its bot id
func (c *Client) InviteBot(ctx context.Context, inv Invitation) (string, error) {
	if !c.Enabled() {
		return "", retry.Permanent(fmt.Errorf("meetingbaas api key is not configured"))
	}

	reqBody := JoinRequest{
		MeetingURL:     inv.MeetingURL,
		BotName:        c.botName,
		Reserved:       false,
		RecordingMode:  "speaker_view",
		SpeechToText:   speechToText{Provider: "Default"},
		WebhookURL:     c.webhookURL,
		AutomaticLeave: automaticLeave{WaitingRoomTimeout: 600},
		Extra:          inv.Extra,
	}
	if !inv.StartTime.IsZero() && inv.StartTime.After(time.Now()) {
		reqBody.StartTime = inv.StartTime.UnixMilli()
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bots", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &retry.StatusError{Service: "meetingbaas", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var jr JoinResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return "", fmt.Errorf("failed to decode meetingbaas response: %w", err)
	}
	if jr.BotID == "" {
		return "", fmt.Errorf("meetingbaas response has no bot_id")
	}
	return jr.BotID, nil
}
