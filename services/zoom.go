package services

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const zoomTimeLayout = "2006-01-02T15:04:05"

// ZoomService creates and manages remote meetings for telehealth
// consultations through the Zoom v2 REST API.
type ZoomService struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Client    *http.Client
}

// Meeting holds the identifiers the engine persists on a consultation.
type Meeting struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
	JoinURL  string `json:"join_url"`
	StartURL string `json:"start_url"`
}

func NewZoomService() *ZoomService {
	baseURL := os.Getenv("ZOOM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.zoom.us/v2"
	}
	return &ZoomService{
		APIKey:    os.Getenv("ZOOM_API_KEY"),
		APISecret: os.Getenv("ZOOM_API_SECRET"),
		BaseURL:   baseURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// GenerateToken mints the short-lived bearer credential for one API call.
func (z *ZoomService) GenerateToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": z.APIKey,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(z.APISecret))
}

func (z *ZoomService) do(method, path string, body any) (*http.Response, error) {
	token, err := z.GenerateToken()
	if err != nil {
		return nil, &ExternalProviderError{Provider: "zoom", Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, z.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := z.Client.Do(req)
	if err != nil {
		return nil, &ExternalProviderError{Provider: "zoom", Err: err}
	}
	return resp, nil
}

func zoomError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	return &ExternalProviderError{
		Provider: "zoom",
		Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(data)),
	}
}

// CreateMeeting schedules a remote meeting with hardened defaults: waiting
// room on, authenticated entry required, no automatic recording.
func (z *ZoomService) CreateMeeting(topic string, start time.Time, durationMinutes int, hostEmail string) (*Meeting, error) {
	payload := map[string]any{
		"topic":      topic,
		"type":       2, // scheduled meeting
		"start_time": start.UTC().Format(zoomTimeLayout),
		"duration":   durationMinutes,
		"timezone":   "UTC",
		"password":   generateMeetingPassword(10),
		"settings": map[string]any{
			"host_video":             true,
			"participant_video":      true,
			"join_before_host":       false,
			"mute_upon_entry":        true,
			"waiting_room":           true,
			"meeting_authentication": true,
			"encryption_type":        "enhanced",
			"audio":                  "both",
			"auto_recording":         "none",
		},
		"schedule_for": hostEmail,
	}

	resp, err := z.do(http.MethodPost, fmt.Sprintf("/users/%s/meetings", hostEmail), payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, zoomError(resp)
	}

	var meeting Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, &ExternalProviderError{Provider: "zoom", Err: err}
	}
	return &meeting, nil
}

// UpdateMeeting moves an existing remote meeting to a new start/duration.
func (z *ZoomService) UpdateMeeting(meetingID string, start time.Time, durationMinutes int) error {
	payload := map[string]any{}
	if !start.IsZero() {
		payload["start_time"] = start.UTC().Format(zoomTimeLayout)
	}
	if durationMinutes > 0 {
		payload["duration"] = durationMinutes
	}

	resp, err := z.do(http.MethodPatch, "/meetings/"+meetingID, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return zoomError(resp)
	}
	return nil
}

// DeleteMeeting removes the remote meeting.
func (z *ZoomService) DeleteMeeting(meetingID string) error {
	resp, err := z.do(http.MethodDelete, "/meetings/"+meetingID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return zoomError(resp)
	}
	return nil
}

// GetMeeting fetches the current remote meeting state.
func (z *ZoomService) GetMeeting(meetingID string) (*Meeting, error) {
	resp, err := z.do(http.MethodGet, "/meetings/"+meetingID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, zoomError(resp)
	}

	var meeting Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meeting); err != nil {
		return nil, &ExternalProviderError{Provider: "zoom", Err: err}
	}
	return &meeting, nil
}

func generateMeetingPassword(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = chars[int(b[i])%len(chars)]
	}
	return string(b)
}
