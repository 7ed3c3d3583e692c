package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testZoomService(baseURL string) *ZoomService {
	return &ZoomService{
		APIKey:    "test-key",
		APISecret: "test-secret",
		BaseURL:   baseURL,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateToken(t *testing.T) {
	z := testZoomService("")

	signed, err := z.GenerateToken()
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		assert.Equal(t, jwt.SigningMethodHS256, token.Method)
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "test-key", claims["iss"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, int64(exp), time.Now().Unix())
}

func TestCreateMeeting(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":        88991122334,
			"password":  "s3cret",
			"join_url":  "https://zoom.example/j/88991122334",
			"start_url": "https://zoom.example/s/88991122334",
		})
	}))
	defer server.Close()

	z := testZoomService(server.URL)
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	meeting, err := z.CreateMeeting("Medical Consultation", start, 30, "provider@example.com")
	require.NoError(t, err)

	assert.Equal(t, "/users/provider@example.com/meetings", gotPath)
	assert.Contains(t, gotAuth, "Bearer ")

	assert.Equal(t, "Medical Consultation", gotPayload["topic"])
	assert.Equal(t, "2026-08-25T10:00:00", gotPayload["start_time"])
	assert.Equal(t, float64(30), gotPayload["duration"])
	assert.NotEmpty(t, gotPayload["password"])

	settings, ok := gotPayload["settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, settings["waiting_room"])
	assert.Equal(t, true, settings["meeting_authentication"])
	assert.Equal(t, false, settings["join_before_host"])
	assert.Equal(t, "enhanced", settings["encryption_type"])
	assert.Equal(t, "none", settings["auto_recording"])

	assert.Equal(t, int64(88991122334), meeting.ID)
	assert.Equal(t, "s3cret", meeting.Password)
	assert.Equal(t, "https://zoom.example/j/88991122334", meeting.JoinURL)
	assert.Equal(t, "https://zoom.example/s/88991122334", meeting.StartURL)
}

func TestCreateMeetingAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":429,"message":"rate limited"}`))
	}))
	defer server.Close()

	z := testZoomService(server.URL)

	_, err := z.CreateMeeting("Medical Consultation", time.Now(), 30, "provider@example.com")
	require.Error(t, err)

	var provErr *ExternalProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "zoom", provErr.Provider)
	assert.Contains(t, err.Error(), "429")
}

func TestUpdateMeeting(t *testing.T) {
	var gotMethod, gotPath string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	z := testZoomService(server.URL)
	start := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)

	require.NoError(t, z.UpdateMeeting("88991122334", start, 45))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/meetings/88991122334", gotPath)
	assert.Equal(t, "2026-08-26T14:00:00", gotPayload["start_time"])
	assert.Equal(t, float64(45), gotPayload["duration"])
}

func TestDeleteMeeting(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	z := testZoomService(server.URL)
	require.NoError(t, z.DeleteMeeting("88991122334"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/meetings/88991122334", gotPath)
}

func TestGetMeeting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/meetings/88991122334", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       88991122334,
			"join_url": "https://zoom.example/j/88991122334",
		})
	}))
	defer server.Close()

	z := testZoomService(server.URL)
	meeting, err := z.GetMeeting("88991122334")
	require.NoError(t, err)
	assert.Equal(t, int64(88991122334), meeting.ID)
	assert.Equal(t, "https://zoom.example/j/88991122334", meeting.JoinURL)
}

func TestGenerateMeetingPassword(t *testing.T) {
	pw := generateMeetingPassword(10)
	assert.Len(t, pw, 10)
	assert.NotEqual(t, pw, generateMeetingPassword(10))
}
