package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{AccountSID: "AC123"})
	assert.Error(t, err)
}

func TestCreateCall(t *testing.T) {
	var gotPath, gotAuthUser string
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		gotAuthUser = user
		assert.Equal(t, "token", pass)
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sid":    "CA777",
			"status": "queued",
			"from":   "+15550001111",
			"to":     "+919876543210",
		})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)

	call, err := client.CreateCall(context.Background(), CallRequest{
		To:                "+919876543210",
		From:              "+15550001111",
		VoiceURL:          "https://agent.example.com/voice",
		StatusCallbackURL: "https://agent.example.com/call-status",
	})
	require.NoError(t, err)

	assert.Equal(t, "CA777", call.SID)
	assert.Equal(t, "queued", call.Status)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Calls.json", gotPath)
	assert.Equal(t, "AC123", gotAuthUser)
	assert.Equal(t, "+919876543210", gotForm["To"][0])
	assert.Equal(t, "https://agent.example.com/voice", gotForm["Url"][0])
	assert.Equal(t, "https://agent.example.com/call-status", gotForm["StatusCallback"][0])
	assert.ElementsMatch(t, []string{"initiated", "ringing", "answered", "completed"}, gotForm["StatusCallbackEvent"])
}

func TestCreateCall_Validation(t *testing.T) {
	client, err := NewClient(ClientConfig{AccountSID: "AC123", AuthToken: "token"})
	require.NoError(t, err)

	_, err = client.CreateCall(context.Background(), CallRequest{To: "+1", From: "+2"})
	assert.Error(t, err)

	_, err = client.CreateCall(context.Background(), CallRequest{VoiceURL: "https://x/voice"})
	assert.Error(t, err)
}

func TestCreateCall_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code": 20003, "message": "Authenticate"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{AccountSID: "AC123", AuthToken: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.CreateCall(context.Background(), CallRequest{
		To: "+1", From: "+2", VoiceURL: "https://x/voice",
	})
	assert.Error(t, err)
}

func TestGetCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Calls/CA777.json", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sid":      "CA777",
			"status":   "completed",
			"duration": "42",
		})
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{AccountSID: "AC123", AuthToken: "token", BaseURL: srv.URL})
	require.NoError(t, err)

	call, err := client.GetCall(context.Background(), "CA777")
	require.NoError(t, err)
	assert.Equal(t, "completed", call.Status)
	assert.Equal(t, "42", call.Duration)
}
