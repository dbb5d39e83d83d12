// internal/responder/chat_test.go
package responder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"leadbot/internal/common/config"
	"leadbot/internal/common/logger"
	"leadbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() *models.ConversationState {
	state := models.NewConversationState("sess-1", "user-1")
	state.Append(models.RoleUser, "hi")
	state.Append(models.RoleAssistant, "Welcome to Everest View Property!")
	return state
}

func newResponder(baseURL string, retries int) *ChatResponder {
	return NewChatResponder(config.ResponderConfig{
		BaseURL:    baseURL,
		LocalModel: "phi3:mini",
		CloudModel: "claude-3-5-sonnet",
		Timeout:    2000,
		MaxRetries: retries,
	}, logger.NewNoOpLogger())
}

func TestGenerate_ChatFormat(t *testing.T) {
	var captured chatPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "How can I help?"},
		})
	}))
	defer server.Close()

	r := newResponder(server.URL, 0)
	reply := r.Generate(context.Background(), testState(), "tell me about villas", "en", models.TierLocal)

	assert.Equal(t, "How can I help?", reply)
	assert.Equal(t, "phi3:mini", captured.Model)
	require.Len(t, captured.Messages, 4) // system + 2 history + current
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "tell me about villas", captured.Messages[3].Content)
}

func TestGenerate_CloudTierModel(t *testing.T) {
	var captured chatPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{"response": "Detailed ROI analysis."})
	}))
	defer server.Close()

	r := newResponder(server.URL, 0)
	reply := r.Generate(context.Background(), testState(), "what ROI?", "en", models.TierCloud)

	assert.Equal(t, "Detailed ROI analysis.", reply)
	assert.Equal(t, "claude-3-5-sonnet", captured.Model)
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "Recovered."})
	}))
	defer server.Close()

	r := newResponder(server.URL, 2)
	reply := r.Generate(context.Background(), testState(), "hi", "en", models.TierLocal)

	assert.Equal(t, "Recovered.", reply)
	assert.Equal(t, int64(3), calls.Load())
}

func TestGenerate_FailureDegradesToApology(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := newResponder(server.URL, 1)
	reply := r.Generate(context.Background(), testState(), "hi", "en", models.TierLocal)

	assert.Equal(t, ApologyReply, reply)
}

func TestGenerate_UnreachableEndpoint(t *testing.T) {
	r := newResponder("http://127.0.0.1:1/api/chat", 0)
	reply := r.Generate(context.Background(), testState(), "hi", "en", models.TierLocal)

	assert.Equal(t, ApologyReply, reply)
}

func TestBuildSystemPrompt(t *testing.T) {
	profile := models.LeadProfile{PropertyType: "Villa", TargetLocation: "Marina"}

	prompt := buildSystemPrompt(profile, "ar")

	assert.Contains(t, prompt, "Villa")
	assert.Contains(t, prompt, "Marina")
	assert.Contains(t, prompt, "Arabic")
}
