// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"leadbot/internal/common/logger"
	"leadbot/internal/models"
	qualifyworkflow "leadbot/internal/pipeline/qualify-workflow"
	"leadbot/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	calls atomic.Int64
}

func (s *stubResponder) Generate(_ context.Context, _ *models.ConversationState, _, _ string, _ models.ModelTier) string {
	s.calls.Add(1)
	return "Happy to help with your property search."
}

type noopNotifier struct{}

func (noopNotifier) SMS(context.Context, models.LeadProfile, int)      {}
func (noopNotifier) Email(context.Context, models.LeadProfile, string) {}
func (noopNotifier) Call(context.Context)                              {}

type noopPersistence struct{}

func (noopPersistence) SaveLead(context.Context, string, models.LeadProfile, int) error {
	return nil
}
func (noopPersistence) LogConversation(context.Context, string, []models.ConversationMessage) error {
	return nil
}

type stubLeadIndex struct {
	results []models.LeadProfile
}

func (s *stubLeadIndex) Index(context.Context, string, models.LeadProfile, int) error {
	return nil
}

func (s *stubLeadIndex) Search(context.Context, string) ([]models.LeadProfile, error) {
	return s.results, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubResponder, store.ReplyCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := logger.NewNoOpLogger()

	sessions := store.NewRedisSessionStore(client, time.Hour, log)
	replyCache := store.NewRedisReplyCache(client, time.Hour, log)
	leadIndex := &stubLeadIndex{results: []models.LeadProfile{{Name: "John Smith"}}}

	resp := &stubResponder{}
	workflow := qualifyworkflow.New(
		qualifyworkflow.DefaultConfig(),
		resp, noopNotifier{}, noopPersistence{}, leadIndex, nil, log,
	)

	srv := New(workflow, sessions, replyCache, leadIndex, log)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, resp, replyCache
}

func postChat(t *testing.T, ts *httptest.Server, payload string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	return resp
}

func TestChat_Turn(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := postChat(t, ts, `{"userId":"u1","sessionId":"s1","userMessage":"I'm looking for an off-plan apartment, 2 bedrooms in Downtown, budget $500k"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "Happy to help with your property search.", body.Reply)
	assert.Equal(t, models.StatusDiscovery, body.QualificationStatus)
	assert.Equal(t, 50, body.LeadScore)
	assert.Equal(t, "Apartment", body.LeadProfile.PropertyType)
	assert.Equal(t, models.TierLocal, body.ModelTier)
}

func TestChat_CachedReplySkipsModel(t *testing.T) {
	ts, responder, replyCache := newTestServer(t)

	// Seed the cache at the position a fresh session will compute: no prior
	// assistant message, default language.
	require.NoError(t, replyCache.Set(context.Background(), "s1::en", "hi", "Welcome back!"))

	resp := postChat(t, ts, `{"userId":"u1","sessionId":"s1","userMessage":"hi"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Welcome back!", body.Reply)

	assert.Equal(t, int64(0), responder.calls.Load(), "cached turn must not hit the model")
}

func TestChat_InvalidRequest(t *testing.T) {
	ts, _, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing message", `{"userId":"u1","sessionId":"s1"}`},
		{"unknown field", `{"userId":"u1","sessionId":"s1","userMessage":"hi","x":1}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postChat(t, ts, tt.payload)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdmin_Sessions(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := postChat(t, ts, `{"userId":"u1","sessionId":"s1","userMessage":"hi"}`)
	resp.Body.Close()

	listResp, err := http.Get(ts.URL + "/admin/sessions")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var body struct {
		Count    int                         `json:"count"`
		Sessions []*models.ConversationState `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Sessions, 1)
	assert.Equal(t, "s1", body.Sessions[0].SessionID)
}

func TestAdmin_LeadSearch(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/admin/leads/search?q=john")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int                  `json:"count"`
		Leads []models.LeadProfile `json:"leads"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)

	missing, err := http.Get(ts.URL + "/admin/leads/search")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
