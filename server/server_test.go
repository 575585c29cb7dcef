package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatwatch/analyzer"
	"chatwatch/engine"
	"chatwatch/redis"
)

type stubStore struct {
	keys []redis.ConversationKey
	data map[string][]analyzer.Message
}

func (s *stubStore) Ping(ctx context.Context) error {
	return nil
}

func (s *stubStore) ConversationKeys(ctx context.Context) ([]redis.ConversationKey, error) {
	return s.keys, nil
}

func (s *stubStore) Messages(ctx context.Context, key string) ([]analyzer.Message, error) {
	return s.data[key], nil
}

func testServer() *Server {
	now := time.Now().UTC()
	earlier := now.Add(-2 * time.Minute)
	later := now.Add(-1 * time.Minute)

	store := &stubStore{
		keys: []redis.ConversationKey{
			{Raw: "5511999999999@s.whatsapp.net", Phone: "5511999999999"},
		},
		data: map[string][]analyzer.Message{
			"5511999999999@s.whatsapp.net": {
				{Sender: analyzer.SenderHuman, Content: "help", Timestamp: &earlier},
				{Sender: analyzer.SenderAI, Content: "one moment", Timestamp: &later},
			},
		},
	}

	return New(engine.New(store, 2))
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer()

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body.Status)
}

func TestAlertsEndpoint(t *testing.T) {
	srv := testServer()

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/alerts", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body alertsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "5511999999999", body.Data[0].Phone)
	assert.Equal(t, analyzer.StatusFailure, body.Data[0].Status)
}

func TestConversationEndpoint(t *testing.T) {
	srv := testServer()

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/conversations/5511999999999", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body conversationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Messages, 2)
}

func TestConversationNotFound(t *testing.T) {
	srv := testServer()

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/conversations/0000000000", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 404, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer()

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/api/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body metricsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Chart, 7)
	assert.Equal(t, 1, body.Data.Totals.Total)
}
