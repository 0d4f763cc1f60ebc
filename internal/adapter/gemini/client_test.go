package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey   = "test-key"
	testModel = "gemini-test"
)

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return NewClient(testKey, baseURL, testModel, 5*time.Second, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1764224100,
		"model":   testModel,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testModel, req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 1e-6)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
		assert.Equal(t, "Is Chennai at risk this week?", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completion("Monitor the Bay of Bengal depression.")))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	reply, err := testClient(srv.URL, metrics).Generate(context.Background(), "Is Chennai at risk this week?")
	require.NoError(t, err)

	assert.Equal(t, "Monitor the Bay of Bengal depression.", reply)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InsightRequests.WithLabelValues("success")))
}

func TestClient_Generate_TrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completion("ok")))
	}))
	defer srv.Close()

	reply, err := testClient(srv.URL+"/", observability.NewMetricsForTesting()).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestClient_Generate_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completion("   ")))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Generate(context.Background(), "hi")
	require.ErrorIs(t, err, domain.ErrEmptyReply)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InsightRequests.WithLabelValues("empty")))
}

func TestClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Generate(context.Background(), "hi")
	require.ErrorIs(t, err, domain.ErrEmptyReply)
}

func TestClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	_, err := testClient(srv.URL, metrics).Generate(context.Background(), "hi")
	require.Error(t, err)

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InsightRequests.WithLabelValues("error")))
}
