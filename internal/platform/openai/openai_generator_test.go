package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vokabel/internal/config"
	"github.com/phrazzld/vokabel/internal/domain"
	"github.com/phrazzld/vokabel/internal/generation"
	"github.com/phrazzld/vokabel/internal/platform/logger"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": finish,
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

// newTestServer serves chat completions through handler and counts calls.
func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestGenerator(t *testing.T, baseURL string) *Generator {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	g, err := NewGenerator(log, config.LLMConfig{
		OpenAIAPIKey:          "sk-test",
		OpenAIBaseURL:         baseURL + "/v1",
		Temperature:           0.7,
		MaxRetries:            1,
		RequestTimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return g
}

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(nil, config.LLMConfig{OpenAIAPIKey: "k"})
	assert.Error(t, err)

	log, _ := logger.GetTestLogger(t)
	_, err = NewGenerator(log, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	srv, calls := newTestServer(t, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, generation.SystemInstruction, req.Messages[0].Content)
		assert.Contains(t, req.Messages[1].Content, "GENAU 2 unterschiedliche")

		reply := "Gerne!\n[{\"de\":\"Haus\",\"es\":\"casa\"},{\"de\":\"Baum\",\"es\":\"árbol\"},{\"de\":\"Tür\",\"es\":\"puerta\"}]"
		_ = json.NewEncoder(w).Encode(completion(reply, "stop"))
	})

	pairs, err := newTestGenerator(t, srv.URL).Generate(context.Background(), "Haus", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{Source: "Haus", Target: "casa"}, {Source: "Baum", Target: "árbol"}}, pairs)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      any
		wantErr   error
		wantCalls int32
	}{
		{
			name:      "content filter",
			status:    http.StatusOK,
			body:      completion("", "content_filter"),
			wantErr:   generation.ErrContentBlocked,
			wantCalls: 1,
		},
		{
			name:      "empty content",
			status:    http.StatusOK,
			body:      completion("  ", "stop"),
			wantErr:   generation.ErrInvalidResponse,
			wantCalls: 1,
		},
		{
			name:      "empty list",
			status:    http.StatusOK,
			body:      completion("[]", "stop"),
			wantErr:   generation.ErrInvalidResponse,
			wantCalls: 1,
		},
		{
			name:      "unauthorized is permanent",
			status:    http.StatusUnauthorized,
			body:      map[string]any{"error": map[string]any{"message": "bad key", "type": "invalid_request_error"}},
			wantErr:   generation.ErrInvalidConfig,
			wantCalls: 1,
		},
		{
			name:      "server error is retried",
			status:    http.StatusInternalServerError,
			body:      map[string]any{"error": map[string]any{"message": "oops", "type": "server_error"}},
			wantErr:   generation.ErrTransientFailure,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, calls := newTestServer(t, func(w http.ResponseWriter, _ chatRequest) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})
			_, err := newTestGenerator(t, srv.URL).Generate(context.Background(), "Alltag", 3)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}
