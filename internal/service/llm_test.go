package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/menubebe/backend/config"
)

type capturedRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopK            float64 `json:"topK"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
	SafetySettings []struct {
		Category  string `json:"category"`
		Threshold string `json:"threshold"`
	} `json:"safetySettings"`
}

func geminiServer(t *testing.T, status int, body string, captured *capturedRequest, calls *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGeminiGenerateSendsFixedConfig(t *testing.T) {
	var captured capturedRequest
	var calls int32
	ts := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"LUNES:\n  Cena: Tortilla de calabacín"}]},"finishReason":"STOP"}]}`,
		&captured, &calls)

	gen := NewGeminiGenerator(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	text, err := gen.Generate(context.Background(), "test-key", "PROMPT TEXT", DefaultGenerationOptions())

	require.NoError(t, err)
	assert.Equal(t, "LUNES:\n  Cena: Tortilla de calabacín", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// one user message, no history
	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "PROMPT TEXT", captured.Contents[0].Parts[0].Text)

	assert.InDelta(t, 0.7, captured.GenerationConfig.Temperature, 0.0001)
	assert.InDelta(t, 1, captured.GenerationConfig.TopK, 0.0001)
	assert.InDelta(t, 1, captured.GenerationConfig.TopP, 0.0001)
	assert.Equal(t, 2048, captured.GenerationConfig.MaxOutputTokens)

	categories := make([]string, 0, len(captured.SafetySettings))
	for _, s := range captured.SafetySettings {
		assert.Equal(t, "BLOCK_MEDIUM_AND_ABOVE", s.Threshold)
		categories = append(categories, s.Category)
	}
	assert.ElementsMatch(t, []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}, categories)
}

func TestGeminiGenerateAPIError(t *testing.T) {
	var calls int32
	ts := geminiServer(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`,
		nil, &calls)

	gen := NewGeminiGenerator(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := gen.Generate(context.Background(), "bad-key", "prompt", DefaultGenerationOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send message")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiGenerateEmptyResponse(t *testing.T) {
	tests := map[string]string{
		"no candidates":  `{"candidates":[]}`,
		"blocked prompt": `{"promptFeedback":{"blockReason":"SAFETY"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			ts := geminiServer(t, http.StatusOK, body, nil, nil)
			gen := NewGeminiGenerator(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))

			text, err := gen.Generate(context.Background(), "k", "prompt", DefaultGenerationOptions())
			assert.Error(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestGeminiGenerateHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	gen := NewGeminiGenerator(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	_, err := gen.Generate(ctx, "k", "prompt", DefaultGenerationOptions())
	assert.Error(t, err)
}

func TestMealServiceWithGemini(t *testing.T) {
	var captured capturedRequest
	ts := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"SÁBADO:\n  Comida: Merluza al horno"}]}}]}`,
		&captured, nil)

	svc := NewMealService(config.StaticKeyProvider("k"),
		NewGeminiGenerator(WithBaseURL(ts.URL), WithHTTPClient(ts.Client())),
		nil, DefaultGenerationOptions(), nil)

	text, err := svc.Suggest(context.Background(), "VIERNES: Pescado con patatas")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	require.Len(t, captured.Contents, 1)
	assert.True(t, strings.Contains(captured.Contents[0].Parts[0].Text, "VIERNES: Pescado con patatas"))
}

func TestGenerationOptionsFromConfig(t *testing.T) {
	opts := GenerationOptionsFromConfig(config.GeminiConfig{
		Model:           "gemini-2.0-flash",
		Temperature:     0.3,
		TopK:            2,
		TopP:            0.9,
		MaxOutputTokens: 512,
		Timeout:         time.Second,
	})
	assert.Equal(t, GenerationOptions{
		Model:           "gemini-2.0-flash",
		Temperature:     0.3,
		TopK:            2,
		TopP:            0.9,
		MaxOutputTokens: 512,
		Timeout:         time.Second,
	}, opts)
}
