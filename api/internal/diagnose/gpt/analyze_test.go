package gpt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-doctor/api/internal/diagnose"
)

var jpegB64 = base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0})

// roundTripperFunc подменяет транспорт, сетевых вызовов нет.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func cannedClient(status int, body string) *http.Client {
	return &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Request:    r,
		}, nil
	})}
}

func TestAnalyzeNoCredential(t *testing.T) {
	e := New("", "gpt-4o-mini")
	_, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: jpegB64})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnose.ErrNoCredential))
}

func TestAnalyzeBadBase64(t *testing.T) {
	e := New("key", "gpt-4o-mini")
	_, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: "@@@"})
	assert.Error(t, err)
}

func TestAnalyzeOK(t *testing.T) {
	inner := `{"plant_name":"Monstera","status":"Healthy","disease_name":"None","confidence":92,` +
		`"treatment":"None needed","prevention_tips":["Indirect light","Let soil dry"],"watering_advice":"Weekly"}`
	envelope, _ := json.Marshal(map[string]any{"object": "response", "output_text": inner})

	e := New("key", "gpt-4o-mini").WithHTTPClient(cannedClient(http.StatusOK, string(envelope)))

	d, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: jpegB64, Language: "English"})
	require.NoError(t, err)
	assert.Equal(t, diagnose.StatusHealthy, d.Status)
	assert.Equal(t, "Monstera", d.PlantName)
	assert.Equal(t, float64(92), d.Confidence)
}

func TestAnalyzeEmptyOutput(t *testing.T) {
	e := New("key", "gpt-4o-mini").WithHTTPClient(cannedClient(http.StatusOK, `{"object":"response","output":[]}`))
	_, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: jpegB64})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnose.ErrAnalysis))
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	envelope, _ := json.Marshal(map[string]any{"object": "response", "output_text": "sorry, not json"})
	e := New("key", "gpt-4o-mini").WithHTTPClient(cannedClient(http.StatusOK, string(envelope)))
	_, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: jpegB64})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnose.ErrAnalysis))
}

func TestAnalyzeUpstreamError(t *testing.T) {
	e := New("key", "gpt-4o-mini").WithHTTPClient(cannedClient(http.StatusTooManyRequests, `{"error":{"message":"quota"}}`))
	_, err := e.Analyze(context.Background(), diagnose.AnalyzeInput{ImageB64: jpegB64})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnose.ErrAnalysis))
}

func TestFallbackExtractResponsesText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "output_text wins", raw: `{"output_text":"hello","output":[{"content":[{"type":"text","text":"ignored"}]}]}`, want: "hello"},
		{name: "segments joined", raw: `{"output":[{"content":[{"type":"output_text","text":"a"},{"type":"text","text":"b"}]}]}`, want: "a\nb"},
		{name: "untyped segment", raw: `{"output":[{"content":[{"text":"c"}]}]}`, want: "c"},
		{name: "blank segments skipped", raw: `{"output":[{"content":[{"type":"text","text":"  "}]}]}`, want: ""},
		{name: "not json", raw: `<!doctype html>`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackExtractResponsesText([]byte(tt.raw)))
		})
	}
}

func TestFixJSONSchemaStrict(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "number"},
		},
	}
	fixJSONSchemaStrict(schema)
	assert.Equal(t, "object", schema["type"])
	req, ok := schema["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"a", "b"}, req)
}

func TestIsOpenAIImageMIME(t *testing.T) {
	assert.True(t, isOpenAIImageMIME("image/jpeg"))
	assert.True(t, isOpenAIImageMIME(" IMAGE/PNG "))
	assert.True(t, isOpenAIImageMIME("image/webp"))
	assert.False(t, isOpenAIImageMIME("application/pdf"))
	assert.False(t, isOpenAIImageMIME(""))
}
