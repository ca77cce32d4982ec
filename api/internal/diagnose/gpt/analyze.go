package gpt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/diagnose/prompt"
	"plant-doctor/api/internal/util"
)

const DIAGNOSE = "diagnose"

// Analyze гоняет фото через OpenAI Responses API со strict json_schema.
func (e *Engine) Analyze(ctx context.Context, in diagnose.AnalyzeInput) (diagnose.Diagnosis, error) {
	if e.APIKey == "" {
		return diagnose.Diagnosis{}, fmt.Errorf("%w: OPENAI_API_KEY is empty", diagnose.ErrNoCredential)
	}

	// accept raw base64 or data: URL
	imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(in.ImageB64)
	if err != nil || len(imgBytes) == 0 {
		return diagnose.Diagnosis{}, fmt.Errorf("openai analyze: invalid image base64")
	}
	mime := util.PickMIME("", mimeFromDataURL, imgBytes)
	if !isOpenAIImageMIME(mime) {
		return diagnose.Diagnosis{}, fmt.Errorf("openai analyze: unsupported MIME %s (need image/jpeg|png|webp)", mime)
	}
	dataURL := util.MakeDataURL(mime, base64.StdEncoding.EncodeToString(imgBytes))

	var schema map[string]any
	if err := json.Unmarshal([]byte(prompt.DiagnosisSchema), &schema); err != nil {
		return diagnose.Diagnosis{}, fmt.Errorf("openai analyze: bad embedded schema: %w", err)
	}
	fixJSONSchemaStrict(schema)

	body := map[string]any{
		"model": e.GetModel(),
		"input": []any{
			map[string]any{
				"role": "system",
				"content": []any{
					map[string]any{"type": "input_text", "text": prompt.System(in.LanguageOrDefault())},
				},
			},
			map[string]any{
				"type": "message",
				"role": "user",
				"content": []any{
					map[string]any{"type": "input_text", "text": prompt.User(in.Symptoms)},
					map[string]any{"type": "input_image", "image_url": dataURL},
				},
			},
		},
		"temperature": 0,
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   DIAGNOSE,
				"strict": true,
				"schema": schema,
			},
		},
	}

	if strings.Contains(e.GetModel(), "gpt-5") {
		body["temperature"] = 1
	}

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/responses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	start := time.Now()
	resp, err := e.httpc.Do(req)
	log.Printf("diagnose time: %d ms", time.Since(start).Milliseconds())
	if err != nil {
		log.Printf("openai analyze: %v", err)
		return diagnose.Diagnosis{}, fmt.Errorf("%w: %v", diagnose.ErrAnalysis, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("openai analyze %d: %s", resp.StatusCode, truncateBytes(raw, 1024))
		return diagnose.Diagnosis{}, fmt.Errorf("%w: openai status %d", diagnose.ErrAnalysis, resp.StatusCode)
	}

	out := fallbackExtractResponsesText(raw)
	if strings.TrimSpace(out) == "" {
		log.Printf("openai analyze: empty output; body=%s", truncateBytes(raw, 1024))
		return diagnose.Diagnosis{}, fmt.Errorf("%w: empty response", diagnose.ErrAnalysis)
	}
	d, err := diagnose.DecodeDiagnosis(out)
	if err != nil {
		log.Printf("openai analyze: %v", err)
		return diagnose.Diagnosis{}, err
	}
	return d, nil
}
