package diagnose

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"plant-doctor/api/internal/util"
)

// Два видимых пользователю класса ошибок. Детали — только в логах.
var (
	// ErrNoCredential — ключ API пуст; проверяется до любого сетевого вызова.
	ErrNoCredential = errors.New("credential is empty")
	// ErrAnalysis — сбой сети, пустой ответ или невалидный JSON от модели.
	ErrAnalysis = errors.New("analysis failed")
)

// UserMessage — единый текст ошибки для пользователя.
func UserMessage(err error) string {
	if errors.Is(err, ErrNoCredential) {
		return "LLM API key is not configured"
	}
	return "diagnosis failed; verify the API key is valid and billing is enabled"
}

// DecodeDiagnosis разбирает текст ответа модели в Diagnosis.
// Пустой текст, битый JSON, статус вне словаря и confidence вне 0..100 —
// всё это ErrAnalysis: вызывающему причина не важна, детали пишутся в лог выше.
func DecodeDiagnosis(txt string) (Diagnosis, error) {
	txt = util.StripCodeFences(strings.TrimSpace(txt))
	if txt == "" {
		return Diagnosis{}, fmt.Errorf("%w: empty response", ErrAnalysis)
	}
	var d Diagnosis
	if err := json.Unmarshal([]byte(txt), &d); err != nil {
		return Diagnosis{}, fmt.Errorf("%w: bad JSON: %v", ErrAnalysis, err)
	}
	if !d.Status.Valid() {
		return Diagnosis{}, fmt.Errorf("%w: unexpected status %q", ErrAnalysis, d.Status)
	}
	if d.Confidence < 0 || d.Confidence > 100 {
		return Diagnosis{}, fmt.Errorf("%w: confidence %v out of range", ErrAnalysis, d.Confidence)
	}
	return d, nil
}
