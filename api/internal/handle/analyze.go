package handle

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/util"
)

func stripDataURL(b64 string) string {
	s := strings.TrimSpace(b64)
	if i := strings.Index(s, ","); i != -1 && strings.HasPrefix(strings.ToLower(s[:i]), "data:") {
		return s[i+1:]
	}
	return s
}

type AnalyzeRequest struct {
	LLMName string `json:"llm_name"`
	diagnose.AnalyzeInput
}

// Analyze — POST /v1/diagnose. Пользователю — один из двух классов ошибок,
// детали остаются в логе.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}

	req.ImageB64 = stripDataURL(req.ImageB64)
	// та же проверка base64 (включая URL-safe), что и в движках
	img, _, err := util.DecodeBase64MaybeDataURL(req.ImageB64)
	if err != nil || len(img) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad image_b64"})
		return
	}

	deadline := 180 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), deadline)
	defer cancel()

	engine, err := h.engs.Get(req.LLMName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	out, err := engine.Analyze(ctx, req.AnalyzeInput)
	if err != nil {
		log.Printf("analyze (%s): %v", engine.Name(), err)
		code := http.StatusBadGateway
		if errors.Is(err, diagnose.ErrNoCredential) {
			code = http.StatusInternalServerError
		}
		writeJSON(w, code, map[string]string{"error": diagnose.UserMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, out)
}
