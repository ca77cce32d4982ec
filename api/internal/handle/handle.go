package handle

import (
	"encoding/json"
	"net/http"

	"plant-doctor/api/internal/diagnose"
)

type Handle struct {
	engs *diagnose.Engines
}

func New(engs *diagnose.Engines) *Handle {
	return &Handle{
		engs: engs,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
