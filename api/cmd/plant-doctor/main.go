package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"plant-doctor/api/internal/config"
	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/diagnose/gemini"
	"plant-doctor/api/internal/diagnose/gpt"
	"plant-doctor/api/internal/handle"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	engines := &diagnose.Engines{
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		OpenAI: gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel),
	}
	h := handle.New(engines)

	mux.HandleFunc("/v1/diagnose", h.Analyze)

	addr := ":" + cfg.Port
	log.Printf("plant-doctor listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
