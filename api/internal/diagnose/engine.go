package diagnose

import (
	"context"
	"errors"
	"sync"
)

type Engine interface {
	Name() string
	GetModel() string
	Analyze(ctx context.Context, in AnalyzeInput) (Diagnosis, error)
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
}

// Get выбирает движок по имени; по умолчанию — Gemini.
func (e *Engines) Get(llmName string) (Engine, error) {
	switch llmName {
	case "", "gemini":
		return e.Gemini, nil
	case "gpt", "openai":
		return e.OpenAI, nil
	default:
		return nil, errors.New("unknown llm_name; use 'gemini' or 'gpt'")
	}
}

type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}
func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
