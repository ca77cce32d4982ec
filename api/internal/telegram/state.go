package telegram

import (
	"strings"
	"sync"
	"time"
)

const (
	downloadTimeout = 60 * time.Second
	cacheMaxAge     = 24 * time.Hour
	defaultLanguage = "Russian"
)

var chatLanguage sync.Map // chatID -> string: язык описательных полей диагноза

// хелперы
func setLanguage(chatID int64, lang string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		chatLanguage.Delete(chatID)
		return
	}
	chatLanguage.Store(chatID, lang)
}

func getLanguage(chatID int64) string {
	if v, ok := chatLanguage.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return defaultLanguage
}
