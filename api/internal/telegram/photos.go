package telegram

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/util"
)

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	r.send(cid, "Принял фото, смотрю на лист…")

	// берём самое большое превью
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	imgBytes, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	var symptoms *string
	if s := msg.Caption; s != "" {
		symptoms = &s
	}

	go r.runDiagnose(context.Background(), cid, imgBytes, symptoms)
}

func (r *Router) runDiagnose(ctx context.Context, cid int64, img []byte, symptoms *string) {
	engine := r.EngManager.Get(cid)
	language := getLanguage(cid)
	hash := util.SHA256Hex(img)

	// Кэш смотрим только для фото без симптомов: текст меняет ответ модели
	if r.DiagnosisRepo != nil && symptoms == nil {
		if d, err := r.DiagnosisRepo.Find(ctx, hash, engine.Name(), engine.GetModel(), language, cacheMaxAge); err == nil {
			r.sendMarkdown(cid, formatDiagnosis(d))
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("diagnosis cache find: %v", err)
		}
	}

	d, err := engine.Analyze(ctx, diagnose.AnalyzeInput{
		ImageB64: base64.StdEncoding.EncodeToString(img),
		Language: language,
		Symptoms: symptoms,
	})
	if err != nil {
		log.Printf("diagnose (%s, chat %d): %v", engine.Name(), cid, err)
		r.send(cid, "⚠️ "+diagnose.UserMessage(err))
		return
	}

	if r.DiagnosisRepo != nil && symptoms == nil {
		if err := r.DiagnosisRepo.Upsert(ctx, hash, engine.Name(), engine.GetModel(), language, d); err != nil {
			log.Printf("diagnosis cache upsert: %v", err)
		}
	}

	r.sendMarkdown(cid, formatDiagnosis(d))
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, "⚠️ Не смог обработать фото: "+err.Error())
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: downloadTimeout}
}
