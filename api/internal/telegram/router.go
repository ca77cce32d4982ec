package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/diagnose/gemini"
	"plant-doctor/api/internal/diagnose/gpt"
	"plant-doctor/api/internal/store"
)

type Router struct {
	Bot           *tgbotapi.BotAPI
	EngManager    *diagnose.Manager
	DiagnosisRepo *store.DiagnosisRepo

	// Defaults / display models
	GeminiModel string
	OpenAIModel string
}

type Engines struct {
	Gemini *gemini.Engine
	OpenAI *gpt.Engine
}

func (r *Router) HandleUpdate(upd tgbotapi.Update, engines Engines) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		if strings.HasPrefix(upd.Message.Text, "/engine") {
			r.handleEngineCommand(cid, upd.Message.Text, engines)
			return
		}
		r.HandleCommand(upd)
		return
	}

	// Фото листа (подпись к фото уходит в модель как описание симптомов)
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
	}
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Пришли фото листа растения — верну диагноз: название, статус, болезнь, лечение.\n"+
			"Подпись к фото — описание симптомов (необязательно).\n"+
			"Команды: /language, /engine, /health")
	case "health":
		r.send(cid, "✅ OK")
	case "language":
		arg := strings.TrimSpace(strings.TrimPrefix(upd.Message.Text, "/language"))
		if arg == "" {
			r.send(cid, "Текущий язык диагноза: "+getLanguage(cid)+
				"\nИспользование: /language Russian | English | Spanish | ...")
			return
		}
		setLanguage(cid, arg)
		r.send(cid, "Ок, диагнозы буду писать на: "+arg)
	default:
		r.send(cid, "Неизвестная команда")
	}
}

func (r *Router) handleEngineCommand(cid int64, text string, engines Engines) {
	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(text, "/engine")))
	if len(args) == 0 {
		r.send(cid, r.engineStatusText(cid))
		return
	}
	name := strings.ToLower(args[0])
	var mdl string
	if len(args) > 1 {
		mdl = args[1]
	}
	eng := resolveEngine(name, mdl, engines)
	if eng == nil {
		r.send(cid, "Неизвестный движок. Доступны: gemini | gpt")
		return
	}
	r.EngManager.Set(cid, eng)
	r.send(cid, fmt.Sprintf("✅ Движок: %s (%s)", eng.Name(), eng.GetModel()))
}

func (r *Router) engineStatusText(cid int64) string {
	cur := r.EngManager.Get(cid)
	return "Текущий движок: " + cur.Name() + " (" + cur.GetModel() + ")" +
		"\nИспользование:\n/engine gemini [model] — по умолчанию " + r.GeminiModel +
		"\n/engine gpt [model] — по умолчанию " + r.OpenAIModel
}

// resolveEngine строит свежий движок для чата. Общий инстанс не мутируем:
// GetModel() читается из горутин runDiagnose, и смена модели в одном чате
// не должна трогать остальные.
func resolveEngine(name, mdl string, engines Engines) diagnose.Engine {
	switch name {
	case "gemini":
		if mdl == "" {
			mdl = engines.Gemini.Model
		}
		return gemini.New(engines.Gemini.APIKey, mdl)
	case "gpt":
		if mdl == "" {
			mdl = engines.OpenAI.Model
		}
		return gpt.New(engines.OpenAI.APIKey, mdl)
	default:
		return nil
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

func (r *Router) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, _ = r.Bot.Send(msg)
}
