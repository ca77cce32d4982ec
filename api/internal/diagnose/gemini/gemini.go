package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"plant-doctor/api/internal/diagnose"
	"plant-doctor/api/internal/diagnose/prompt"
	"plant-doctor/api/internal/util"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// diagnosisSchema — контракт DIAGNOSE v1 в типах genai.
// Зеркало prompt.DiagnosisSchema: status — закрытый enum, disease_name опционален.
var diagnosisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"plant_name": {Type: genai.TypeString},
		"status": {
			Type: genai.TypeString,
			Enum: []string{string(diagnose.StatusHealthy), string(diagnose.StatusDiseased), string(diagnose.StatusUncertain)},
		},
		"disease_name":    {Type: genai.TypeString},
		"confidence":      {Type: genai.TypeNumber},
		"treatment":       {Type: genai.TypeString},
		"prevention_tips": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"watering_advice": {Type: genai.TypeString},
	},
	Required: []string{"plant_name", "status", "confidence", "treatment", "prevention_tips", "watering_advice"},
}

// Analyze отправляет фото листа в Gemini и разбирает строгий JSON-диагноз.
func (e *Engine) Analyze(ctx context.Context, in diagnose.AnalyzeInput) (diagnose.Diagnosis, error) {
	if e.APIKey == "" {
		return diagnose.Diagnosis{}, fmt.Errorf("%w: GEMINI_API_KEY is empty", diagnose.ErrNoCredential)
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return diagnose.Diagnosis{}, fmt.Errorf("%w: client: %v", diagnose.ErrAnalysis, err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(e.Model))
	if m == nil {
		return diagnose.Diagnosis{}, fmt.Errorf("%w: model is nil", diagnose.ErrAnalysis)
	}
	// Возвращаем строго JSON по объявленной схеме
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   diagnosisSchema,
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(prompt.System(in.LanguageOrDefault())),
			genai.Text("\ndiagnosis.schema.json:\n" + prompt.DiagnosisSchema),
		},
	}

	imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(in.ImageB64)
	if err != nil {
		return diagnose.Diagnosis{}, fmt.Errorf("gemini analyze: bad base64: %w", err)
	}
	finalMIME := util.PickMIME("", mimeFromDataURL, imgBytes)

	parts := []genai.Part{
		genai.Text(prompt.User(in.Symptoms)),
		&genai.Blob{MIMEType: finalMIME, Data: imgBytes},
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		log.Printf("gemini analyze: GenerateContent: %v", err)
		return diagnose.Diagnosis{}, fmt.Errorf("%w: %v", diagnose.ErrAnalysis, err)
	}
	d, err := diagnose.DecodeDiagnosis(firstText(resp))
	if err != nil {
		log.Printf("gemini analyze: %v", err)
		return diagnose.Diagnosis{}, err
	}
	return d, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
