package diagnose

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `{
  "plant_name": "Фикус каучуконосный",
  "status": "Diseased",
  "disease_name": "Антракноз",
  "confidence": 87.5,
  "treatment": "Удалите поражённые листья, обработайте фунгицидом.",
  "prevention_tips": ["Не опрыскивайте листья вечером", "Проветривайте помещение"],
  "watering_advice": "Поливайте под корень, когда верхний слой почвы просох."
}`

func TestDecodeDiagnosis(t *testing.T) {
	d, err := DecodeDiagnosis(wellFormed)
	require.NoError(t, err)
	assert.Equal(t, "Фикус каучуконосный", d.PlantName)
	assert.Equal(t, StatusDiseased, d.Status)
	assert.Equal(t, "Антракноз", d.DiseaseName)
	assert.Equal(t, 87.5, d.Confidence)
	assert.Len(t, d.PreventionTips, 2)
	assert.NotEmpty(t, d.Treatment)
	assert.NotEmpty(t, d.WateringAdvice)
}

func TestDecodeDiagnosisCodeFences(t *testing.T) {
	d, err := DecodeDiagnosis("```json\n" + wellFormed + "\n```")
	require.NoError(t, err)
	assert.Equal(t, StatusDiseased, d.Status)
}

func TestDecodeDiagnosisConfidenceBoundaries(t *testing.T) {
	// 0 и 100 принимаются как есть
	for _, conf := range []string{"0", "100"} {
		d, err := DecodeDiagnosis(`{"plant_name":"Monstera","status":"Healthy","disease_name":"None","confidence":` + conf +
			`,"treatment":"-","prevention_tips":["a","b"],"watering_advice":"-"}`)
		require.NoError(t, err, "confidence=%s", conf)
		assert.Equal(t, StatusHealthy, d.Status)
	}
}

func TestDecodeDiagnosisErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "whitespace only", in: "   \n\t "},
		{name: "not json", in: "I am sorry, I cannot analyze this image."},
		{name: "truncated json", in: `{"plant_name":"Ficus","status":"Healthy"`},
		{name: "status outside vocabulary", in: `{"plant_name":"Ficus","status":"Sick","confidence":50,"treatment":"-","prevention_tips":["a","b"],"watering_advice":"-"}`},
		{name: "translated status", in: `{"plant_name":"Ficus","status":"Здоровое","confidence":50,"treatment":"-","prevention_tips":["a","b"],"watering_advice":"-"}`},
		{name: "confidence below range", in: `{"plant_name":"Ficus","status":"Healthy","confidence":-1,"treatment":"-","prevention_tips":["a","b"],"watering_advice":"-"}`},
		{name: "confidence above range", in: `{"plant_name":"Ficus","status":"Healthy","confidence":101,"treatment":"-","prevention_tips":["a","b"],"watering_advice":"-"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDiagnosis(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAnalysis), "ошибка должна быть класса ErrAnalysis, got: %v", err)
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusHealthy.Valid())
	assert.True(t, StatusDiseased.Valid())
	assert.True(t, StatusUncertain.Valid())
	assert.False(t, Status("healthy").Valid())
	assert.False(t, Status("").Valid())
}

func TestLanguageOrDefault(t *testing.T) {
	assert.Equal(t, "English", AnalyzeInput{}.LanguageOrDefault())
	assert.Equal(t, "Spanish", AnalyzeInput{Language: "Spanish"}.LanguageOrDefault())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "LLM API key is not configured", UserMessage(ErrNoCredential))
	// любые ошибки анализа для пользователя неразличимы
	msg := UserMessage(ErrAnalysis)
	assert.Equal(t, msg, UserMessage(errors.New("connection reset")))
	assert.Contains(t, msg, "billing")
}
