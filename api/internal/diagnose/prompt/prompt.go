// Package prompt держит системные инструкции и схему ответа DIAGNOSE.
// Текст правится здесь без перекомпиляции остального кода.
package prompt

import (
	"fmt"
	"strings"
)

// System — инструкция модели. Язык описательных полей подставляется,
// status всегда остаётся английским enum.
func System(language string) string {
	return fmt.Sprintf(`You are an expert plant pathologist. Analyze the provided photo of a plant leaf
and produce a structured diagnosis.

Rules (MANDATORY):
1) Identify the plant by its common name.
2) status is EXACTLY one of: "Healthy", "Diseased", "Uncertain". Never translate it,
   never invent other values.
3) If the plant is healthy, set disease_name to "None".
4) confidence is a number from 0 to 100.
5) prevention_tips contains 2-3 short actionable items.
6) Translate plant_name, disease_name, treatment, prevention_tips and watering_advice
   into %s. status stays in English.
7) Output ONLY JSON conforming to diagnosis.schema.json. Any text outside JSON is an error.`, language)
}

// User — пользовательская часть: симптомы, если есть.
func User(symptoms *string) string {
	base := "Diagnose the plant on the photo. Answer strictly with JSON per diagnosis.schema.json."
	if symptoms != nil {
		if s := strings.TrimSpace(*symptoms); s != "" {
			return base + "\nThe owner reports the following symptoms: " + s
		}
	}
	return base
}

// DiagnosisSchema — diagnosis.schema.json (DIAGNOSE v1).
// Используется как strict json_schema для OpenAI Responses API;
// для Gemini тот же контракт объявлен типизированно в движке.
const DiagnosisSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "DIAGNOSE v1",
  "type": "object",
  "properties": {
    "plant_name": { "type": "string" },
    "status": { "type": "string", "enum": ["Healthy", "Diseased", "Uncertain"] },
    "disease_name": { "type": "string" },
    "confidence": { "type": "number", "minimum": 0, "maximum": 100 },
    "treatment": { "type": "string" },
    "prevention_tips": {
      "type": "array",
      "items": { "type": "string" },
      "minItems": 2,
      "maxItems": 3
    },
    "watering_advice": { "type": "string" }
  },
  "required": ["plant_name", "status", "confidence", "treatment", "prevention_tips", "watering_advice"]
}`
