package diagnose

// Status — фиксированный словарь для ветвления в коде. Никогда не переводится.
type Status string

const (
	StatusHealthy   Status = "Healthy"
	StatusDiseased  Status = "Diseased"
	StatusUncertain Status = "Uncertain"
)

func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusDiseased, StatusUncertain:
		return true
	}
	return false
}

// Diagnosis — строгий JSON-ответ модели по diagnosis.schema.json.
// Описательные поля приходят уже переведёнными на язык запроса,
// status — всегда английский enum.
type Diagnosis struct {
	PlantName      string   `json:"plant_name"`
	Status         Status   `json:"status"`
	DiseaseName    string   `json:"disease_name,omitempty"` // "None", если растение здорово
	Confidence     float64  `json:"confidence"`             // 0..100
	Treatment      string   `json:"treatment"`
	PreventionTips []string `json:"prevention_tips"` // 2–3 пункта
	WateringAdvice string   `json:"watering_advice"`
}

// AnalyzeInput — вход анализа одного фото листа.
type AnalyzeInput struct {
	ImageB64 string  `json:"image_b64"`          // base64, допускается data:URI-префикс
	Language string  `json:"language,omitempty"` // язык описательных полей, по умолчанию English
	Symptoms *string `json:"symptoms,omitempty"` // свободный текст от пользователя, опционально
}

func (in AnalyzeInput) LanguageOrDefault() string {
	if in.Language == "" {
		return "English"
	}
	return in.Language
}
