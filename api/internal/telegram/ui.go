package telegram

import (
	"fmt"
	"strings"

	"plant-doctor/api/internal/diagnose"
)

func statusEmoji(s diagnose.Status) string {
	switch s {
	case diagnose.StatusHealthy:
		return "✅"
	case diagnose.StatusDiseased:
		return "🦠"
	default:
		return "❓"
	}
}

// formatDiagnosis собирает ответ бота. status в тексте не переводим.
func formatDiagnosis(d diagnose.Diagnosis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s* — %s (%.0f%%)\n", statusEmoji(d.Status), esc(d.PlantName), d.Status, d.Confidence)
	if d.DiseaseName != "" && d.DiseaseName != "None" {
		fmt.Fprintf(&b, "Болезнь: %s\n", esc(d.DiseaseName))
	}
	fmt.Fprintf(&b, "\n💊 %s\n", esc(d.Treatment))
	if len(d.PreventionTips) > 0 {
		b.WriteString("\n🛡 Профилактика:\n")
		for i, tip := range d.PreventionTips {
			fmt.Fprintf(&b, "%d. %s\n", i+1, esc(tip))
		}
	}
	fmt.Fprintf(&b, "\n💧 %s", esc(d.WateringAdvice))
	return b.String()
}

// лёгкое экранирование для Markdown
func esc(s string) string {
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "[", "\\[")
	return s
}
