package kiosk

import (
	"fmt"
	"strings"
)

// SafeMessage is the generic failure text shown when a request could
// not be completed at all.
func SafeMessage(lang string) string {
	switch lang {
	case "AR":
		return "لم أتمكن من إتمام هذا الطلب. يرجى المحاولة مرة أخرى أو إعادة الصياغة."
	case "FR":
		return "Je n'ai pas pu traiter cette demande. Veuillez réessayer ou reformuler."
	default:
		return "I couldn't complete that request. Please try again or rephrase."
	}
}

// Clarifier picks a clarifying question tuned to the query topic.
func Clarifier(query, lang string) string {
	q := strings.ToLower(query)
	switch lang {
	case "AR":
		if strings.Contains(query, "جلسة") || strings.Contains(q, "session") {
			return "هل تقصد جلسة معينة، أم جدول الجلسات، أم تفاصيل التسجيل؟"
		}
		if strings.Contains(query, "متحدث") || strings.Contains(q, "speaker") {
			return "هل تقصد سيرة المتحدث، أم وقت الجلسة، أم موضوع الجلسة؟"
		}
		return "هل تقصد جدول الفعالية، أم تفاصيل الجلسات، أم معلومات المتحدثين، أم التسجيل؟"
	case "FR":
		if strings.Contains(q, "session") {
			return "Parlez-vous d'une session spécifique, du programme des sessions, ou des détails d'inscription ?"
		}
		if strings.Contains(q, "speaker") || strings.Contains(q, "intervenant") {
			return "Parlez-vous du profil de l'intervenant, de son horaire, ou du sujet de sa session ?"
		}
		return "Parlez-vous du programme, des détails de session, des intervenants, ou de l'inscription ?"
	default:
		if strings.Contains(q, "session") {
			return "Do you mean a specific session, the session schedule, or registration details?"
		}
		if strings.Contains(q, "speaker") {
			return "Do you mean speaker profile, session timing, or talk topic?"
		}
		return "Do you mean the event schedule, session details, speaker information, or registration?"
	}
}

// ClarifierOptions returns tappable choices matching the clarifier text.
func ClarifierOptions(query, lang string) []string {
	q := strings.ToLower(query)
	switch lang {
	case "AR":
		if strings.Contains(query, "جلسة") || strings.Contains(q, "session") {
			return []string{"جدول الجلسات", "تفاصيل الجلسة", "وقت الجلسة"}
		}
		if strings.Contains(query, "متحدث") || strings.Contains(q, "speaker") {
			return []string{"السيرة المهنية", "وقت الجلسة", "موضوع الجلسة"}
		}
		return []string{"جدول الفعالية", "معلومات الجلسات", "مساعدة التسجيل"}
	case "FR":
		if strings.Contains(q, "session") {
			return []string{"Programme des sessions", "Détails de la session", "Horaire de la session"}
		}
		if strings.Contains(q, "speaker") || strings.Contains(q, "intervenant") {
			return []string{"Profil de l'intervenant", "Horaire de session", "Sujet de session"}
		}
		return []string{"Programme de l'événement", "Infos sessions", "Aide à l'inscription"}
	default:
		if strings.Contains(q, "session") {
			return []string{"Session schedule", "Session details", "Session timing"}
		}
		if strings.Contains(q, "speaker") {
			return []string{"Speaker profile", "Session timing", "Talk topic"}
		}
		return []string{"Event schedule", "Session information", "Registration help"}
	}
}

func OutOfScopeMessage(lang string) string {
	switch lang {
	case "AR":
		return "هذا الكشك مخصص لجداول الفعاليات والجلسات وإرشادات الحضور الرسمية فقط."
	case "FR":
		return "Ce kiosque couvre uniquement les programmes, les sessions et les informations officielles pour les participants."
	default:
		return "This kiosk covers event schedules, sessions, and official attendee guidance only."
	}
}

func InsufficientGroundingMessage(lang string) string {
	switch lang {
	case "AR":
		return "لم أجد إجابة موثقة في مستندات الفعالية الرسمية. اختر سؤالا أدق أو راجع مكتب المعلومات."
	case "FR":
		return "Je n'ai pas trouvé de réponse vérifiée dans les documents officiels de l'événement. Reformulez votre question ou consultez le bureau d'information."
	default:
		return "I couldn't verify this in the official event documents. Please ask a more specific question or check with the information desk."
	}
}

func SessionLimitMessage(limit int, lang string) string {
	switch lang {
	case "AR":
		return fmt.Sprintf("وصلت هذه الجلسة إلى الحد الأقصى (%d رسالة). اضغط على إنهاء الجلسة لبدء جلسة جديدة.", limit)
	case "FR":
		return fmt.Sprintf("Cette session a atteint la limite (%d messages). Appuyez sur Fin de session pour en démarrer une nouvelle.", limit)
	default:
		return fmt.Sprintf("This session reached the limit (%d messages). Tap End Session to start a new session.", limit)
	}
}

func EmptyQueryMessage(lang string) string {
	switch lang {
	case "AR":
		return "اسألني سؤالا عن الفعالية!"
	case "FR":
		return "Posez-moi une question sur l'événement !"
	default:
		return "Please ask me a question about the event!"
	}
}

func VagueQueryMessage(lang string) string {
	switch lang {
	case "AR":
		return "أود مساعدتك. هل يمكنك تحديد سؤالك بشكل أدق؟"
	case "FR":
		return "Je souhaite vous aider. Pourriez-vous préciser votre question ?"
	default:
		return "I'd like to help with that. Could you be a bit more specific?"
	}
}

func StreamErrorMessage(lang string) string {
	switch lang {
	case "AR":
		return "عذرا، لم أتمكن من إتمام هذا الطلب. يرجى المحاولة مرة أخرى."
	case "FR":
		return "Désolé, je n'ai pas pu traiter cette demande. Veuillez réessayer."
	default:
		return "I'm sorry, I couldn't complete that request. Please try again."
	}
}

// OfflineToProse renders a structured pack answer as kiosk markdown:
// the direct line, then a localized details section of up to four steps.
func OfflineToProse(answer AnswerBlock, lang string) string {
	direct := strings.TrimSpace(answer.Direct)
	var steps []string
	for _, s := range answer.Steps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}

	if direct == "" && len(steps) > 0 {
		direct = steps[0]
		steps = steps[1:]
	}

	var parts []string
	if direct != "" {
		parts = append(parts, direct)
	}
	if len(steps) > 0 {
		switch lang {
		case "AR":
			parts = append(parts, "## تفاصيل")
		case "FR":
			parts = append(parts, "## Détails")
		default:
			parts = append(parts, "## Details")
		}
		if len(steps) > 4 {
			steps = steps[:4]
		}
		var bullets []string
		for _, s := range steps {
			bullets = append(bullets, "- "+s)
		}
		parts = append(parts, strings.Join(bullets, "\n"))
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
