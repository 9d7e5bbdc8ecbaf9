package parser

import (
	"regexp"
	"strings"

	"chatter-io/internal/domain"
)

// Classification - результат классификации тела сообщения.
type Classification struct {
	Kind         domain.MessageKind
	Omitted      bool
	CallDuration string
}

// kindRule - правило классификации; правила проверяются сверху вниз,
// срабатывает первое совпавшее.
type kindRule struct {
	kind    domain.MessageKind
	omitted bool
	match   func(body string) bool
}

// kindRules задают приоритет: заглушки медиа, затем звонки.
// Если ни одно правило не сработало, сообщение текстовое.
var kindRules = []kindRule{
	{kind: domain.KindAudio, omitted: true, match: containsAny("audio omitted")},
	{kind: domain.KindSticker, omitted: true, match: containsAny("sticker omitted")},
	{kind: domain.KindImage, omitted: true, match: containsAny("image omitted")},
	{kind: domain.KindVideo, omitted: true, match: containsAny("video omitted")},
	{kind: domain.KindDocument, omitted: true, match: containsAny("document omitted")},
	{kind: domain.KindCall, match: containsAny("Video call", "Voice call", "Call")},
}

// callDurationRegexp захватывает остаток строки после маркера звонка:
// "Video call <LRM>13 min" -> "13 min".
var callDurationRegexp = regexp.MustCompile(`(?:Video call|Voice call|Call)[\s\x{200E}\x{200F}]*([^\n]+)`)

func containsAny(markers ...string) func(string) bool {
	return func(body string) bool {
		for _, m := range markers {
			if strings.Contains(body, m) {
				return true
			}
		}
		return false
	}
}

// looksOmitted - более широкий признак заглушки: слово "omitted" или любой
// управляющий символ направления. Вычисляется независимо от правил типа.
func looksOmitted(body string) bool {
	return strings.Contains(body, "omitted") || containsBidiMark(body)
}

// Classify определяет тип сообщения, признак заглушки и длительность звонка.
func Classify(body string) Classification {
	result := Classification{Kind: domain.KindText}
	for _, rule := range kindRules {
		if rule.match(body) {
			result.Kind = rule.kind
			result.Omitted = rule.omitted
			break
		}
	}

	result.Omitted = result.Omitted || looksOmitted(body)

	if result.Kind == domain.KindCall {
		result.CallDuration = extractCallDuration(body)
	}
	return result
}

func extractCallDuration(body string) string {
	m := callDurationRegexp.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(stripBidiMarks(m[1]))
}
