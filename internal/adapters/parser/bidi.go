package parser

import "strings"

// isBidiMark сообщает, является ли руна управляющим символом направления текста.
// Экспорт оборачивает ими номера телефонов и вставляет перед заглушками медиа.
func isBidiMark(r rune) bool {
	switch r {
	case '\u200e', '\u200f', // LRM, RLM
		'\u202a', '\u202b', '\u202c', '\u202d', '\u202e', // embeddings, overrides
		'\u2066', '\u2067', '\u2068', '\u2069': // isolates
		return true
	}
	return false
}

// containsBidiMark - true, если в строке есть хотя бы один управляющий символ направления.
func containsBidiMark(s string) bool {
	return strings.IndexFunc(s, isBidiMark) >= 0
}

// stripBidiMarks удаляет все управляющие символы направления.
func stripBidiMarks(s string) string {
	if !containsBidiMark(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isBidiMark(r) {
			return -1
		}
		return r
	}, s)
}

// trimLeadingMarks убирает управляющие символы и BOM в начале строки заголовка.
func trimLeadingMarks(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return isBidiMark(r) || r == '\ufeff'
	})
}
