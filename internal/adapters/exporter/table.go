package exporter

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Column описывает колонку моноширинной таблицы.
type Column struct {
	Title string
	Width int
}

// RenderTable рисует таблицу в виде "| a | b |" с переносом длинных значений
// по словам. Ширина считается в колонках терминала (кириллица, эмодзи, CJK).
func RenderTable(cols []Column, rows [][]string) string {
	var sb strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	writeRow(&sb, cols, header)

	sb.WriteString("|")
	for _, c := range cols {
		sb.WriteString(strings.Repeat("-", c.Width+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(&sb, cols, row)
	}
	return sb.String()
}

// writeRow печатает одну логическую строку, которая может занять несколько
// физических из-за переносов.
func writeRow(sb *strings.Builder, cols []Column, row []string) {
	wrapped := make([][]string, len(cols))
	maxLines := 1
	for i, c := range cols {
		value := ""
		if i < len(row) {
			value = strings.ReplaceAll(strings.ToValidUTF8(row[i], ""), "\n", " ")
		}
		wrapped[i] = wrapString(value, c.Width)
		if len(wrapped[i]) > maxLines {
			maxLines = len(wrapped[i])
		}
	}

	for line := 0; line < maxLines; line++ {
		sb.WriteString("|")
		for i, c := range cols {
			part := ""
			if line < len(wrapped[i]) {
				part = wrapped[i][line]
			}
			sb.WriteString(" ")
			sb.WriteString(part)
			sb.WriteString(generatePadding(part, c.Width))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
}

// generatePadding вычисляет отступ для строки с учетом поправки на CJK-символы.
func generatePadding(s string, colWidth int) string {
	paddingNeeded := colWidth - runewidth.StringWidth(s)

	// Прагматическая поправка: если в строке есть CJK-символы, добавляем один пробел,
	// чтобы компенсировать ошибку рендеринга в некоторых клиентах.
	hasCJK := false
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hangul, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
			hasCJK = true
			break
		}
	}

	if hasCJK && paddingNeeded >= 0 {
		paddingNeeded++
	}

	if paddingNeeded > 0 {
		return strings.Repeat(" ", paddingNeeded)
	}
	return ""
}

// wrapString переносит строку по ширине width, предпочитая границы слов.
// Слово длиннее ширины разрезается.
func wrapString(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var currentLine strings.Builder
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)

		if wordWidth > width {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
			lines = append(lines, splitByWidth(word, width)...)
			continue
		}

		lineLen := runewidth.StringWidth(currentLine.String())
		if lineLen > 0 && lineLen+1+wordWidth > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}

		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return lines
}

func splitByWidth(word string, width int) []string {
	var lines []string
	runes := []rune(word)
	for len(runes) > 0 {
		i := 0
		currentWidth := 0
		for i < len(runes) {
			rw := runewidth.RuneWidth(runes[i])
			if currentWidth+rw > width {
				break
			}
			currentWidth += rw
			i++
		}
		if i == 0 {
			// Символ шире колонки: выводим его отдельной строкой.
			i = 1
		}
		lines = append(lines, string(runes[:i]))
		runes = runes[i:]
	}
	return lines
}
