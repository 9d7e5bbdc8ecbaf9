package parser

import (
	"regexp"
	"strings"

	"chatter-io/internal/domain"
)

// phoneOnlyRegexp - отправитель, заданный только номером: "+7 705 444 1059".
var phoneOnlyRegexp = regexp.MustCompile(`^\+\d+\s+\d+\s+\d+\s+\d+$`)

// NormalizeSender удаляет управляющие символы направления и заменяет
// отправителя-номер телефона на domain.UnknownContact.
func NormalizeSender(raw string) string {
	sender := strings.TrimSpace(stripBidiMarks(raw))
	if sender == "" || phoneOnlyRegexp.MatchString(sender) {
		return domain.UnknownContact
	}
	return sender
}
