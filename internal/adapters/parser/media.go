package parser

import (
	"regexp"
	"strings"

	"chatter-io/internal/domain"
)

// MediaMatcher извлекает из текста сообщения имя файла-вложения.
type MediaMatcher interface {
	MatchName(content string) (string, bool)
}

// RegexpMatcher извлекает имя файла из первой группы регулярного выражения.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// NewRegexpMatcher создает сопоставитель; выражение должно содержать одну группу.
func NewRegexpMatcher(re *regexp.Regexp) *RegexpMatcher {
	return &RegexpMatcher{re: re}
}

// MatchName реализует MediaMatcher.
func (m *RegexpMatcher) MatchName(content string) (string, bool) {
	match := m.re.FindStringSubmatch(content)
	if len(match) < 2 {
		return "", false
	}
	name := strings.TrimSpace(match[1])
	return name, name != ""
}

var (
	// attachedMarkerRegexp - явная ссылка "<attached: FILENAME>".
	attachedMarkerRegexp = regexp.MustCompile(`(?i)<attached:\s*([^>]+)>`)
	// exportFileNameRegexp - автоматическое имя файла экспорта:
	// "-0000001-AUDIO-2025-07-12-16-03-51.opus".
	exportFileNameRegexp = regexp.MustCompile(`(-\d{7}-[A-Z]+-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.[a-z]+)`)
)

// DefaultMediaMatchers возвращает сопоставители в порядке приоритета.
func DefaultMediaMatchers() []MediaMatcher {
	return []MediaMatcher{
		NewRegexpMatcher(attachedMarkerRegexp),
		NewRegexpMatcher(exportFileNameRegexp),
	}
}

// MediaAssociator связывает сообщение не более чем с одним файлом каталога.
type MediaAssociator struct {
	matchers []MediaMatcher
}

// NewMediaAssociator создает связыватель; без аргументов используются DefaultMediaMatchers.
func NewMediaAssociator(matchers ...MediaMatcher) *MediaAssociator {
	if len(matchers) == 0 {
		matchers = DefaultMediaMatchers()
	}
	return &MediaAssociator{matchers: matchers}
}

// Associate возвращает копию файла каталога, имя которого точно совпало с
// именем, извлеченным первым сработавшим сопоставителем. Если этого имени нет
// в каталоге, следующие сопоставители не пробуются. nil - вложения нет.
func (a *MediaAssociator) Associate(content string, files []domain.MediaFile) *domain.MediaFile {
	if len(files) == 0 {
		return nil
	}
	for _, m := range a.matchers {
		name, ok := m.MatchName(content)
		if !ok {
			continue
		}
		for i := range files {
			if files[i].Name == name {
				file := files[i]
				return &file
			}
		}
		return nil
	}
	return nil
}
