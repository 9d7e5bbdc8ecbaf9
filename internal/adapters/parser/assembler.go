package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"chatter-io/internal/domain"
)

var (
	// messageLineRegexp - "[DD.MM.YYYY, HH:MM:SS] SENDER: CONTENT".
	messageLineRegexp = regexp.MustCompile(`^\[(\d{2}\.\d{2}\.\d{4}), (\d{2}:\d{2}:\d{2})\] (.+?): (.*)$`)
	// systemLineRegexp - "[DD.MM.YYYY, HH:MM:SS] CONTENT" без отправителя.
	systemLineRegexp = regexp.MustCompile(`^\[(\d{2}\.\d{2}\.\d{4}), (\d{2}:\d{2}:\d{2})\] (.+)$`)
)

// LineKind - вид строки экспорта.
type LineKind int

const (
	LineContinuation LineKind = iota
	LineMessage
	LineSystem
)

// Line - результат распознавания одной строки.
type Line struct {
	Kind    LineKind
	Date    string
	Clock   string
	Sender  string
	Content string
	// Raw - исходная (обрезанная) строка, используется для продолжений.
	Raw string
}

// ClassifyLine распознает строку. Шаблон сообщения проверяется раньше
// служебного, так как он строже (требует "SENDER:").
// Управляющие символы в начале строки перед проверкой отбрасываются.
func ClassifyLine(raw string) Line {
	header := trimLeadingMarks(raw)

	if m := messageLineRegexp.FindStringSubmatch(header); m != nil {
		return Line{Kind: LineMessage, Date: m[1], Clock: m[2], Sender: m[3], Content: m[4], Raw: raw}
	}
	if m := systemLineRegexp.FindStringSubmatch(header); m != nil {
		return Line{Kind: LineSystem, Date: m[1], Clock: m[2], Content: m[3], Raw: raw}
	}
	return Line{Kind: LineContinuation, Raw: raw}
}

// messageBuilder - сообщение в процессе сборки. Продолжения копятся в extra
// и объединяются с первой строкой при выдаче.
type messageBuilder struct {
	msg   domain.Message
	extra []string
}

func (b *messageBuilder) build() domain.Message {
	msg := b.msg
	if len(b.extra) > 0 {
		msg.Content = msg.Content + "\n" + strings.Join(b.extra, "\n")
	}
	return msg
}

// State - состояние сборщика: либо ничего не собирается, либо собирается
// ровно одно сообщение. Значения State не изменяются переходами.
type State struct {
	building *messageBuilder
	flushed  int
}

// Building - true, если есть сообщение в процессе сборки.
func (s State) Building() bool {
	return s.building != nil
}

// Flushed - сколько сообщений уже выдано.
func (s State) Flushed() int {
	return s.flushed
}

// Assembler собирает записи сообщений из строк одного экспорта.
type Assembler struct {
	location   *time.Location
	associator *MediaAssociator
	files      []domain.MediaFile
}

// NewAssembler создает сборщик для одного каталога медиафайлов.
func NewAssembler(loc *time.Location, associator *MediaAssociator, files []domain.MediaFile) *Assembler {
	if loc == nil {
		loc = time.Local
	}
	if associator == nil {
		associator = NewMediaAssociator()
	}
	return &Assembler{location: loc, associator: associator, files: files}
}

// Step выполняет один переход: возвращает новое состояние и, возможно,
// завершенное сообщение. Переданное состояние не изменяется.
func (a *Assembler) Step(s State, raw string) (State, *domain.Message) {
	return a.step(s, raw, false)
}

// step - переход; при inPlace продолжение дописывается в текущий builder
// без копирования. Так делает только Assemble, которому состояние принадлежит.
func (a *Assembler) step(s State, raw string, inPlace bool) (State, *domain.Message) {
	line := ClassifyLine(raw)

	switch line.Kind {
	case LineMessage, LineSystem:
		next, flushed := flush(s)
		next.building = a.start(line, next.flushed)
		return next, flushed
	default:
		if s.building == nil {
			// Строка до первого заголовка: прикрепить не к чему.
			return s, nil
		}
		if inPlace {
			s.building.extra = append(s.building.extra, line.Raw)
			return s, nil
		}
		b := *s.building
		b.extra = make([]string, len(s.building.extra), len(s.building.extra)+1)
		copy(b.extra, s.building.extra)
		b.extra = append(b.extra, line.Raw)
		return State{building: &b, flushed: s.flushed}, nil
	}
}

// Finish выдает последнее собираемое сообщение в конце входных данных.
func (a *Assembler) Finish(s State) (State, *domain.Message) {
	return flush(s)
}

func flush(s State) (State, *domain.Message) {
	if s.building == nil {
		return s, nil
	}
	msg := s.building.build()
	return State{flushed: s.flushed + 1}, &msg
}

func (a *Assembler) start(line Line, seq int) *messageBuilder {
	ts := ParseTimestamp(line.Date, line.Clock, a.location)
	msg := domain.Message{
		ID:        fmt.Sprintf("%d-%d", ts.UnixMilli(), seq),
		Timestamp: ts,
		Content:   strings.TrimSpace(line.Content),
	}

	if line.Kind == LineSystem {
		msg.Sender = domain.SystemSender
		msg.Kind = domain.KindSystem
		return &messageBuilder{msg: msg}
	}

	c := Classify(line.Content)
	msg.Sender = NormalizeSender(line.Sender)
	msg.Kind = c.Kind
	msg.Omitted = c.Omitted
	msg.CallDuration = c.CallDuration
	msg.MediaFile = a.associator.Associate(line.Content, a.files)
	return &messageBuilder{msg: msg}
}

// Assemble проходит по всем строкам текста и возвращает сообщения,
// отсортированные по времени (устойчиво для равных меток).
func (a *Assembler) Assemble(rawText string) []domain.Message {
	messages := []domain.Message{}
	state := State{}

	for _, raw := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		var done *domain.Message
		state, done = a.step(state, line, true)
		if done != nil {
			messages = append(messages, *done)
		}
	}
	if _, last := a.Finish(state); last != nil {
		messages = append(messages, *last)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages
}
