package exporter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("12") // bright blue
	colorDim     = lipgloss.Color("240")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleMeta = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Widths - ширина колонок таблицы сообщений.
type Widths struct {
	Sender  int
	Kind    int
	Content int
}

// DefaultWidths подходят для терминала шириной 100 колонок.
var DefaultWidths = Widths{Sender: 20, Kind: 8, Content: 48}

// minContentWidth - меньше этой ширины колонка текста не сжимается.
const minContentWidth = 20

// FitWidths подбирает ширину колонок таблицы сообщений под терминал
// шириной total колонок: отправитель и тип фиксированы, текст занимает остаток.
func FitWidths(total int) Widths {
	w := DefaultWidths
	// 4 колонки: "| " перед каждой, " |" после последней и " | " между ними
	frame := 4*3 + 1
	w.Content = total - frame - len(timeLayout) - w.Sender - w.Kind
	if w.Content < minContentWidth {
		w.Content = minContentWidth
	}
	return w
}

// ConsoleExporter реализует интерфейс Exporter для вывода чатов в терминал.
type ConsoleExporter struct {
	out          io.Writer
	widths       Widths
	messageLimit int
}

// ConsoleOption настраивает ConsoleExporter.
type ConsoleOption func(*ConsoleExporter)

// WithWriter задает поток вывода (по умолчанию os.Stdout).
func WithWriter(w io.Writer) ConsoleOption {
	return func(e *ConsoleExporter) { e.out = w }
}

// WithWidths задает ширину колонок таблицы сообщений.
func WithWidths(w Widths) ConsoleOption {
	return func(e *ConsoleExporter) { e.widths = w }
}

// WithMessages включает вывод последних limit сообщений каждого чата;
// limit < 0 - все сообщения.
func WithMessages(limit int) ConsoleOption {
	return func(e *ConsoleExporter) { e.messageLimit = limit }
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
func NewConsoleExporter(opts ...ConsoleOption) ports.Exporter {
	e := &ConsoleExporter{out: os.Stdout, widths: DefaultWidths}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export выводит сводку по каждому чату: участники, период, медиа
// и, при необходимости, сообщения.
func (e *ConsoleExporter) Export(chats []domain.Chat) error {
	if len(chats) == 0 {
		_, err := fmt.Fprintln(e.out, "No chats found.")
		return err
	}

	var sb strings.Builder
	for i, chat := range chats {
		if i > 0 {
			sb.WriteString("\n")
		}
		e.writeChat(&sb, chat)
	}
	_, err := io.WriteString(e.out, sb.String())
	return err
}

func (e *ConsoleExporter) writeChat(sb *strings.Builder, chat domain.Chat) {
	sb.WriteString(styleTitle.Render(chat.Name))
	sb.WriteString("\n")

	media := chat.MediaFiles
	var mediaSize int64
	for _, f := range media.Flatten() {
		mediaSize += f.Size
	}
	meta := fmt.Sprintf("id: %s | messages: %d | participants: %d | %s .. %s | media: %d (%s)",
		chat.ID, chat.MessageCount, len(chat.Participants),
		formatTime(chat.DateRange.Start), formatTime(chat.DateRange.End),
		media.Count(), FormatFileSize(mediaSize))
	sb.WriteString(styleMeta.Render(meta))
	sb.WriteString("\n\n")

	sb.WriteString(RenderTable(ParticipantColumns(e.widths.Sender), ParticipantRows(chat)))

	if e.messageLimit == 0 || len(chat.Messages) == 0 {
		return
	}

	messages := chat.Messages
	if e.messageLimit > 0 && len(messages) > e.messageLimit {
		messages = messages[len(messages)-e.messageLimit:]
	}
	sb.WriteString("\n")
	sb.WriteString(RenderTable(MessageColumns(e.widths), MessageRows(messages)))
}

// ParticipantColumns - колонки таблицы активности участников.
func ParticipantColumns(nameWidth int) []Column {
	return []Column{
		{Title: "Participant", Width: nameWidth},
		{Title: "Messages", Width: 8},
		{Title: "Media", Width: 5},
		{Title: "Calls", Width: 5},
	}
}

// ParticipantRows - строки таблицы активности участников чата.
func ParticipantRows(chat domain.Chat) [][]string {
	stats := chat.ParticipantStats()
	rows := make([][]string, 0, len(stats))
	for _, p := range stats {
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Messages), strconv.Itoa(p.Media), strconv.Itoa(p.Calls)})
	}
	return rows
}

// MessageColumns - колонки таблицы сообщений.
func MessageColumns(w Widths) []Column {
	return []Column{
		{Title: "Time", Width: len(timeLayout)},
		{Title: "Sender", Width: w.Sender},
		{Title: "Type", Width: w.Kind},
		{Title: "Content", Width: w.Content},
	}
}

// MessageRows превращает сообщения в строки таблицы.
func MessageRows(messages []domain.Message) [][]string {
	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if m.CallDuration != "" {
			content = "call: " + m.CallDuration
		}
		if m.MediaFile != nil {
			content += " [" + m.MediaFile.Name + "]"
		}
		rows = append(rows, []string{formatTime(m.Timestamp), m.Sender, string(m.Kind), content})
	}
	return rows
}
