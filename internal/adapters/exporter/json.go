package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

// ProcessedChats - документ, который записывает JSONExporter.
type ProcessedChats struct {
	ProcessedAt time.Time `json:"processedAt"`
	domain.ChatCollection
}

// JSONExporter реализует интерфейс Exporter, записывая все чаты одним JSON-документом.
type JSONExporter struct {
	out    io.Writer
	now    func() time.Time
	indent bool
}

// NewJSONExporter создает новый экземпляр JSONExporter.
// indent включает форматированный вывод с отступом в два пробела.
func NewJSONExporter(out io.Writer, indent bool) ports.Exporter {
	return &JSONExporter{out: out, now: time.Now, indent: indent}
}

// Export реализует ports.Exporter.
func (e *JSONExporter) Export(chats []domain.Chat) error {
	if chats == nil {
		chats = []domain.Chat{}
	}
	doc := ProcessedChats{
		ProcessedAt:    e.now().UTC(),
		ChatCollection: domain.NewChatCollection(chats),
	}

	enc := json.NewEncoder(e.out)
	if e.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode chats: %w", err)
	}
	return nil
}
