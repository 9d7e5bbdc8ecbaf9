package log

import (
	"context"
	"log/slog"
	"regexp"
)

// MaskerHandler - обертка для slog.Handler, которая маскирует в логах
// токены бота и номера телефонов из экспортов.
type MaskerHandler struct {
	handler slog.Handler
}

// NewMaskerHandler создает новый обработчик с маскировкой
func NewMaskerHandler(handler slog.Handler) *MaskerHandler {
	return &MaskerHandler{
		handler: handler,
	}
}

var (
	// токены в формате botID:token, где ID - числа, token - буквенно-цифровой
	telegramTokenRegex = regexp.MustCompile(`(\bbot\d+:[A-Za-z0-9_-]{35,})`)
	// номера телефонов в виде, в котором их пишет экспорт: "+7 705 444 1059", "+44 7700-900123"
	phoneNumberRegex = regexp.MustCompile(`\+\d{1,4}(?:[ \-]?\d{2,}){1,4}`)
)

// mask заменяет найденные токены и номера на маску
func mask(text string) string {
	text = telegramTokenRegex.ReplaceAllString(text, "bot***:***masked-token***")
	return phoneNumberRegex.ReplaceAllString(text, "+***")
}

// Enabled реализует интерфейс slog.Handler
func (h *MaskerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle реализует интерфейс slog.Handler
func (h *MaskerHandler) Handle(ctx context.Context, record slog.Record) error {
	// Новая запись вместо изменения исходной: slog может переиспользовать record.
	r := slog.NewRecord(record.Time, record.Level, mask(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(slog.Attr{
			Key:   a.Key,
			Value: maskAttributeValue(a.Value),
		})
		return true
	})

	return h.handler.Handle(ctx, r)
}

// WithAttrs реализует интерфейс slog.Handler
func (h *MaskerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		maskedAttrs[i] = slog.Attr{
			Key:   attr.Key,
			Value: maskAttributeValue(attr.Value),
		}
	}
	return &MaskerHandler{
		handler: h.handler.WithAttrs(maskedAttrs),
	}
}

// WithGroup реализует интерфейс slog.Handler
func (h *MaskerHandler) WithGroup(name string) slog.Handler {
	return &MaskerHandler{
		handler: h.handler.WithGroup(name),
	}
}

// maskAttributeValue рекурсивно маскирует значения атрибутов
func maskAttributeValue(value slog.Value) slog.Value {
	switch value.Kind() {
	case slog.KindString:
		return slog.StringValue(mask(value.String()))
	case slog.KindAny:
		// Ошибки часто содержат URL с токеном: маскируем их текст.
		if err, ok := value.Any().(error); ok {
			return slog.StringValue(mask(err.Error()))
		}
		return value
	case slog.KindGroup:
		group := value.Group()
		maskedGroup := make([]slog.Attr, len(group))
		for i, attr := range group {
			maskedGroup[i] = slog.Attr{
				Key:   attr.Key,
				Value: maskAttributeValue(attr.Value),
			}
		}
		return slog.GroupValue(maskedGroup...)
	default:
		return value
	}
}

// NewMaskedLogger создает новый экземпляр slog.Logger с маскировкой
func NewMaskedLogger(handler slog.Handler) *slog.Logger {
	return slog.New(NewMaskerHandler(handler))
}
