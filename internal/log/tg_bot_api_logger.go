package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// TGBotAPIAdapter адаптирует slog.Logger под интерфейс логгера
// библиотеки go-telegram-bot-api/v5 (tgbotapi.SetLogger).
type TGBotAPIAdapter struct {
	Logger *slog.Logger
}

// NewTGBotAPIAdapter помечает записи библиотеки атрибутом component=tgbotapi.
func NewTGBotAPIAdapter(logger *slog.Logger) *TGBotAPIAdapter {
	return &TGBotAPIAdapter{Logger: logger.With(slog.String("component", "tgbotapi"))}
}

// Println реализует метод интерфейса tgbotapi.BotLogger.
func (a *TGBotAPIAdapter) Println(v ...interface{}) {
	a.log(strings.TrimSpace(fmt.Sprintln(v...)))
}

// Printf реализует метод интерфейса tgbotapi.BotLogger.
func (a *TGBotAPIAdapter) Printf(format string, v ...interface{}) {
	a.log(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// log пишет сообщения библиотеки через маскирующий логгер: в URL запросов
// библиотеки встречается токен бота. Сообщения об ошибках повышаются до Warn.
func (a *TGBotAPIAdapter) log(msg string) {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
		a.Logger.Warn(msg)
		return
	}
	a.Logger.Debug(msg)
}
