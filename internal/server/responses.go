package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chatter-io/internal/domain"
)

// ChatSummary - сведения о чате без сообщений
type ChatSummary struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Participants []string         `json:"participants"`
	MessageCount int              `json:"messageCount"`
	DateRange    domain.DateRange `json:"dateRange"`
	HasMedia     bool             `json:"hasMedia"`
	MediaCount   int              `json:"mediaCount"`
}

func summarize(c domain.Chat) ChatSummary {
	return ChatSummary{
		ID:           c.ID,
		Name:         c.Name,
		Participants: c.Participants,
		MessageCount: c.MessageCount,
		DateRange:    c.DateRange,
		HasMedia:     c.HasMedia,
		MediaCount:   c.MediaFiles.Count(),
	}
}

// TaskStatusResponse - ответ на запрос статуса задачи
type TaskStatusResponse struct {
	TaskID       string     `json:"task_id"`
	Status       TaskStatus `json:"status"`
	ErrorMessage string     `json:"error_message"`
}

// MessagesResponse - страница сообщений одного чата
type MessagesResponse struct {
	Chat       ChatSummary      `json:"chat"`
	Pagination Pagination       `json:"pagination"`
	Data       []domain.Message `json:"data"`
}

// ChatsResponse - список чатов библиотеки и сводная статистика по нему
type ChatsResponse struct {
	Chats      []ChatSummary     `json:"chats"`
	Statistics domain.Statistics `json:"statistics"`
}

// SearchResponse - результат поиска по сообщениям
type SearchResponse struct {
	Query string           `json:"query"`
	Total int              `json:"total"`
	Data  []domain.Message `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Не удалось записать ответ", slog.Any("error", err))
	}
}
