// Package apiclient - клиент HTTP API сервера разбора чатов.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatter-io/internal/domain"
)

// Статусы задач на сервере
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DefaultTimeout - общий таймаут одного запроса
const DefaultTimeout = 30 * time.Second

// ErrTaskFailed возвращается WaitForTask, если задача завершилась с ошибкой.
var ErrTaskFailed = errors.New("task failed")

// StatusError - неожиданный HTTP-статус ответа сервера.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

// ServerClient - клиент для взаимодействия с API бэкенд-сервера.
type ServerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewServerClient создает новый экземпляр ServerClient. timeout <= 0 означает DefaultTimeout.
func NewServerClient(baseURL string, timeout time.Duration) *ServerClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ServerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// API-ответы
type StartTaskResponse struct {
	TaskID string `json:"task_id"`
}

type TaskStatusResponse struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// PaginationDTO представляет собой объект пагинации из ответа сервера.
type PaginationDTO struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// ChatSummaryDTO - сведения о чате без сообщений.
type ChatSummaryDTO struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Participants []string         `json:"participants"`
	MessageCount int              `json:"messageCount"`
	DateRange    domain.DateRange `json:"dateRange"`
	HasMedia     bool             `json:"hasMedia"`
	MediaCount   int              `json:"mediaCount"`
}

type MessagesResponse struct {
	Chat       ChatSummaryDTO   `json:"chat"`
	Pagination PaginationDTO    `json:"pagination"`
	Data       []domain.Message `json:"data"`
}

type ChatsResponse struct {
	Chats      []ChatSummaryDTO  `json:"chats"`
	Statistics domain.Statistics `json:"statistics"`
}

type SearchResponse struct {
	Query string           `json:"query"`
	Total int              `json:"total"`
	Data  []domain.Message `json:"data"`
}

// StartTask отправляет экспорт (.txt или .zip) на сервер для начала обработки.
// chatName может быть пустым.
func (c *ServerClient) StartTask(ctx context.Context, fileName, chatName string, content io.Reader) (*StartTaskResponse, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file for %s: %w", fileName, err)
	}
	if _, err = io.Copy(fw, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content for %s: %w", fileName, err)
	}
	if chatName != "" {
		if err := w.WriteField("name", chatName); err != nil {
			return nil, fmt.Errorf("failed to write chat name: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/process", &b)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result StartTaskResponse
	if err := c.do(req, http.StatusAccepted, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartTaskByHash запускает задачу по хешу ранее загруженного файла.
func (c *ServerClient) StartTaskByHash(ctx context.Context, hash, chatName string) (*StartTaskResponse, error) {
	body, err := json.Marshal(map[string]string{"hash": hash, "name": chatName})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/process-by-hash", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result StartTaskResponse
	if err := c.do(req, http.StatusAccepted, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTaskStatus запрашивает статус задачи.
func (c *ServerClient) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatusResponse, error) {
	var result TaskStatusResponse
	if err := c.get(ctx, "/api/v1/tasks/"+url.PathEscape(taskID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTaskResult запрашивает страницу результата выполненной задачи.
func (c *ServerClient) GetTaskResult(ctx context.Context, taskID string, page, pageSize int) (*MessagesResponse, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("page_size", fmt.Sprint(pageSize))

	var result MessagesResponse
	if err := c.get(ctx, "/api/v1/tasks/"+url.PathEscape(taskID)+"/result", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchChat собирает все страницы результата задачи в один чат.
func (c *ServerClient) FetchChat(ctx context.Context, taskID string, pageSize int) (*domain.Chat, error) {
	var (
		chat     *domain.Chat
		messages []domain.Message
	)
	for page := 1; ; page++ {
		result, err := c.GetTaskResult(ctx, taskID, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to get task result page %d: %w", page, err)
		}
		if chat == nil {
			chat = result.Chat.toChat()
			messages = make([]domain.Message, 0, result.Pagination.TotalItems)
		}
		messages = append(messages, result.Data...)

		if page >= result.Pagination.TotalPages {
			break // Все страницы собраны
		}
	}
	chat.Messages = messages
	return chat, nil
}

// WaitForTask опрашивает статус задачи с интервалом interval, пока она не завершится.
// Для упавшей задачи возвращает ErrTaskFailed вместе с последним статусом.
func (c *ServerClient) WaitForTask(ctx context.Context, taskID string, interval time.Duration) (*TaskStatusResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			status, err := c.GetTaskStatus(ctx, taskID)
			if err != nil {
				return nil, err
			}
			switch status.Status {
			case StatusCompleted:
				return status, nil
			case StatusFailed:
				return status, fmt.Errorf("%w: %s", ErrTaskFailed, status.ErrorMessage)
			}
		}
	}
}

// ListChats возвращает чаты библиотеки сервера.
func (c *ServerClient) ListChats(ctx context.Context) (*ChatsResponse, error) {
	var result ChatsResponse
	if err := c.get(ctx, "/api/v1/chats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search ищет сообщения в библиотеке сервера.
func (c *ServerClient) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	var result SearchResponse
	if err := c.get(ctx, "/api/v1/search", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *ServerClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, http.StatusOK, out)
}

func (c *ServerClient) do(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s ChatSummaryDTO) toChat() *domain.Chat {
	return &domain.Chat{
		ID:           s.ID,
		Name:         s.Name,
		Participants: s.Participants,
		MessageCount: s.MessageCount,
		DateRange:    s.DateRange,
		HasMedia:     s.HasMedia,
	}
}
