package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chatter-io/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// multipartMemory - сколько байт формы держать в памяти, остальное на диске
	multipartMemory = 32 << 20
	// defaultSearchLimit - число результатов поиска по умолчанию
	defaultSearchLimit = 100
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"library_chats": s.library.Len(),
		"cached_chats":  s.cacheStore.Len(),
		"tasks":         s.taskStore.Counts(),
	})
}

// handleProcess принимает экспорт (.txt или .zip) и запускает задачу разбора.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if limit := s.cfg.MaxUploadBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".txt" && ext != ".zip" {
		http.Error(w, "Поддерживаются только файлы .txt и .zip", http.StatusBadRequest)
		return
	}

	// Генерация уникального идентификатора задачи
	taskID := uuid.NewString()
	tempFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("chat_%s%s", taskID, ext))
	if err := saveUpload(tempFilePath, file); err != nil {
		s.logger.Error("Не удалось сохранить загруженный файл", slog.Any("error", err), slog.String("path", tempFilePath))
		http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
		return
	}

	upload := domain.Upload{
		FilePath: tempFilePath,
		FileName: header.Filename,
		ChatName: strings.TrimSpace(r.FormValue("name")),
	}
	s.logger.Info("Получен файл экспорта",
		slog.String("task_id", taskID),
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
	)

	s.taskStore.CreateTask(taskID, header.Filename, taskTTL)
	s.runTask(taskID, func(ctx context.Context) (*domain.Chat, error) {
		return s.processor.ProcessChat(ctx, upload)
	}, func() {
		os.Remove(tempFilePath)
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func saveUpload(path string, src io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// handleProcessByHash запускает задачу, результат которой берется из кеша.
func (s *Server) handleProcessByHash(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hash string `json:"hash"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Не удалось декодировать тело запроса", http.StatusBadRequest)
		return
	}
	if req.Hash == "" {
		http.Error(w, "Требуется хеш", http.StatusBadRequest)
		return
	}

	taskID := uuid.NewString()
	s.taskStore.CreateTask(taskID, "hash:"+req.Hash, taskTTL)
	s.runTask(taskID, func(ctx context.Context) (*domain.Chat, error) {
		return s.processor.ProcessByHash(ctx, req.Hash, req.Name)
	}, nil)

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := s.taskStore.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, TaskStatusResponse{
		TaskID:       task.ID,
		Status:       task.Status,
		ErrorMessage: task.ErrorMessage,
	})
}

// handleTaskResult отдает сводку чата и страницу его сообщений.
func (s *Server) handleTaskResult(w http.ResponseWriter, r *http.Request) {
	task, err := s.taskStore.GetTask(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	switch task.Status {
	case TaskStatusCompleted:
	case TaskStatusFailed:
		http.Error(w, "Задача завершилась с ошибкой: "+task.ErrorMessage, http.StatusConflict)
		return
	default:
		http.Error(w, "Задача не завершена", http.StatusConflict)
		return
	}

	page, pageSize, err := parsePagination(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, pagination := paginate(task.Result.Messages, page, pageSize)
	writeJSON(w, http.StatusOK, MessagesResponse{
		Chat:       summarize(*task.Result),
		Pagination: pagination,
		Data:       data,
	})
}

// handleChats отдает чаты библиотеки. Фильтры: participant, has_media, limit.
func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	chats := s.library.Chats()

	if participant := strings.TrimSpace(q.Get("participant")); participant != "" {
		chats = s.stats.ByParticipant(chats, participant)
	}
	if raw := q.Get("has_media"); raw != "" {
		hasMedia, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "параметр has_media должен быть true или false", http.StatusBadRequest)
			return
		}
		if hasMedia {
			chats = s.stats.WithMedia(chats)
		}
	}
	if q.Get("limit") != "" {
		limit, err := positiveInt(q, "limit", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		chats = s.stats.Recent(chats, limit)
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		summaries = append(summaries, summarize(c))
	}
	writeJSON(w, http.StatusOK, ChatsResponse{
		Chats:      summaries,
		Statistics: s.stats.Compute(chats),
	})
}

// handleChatMessages отдает страницу сообщений чата библиотеки
// с необязательной фильтрацией по kind и sender.
func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	chat, err := s.library.Get(chi.URLParam(r, "chatID"))
	if err != nil {
		http.Error(w, "Чат не найден", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	page, pageSize, err := parsePagination(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	kind := domain.MessageKind(q.Get("kind"))
	if kind != "" && !knownKind(kind) {
		http.Error(w, fmt.Sprintf("неизвестный тип сообщения %q", kind), http.StatusBadRequest)
		return
	}
	messages := filterMessages(chat.Messages, kind, q.Get("sender"))

	data, pagination := paginate(messages, page, pageSize)
	writeJSON(w, http.StatusOK, MessagesResponse{
		Chat:       summarize(chat),
		Pagination: pagination,
		Data:       data,
	})
}

// handleSearch ищет подстроку в сообщениях всех чатов библиотеки.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		http.Error(w, "Требуется параметр q", http.StatusBadRequest)
		return
	}
	limit, err := positiveInt(q, "limit", defaultSearchLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	found := s.stats.Search(s.library.Chats(), query)
	total := len(found)
	if len(found) > limit {
		found = found[:limit]
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Total: total, Data: found})
}

func knownKind(kind domain.MessageKind) bool {
	for _, k := range domain.AllKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// filterMessages оставляет сообщения заданного типа и отправителя (без учета регистра).
// Пустые значения фильтров не ограничивают выборку.
func filterMessages(messages []domain.Message, kind domain.MessageKind, sender string) []domain.Message {
	if kind == "" && sender == "" {
		return messages
	}
	out := []domain.Message{}
	for _, m := range messages {
		if kind != "" && m.Kind != kind {
			continue
		}
		if sender != "" && !strings.EqualFold(m.Sender, sender) {
			continue
		}
		out = append(out, m)
	}
	return out
}
