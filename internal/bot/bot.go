package bot

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"chatter-io/cmd/bot/config"
	"chatter-io/internal/adapters/exporter"
	"chatter-io/internal/apiclient"
	"chatter-io/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startCommand = "start"
	helpCommand  = "help"

	// maxMessageLength - ограничение Telegram на длину текстового сообщения.
	maxMessageLength = 4096
	// resultPageSize - размер страницы при выкачивании результата.
	resultPageSize = 500
)

// ServerAPI - операции бэкенд-сервера, которые использует бот.
type ServerAPI interface {
	StartTask(ctx context.Context, fileName, chatName string, content io.Reader) (*apiclient.StartTaskResponse, error)
	GetTaskStatus(ctx context.Context, taskID string) (*apiclient.TaskStatusResponse, error)
	FetchChat(ctx context.Context, taskID string, pageSize int) (*domain.Chat, error)
}

// Bot представляет собой основной объект Telegram-бота.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          config.BotConfig
	serverClient ServerAPI
	taskStore    *TaskStore
	logger       *slog.Logger
	httpClient   *http.Client

	// Подменяются в тестах
	sendMessageFunc      func(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	getFileDirectURLFunc func(fileID string) (string, error)
}

// NewBot создает и инициализирует новый экземпляр бота.
func NewBot(cfg config.BotConfig, serverClient ServerAPI, taskStore *TaskStore, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	logger.Info("Authorized on account", slog.String("username", api.Self.UserName))

	b := &Bot{
		api:          api,
		cfg:          cfg,
		serverClient: serverClient,
		taskStore:    taskStore,
		logger:       logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSeconds) * time.Second,
		},
	}
	b.sendMessageFunc = api.Send
	b.getFileDirectURLFunc = api.GetFileDirectURL
	return b, nil
}

// Start запускает основной цикл обработки обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, stopping bot...")
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}

	// Ответ на любые другие сообщения
	b.reply(msg.Chat.ID, "Пожалуйста, отправьте мне экспорт чата WhatsApp: файл .txt или архив .zip.")
}

// handleCommand обрабатывает команды.
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case startCommand, helpCommand:
		b.reply(msg.Chat.ID, "Добро пожаловать! Я бот для анализа переписок WhatsApp.\n\n"+
			"Откройте чат в WhatsApp, выберите «Экспорт чата» и пришлите мне полученный файл "+
			".txt или архив .zip. Я покажу участников, их активность и последние сообщения.\n\n"+
			"Пожалуйста, обратите внимание:\n"+
			"• Я принимаю только один файл за раз.\n"+
			"• Подпись к файлу, если она есть, станет названием чата.\n"+
			fmt.Sprintf("• Для чатов от %d сообщений я пришлю Excel-файл.", b.cfg.ExcelThreshold))
	default:
		b.reply(msg.Chat.ID, "Я не знаю такой команды.")
	}
}

// handleDocument обрабатывает входящий документ (файл).
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	doc := msg.Document
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("file", doc.FileName))

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".txt" && ext != ".zip" {
		b.reply(chatID, "Поддерживаются только файлы .txt и .zip из функции «Экспорт чата» WhatsApp.")
		return
	}
	if maxSize := b.cfg.MaxFileSizeMB << 20; doc.FileSize > maxSize {
		b.reply(chatID, fmt.Sprintf("Файл слишком большой. Максимальный размер — %d МБ.", b.cfg.MaxFileSizeMB))
		return
	}

	// 1. Занимаем чат: одна загрузка за раз.
	if !b.taskStore.Reserve(chatID, doc.FileName) {
		logger.Warn("user tried to start a new task while another is active")
		b.reply(chatID, "Пожалуйста, подождите завершения предыдущей задачи, прежде чем начинать новую.")
		return
	}
	started := false
	defer func() {
		if !started {
			b.taskStore.Release(chatID)
		}
	}()

	// 2. Скачиваем файл.
	content, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		logger.Error("failed to download file", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось скачать файл. Попробуйте отправить его еще раз.")
		return
	}

	// 3. Запускаем задачу на бэкенде.
	chatName := strings.TrimSpace(msg.Caption)
	startResp, err := b.serverClient.StartTask(ctx, doc.FileName, chatName, bytes.NewReader(content))
	if err != nil {
		logger.Error("failed to start task on backend", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось начать обработку файла на сервере. Пожалуйста, попробуйте позже.")
		return
	}

	taskID := startResp.TaskID
	logger.Info("task started on backend", slog.String("task_id", taskID))

	// 4. Сохраняем task_id и запускаем опрос.
	b.taskStore.Attach(chatID, taskID)
	started = true
	go b.pollTaskStatus(context.Background(), chatID, taskID) // Новый контекст для фоновой задачи

	b.reply(chatID, "✅ Файл получен и поставлен в очередь на обработку. Ожидайте результата.")
}

// downloadFile скачивает файл Telegram по его идентификатору.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.getFileDirectURLFunc(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file direct url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.sendMessageFunc(msg); err != nil {
		b.logger.Error("failed to send message", slog.String("error", err.Error()))
	}
}

// pollTaskStatus асинхронно опрашивает статус задачи на бэкенд-сервере.
func (b *Bot) pollTaskStatus(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))
	defer b.taskStore.Release(chatID)

	ticker := time.NewTicker(time.Duration(b.cfg.PollingIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Warn("polling cancelled by context")
			return
		case <-ticker.C:
			logger.Debug("polling task status")
			status, err := b.serverClient.GetTaskStatus(ctx, taskID)
			if err != nil {
				logger.Error("failed to get task status", slog.String("error", err.Error()))
				continue
			}

			switch status.Status {
			case apiclient.StatusCompleted:
				logger.Info("task completed")
				b.processCompletedTask(ctx, chatID, taskID)
				return
			case apiclient.StatusFailed:
				logger.Warn("task failed", slog.String("reason", status.ErrorMessage))
				b.reply(chatID, fmt.Sprintf("Произошла ошибка при обработке файла: %s", status.ErrorMessage))
				return
			case apiclient.StatusPending, apiclient.StatusProcessing:
				logger.Debug("task is in progress", slog.String("status", status.Status))
			default:
				logger.Warn("unknown task status", slog.String("status", status.Status))
			}
		}
	}
}

// processCompletedTask обрабатывает успешно завершенную задачу.
func (b *Bot) processCompletedTask(ctx context.Context, chatID int64, taskID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("task_id", taskID))

	chat, err := b.serverClient.FetchChat(ctx, taskID, resultPageSize)
	if err != nil {
		logger.Error("failed to fetch chat", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось получить результаты для выполненной задачи. Пожалуйста, попробуйте позже.")
		return
	}
	logger.Info("successfully fetched chat", slog.String("chat", chat.Name), slog.Int("message_count", chat.MessageCount))

	if chat.MessageCount == 0 {
		b.reply(chatID, "Не удалось найти сообщения в предоставленном файле. Убедитесь, что это экспорт чата WhatsApp.")
		return
	}

	// Ветвление в зависимости от размера чата
	if chat.MessageCount >= b.cfg.ExcelThreshold {
		logger.Info("message count is over threshold, sending excel file")
		b.reply(chatID, fmt.Sprintf("В чате %d сообщений. Формирую Excel-файл...", chat.MessageCount))
		b.sendExcelResult(chatID, chat)
		return
	}
	b.sendTextResult(chatID, chat)
}

func (b *Bot) sendExcelResult(chatID int64, chat *domain.Chat) {
	var buf bytes.Buffer
	if err := exporter.NewExcelExporter(&buf).Export([]domain.Chat{*chat}); err != nil {
		b.logger.Error("failed to build excel file", slog.String("error", err.Error()))
		b.reply(chatID, "Не удалось сгенерировать Excel-файл.")
		return
	}

	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  resultFileName(chat, "xlsx"),
		Bytes: buf.Bytes(),
	})
	msg.Caption = fmt.Sprintf("Анализ завершен: %d сообщений, %d участников.", chat.MessageCount, len(chat.Participants))
	b.sendMessage(msg)
}

// sendTextResult отправляет сводку чата сообщением HTML, а если она слишком
// длинная - текстовым файлом.
func (b *Bot) sendTextResult(chatID int64, chat *domain.Chat) {
	report := b.renderReport(chat)

	text := "<pre><code>" + html.EscapeString(report) + "</code></pre>"
	if len(text) > maxMessageLength {
		b.logger.Warn("сгенерированный текст слишком длинный, отправка в виде файла", slog.Int("length", len(text)))
		msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  resultFileName(chat, "txt"),
			Bytes: []byte(report),
		})
		msg.Caption = "Анализ завершен. Сводка слишком большая для одного сообщения, поэтому она прикреплена в виде файла."
		b.sendMessage(msg)
		return
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	b.sendMessage(reply)
}

// renderReport формирует текстовую сводку: заголовок, таблицу участников
// и последние сообщения.
func (b *Bot) renderReport(chat *domain.Chat) string {
	widths := exporter.Widths{
		Sender:  b.cfg.Render.Sender,
		Kind:    b.cfg.Render.Kind,
		Content: b.cfg.Render.Content,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", chat.Name)
	fmt.Fprintf(&sb, "Сообщений: %d, участников: %d\n", chat.MessageCount, len(chat.Participants))
	fmt.Fprintf(&sb, "Период: %s .. %s\n",
		chat.DateRange.Start.Format(time.DateOnly), chat.DateRange.End.Format(time.DateOnly))
	if chat.HasMedia {
		fmt.Fprintf(&sb, "Медиафайлов: %d\n", chat.MediaFiles.Count())
	}
	sb.WriteString("\n")
	sb.WriteString(exporter.RenderTable(exporter.ParticipantColumns(widths.Sender), exporter.ParticipantRows(*chat)))

	if n := b.cfg.PreviewMessages; n > 0 && len(chat.Messages) > 0 {
		messages := chat.Messages
		if len(messages) > n {
			messages = messages[len(messages)-n:]
		}
		sb.WriteString("\nПоследние сообщения:\n")
		sb.WriteString(exporter.RenderTable(exporter.MessageColumns(widths), exporter.MessageRows(messages)))
	}
	return sb.String()
}

func resultFileName(chat *domain.Chat, ext string) string {
	id := chat.ID
	if id == "" {
		id = "chat"
	}
	return fmt.Sprintf("%s_%s.%s", id, time.Now().Format("2006-01-02_15-04-05"), ext)
}
