package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"chatter-io/internal/adapters/exporter"
	"chatter-io/internal/apiclient"
	"chatter-io/internal/domain"
	"chatter-io/internal/ports"
)

func main() {
	var (
		serverAddr string
		chatName   string
		format     string
		interval   time.Duration
		timeout    time.Duration
		pageSize   int
		messages   int
	)
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.StringVar(&chatName, "name", "", "Chat name (default: derived from file name)")
	flag.StringVar(&format, "format", "table", "Output format (table/json)")
	flag.DurationVar(&interval, "interval", 2*time.Second, "Task status polling interval")
	flag.DurationVar(&timeout, "timeout", apiclient.DefaultTimeout, "HTTP request timeout")
	flag.IntVar(&pageSize, "page-size", 500, "Messages per result page")
	flag.IntVar(&messages, "messages", 20, "Last messages to print in table format (-1 = all)")
	flag.Parse()

	filePaths := flag.Args()
	if len(filePaths) == 0 {
		log.Fatal("At least one file path is required. Usage: client [flags] <export.txt|export.zip> ...")
	}
	if len(filePaths) > 1 && chatName != "" {
		log.Fatal("-name can be used with a single file only")
	}
	if format != "table" && format != "json" {
		log.Fatalf("Неизвестный формат вывода: %s", format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.NewServerClient(serverAddr, timeout)

	chats := make([]domain.Chat, 0, len(filePaths))
	for _, path := range filePaths {
		chat, err := processFile(ctx, client, path, chatName, interval, pageSize)
		if err != nil {
			if errors.Is(err, apiclient.ErrTaskFailed) {
				fmt.Fprintf(os.Stderr, "Задача для %s не выполнена: %v\n", path, err)
				os.Exit(1)
			}
			log.Fatalf("Не удалось обработать %s: %v", path, err)
		}
		chats = append(chats, *chat)
	}

	var exp ports.Exporter
	if format == "json" {
		exp = exporter.NewJSONExporter(os.Stdout, true)
	} else {
		exp = exporter.NewConsoleExporter(exporter.WithMessages(messages))
	}
	if err := exp.Export(chats); err != nil {
		log.Fatalf("Не удалось вывести результат: %v", err)
	}
}

// processFile загружает экспорт на сервер, дожидается завершения задачи
// и скачивает разобранный чат целиком.
func processFile(ctx context.Context, client *apiclient.ServerClient, path, chatName string, interval time.Duration, pageSize int) (*domain.Chat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл: %w", err)
	}
	defer file.Close()

	started, err := client.StartTask(ctx, filepath.Base(path), chatName, file)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Задача создана с идентификатором: %s\n", started.TaskID)

	if _, err := client.WaitForTask(ctx, started.TaskID, interval); err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Задача %s выполнена успешно.\n", started.TaskID)

	return client.FetchChat(ctx, started.TaskID, pageSize)
}
