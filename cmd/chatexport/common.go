package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"chatter-io/internal/adapters/parser"
	"chatter-io/internal/adapters/source"
	"chatter-io/internal/core/services"
	"chatter-io/internal/domain"
	"chatter-io/internal/log"
	"chatter-io/internal/pkg/term"
)

// globalOptions - флаги, общие для всех подкоманд.
type globalOptions struct {
	timezone  string
	logLevel  string
	logFormat string
	stdinName string
}

func (o *globalOptions) logger() *slog.Logger {
	return log.New(os.Stderr, o.logLevel, o.logFormat)
}

func (o *globalOptions) location() (*time.Location, error) {
	switch o.timezone {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(o.timezone)
		if err != nil {
			return nil, fmt.Errorf("--timezone: %w", err)
		}
		return loc, nil
	}
}

// loadRaw загружает "сырые" чаты по пути: каталог, экспорт, архив или bundle.
// "-" - текст экспорта из stdin.
func loadRaw(ctx context.Context, opts *globalOptions, path string) ([]domain.RawChat, error) {
	if path == "-" {
		data, err := source.ReadMemorySource(os.Stdin, source.MaxChatLogBytes)
		if err != nil {
			return nil, err
		}
		return source.NewTextSource(opts.stdinName, "stdin", data).Load(ctx)
	}

	src, err := source.ForPath(path)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}

// loadChats загружает и разбирает все чаты по пути.
func loadChats(ctx context.Context, opts *globalOptions, path string) ([]domain.Chat, error) {
	loc, err := opts.location()
	if err != nil {
		return nil, err
	}
	logger := opts.logger()

	started := time.Now()
	raws, err := loadRaw(ctx, opts, path)
	if err != nil {
		return nil, err
	}

	svc := services.NewChatService(parser.NewWhatsAppParser(parser.WithLocation(loc)), services.NewAggregationService())
	chats := services.ParseRawChats(svc, raws)
	logger.Info("chats parsed",
		slog.String("path", path),
		slog.Int("chats", len(chats)),
		slog.Duration("took", time.Since(started)),
	)
	return chats, nil
}

// openOutput открывает файл для записи. "-" означает stdout.
// Существующий файл перезаписывается только с force или после подтверждения в терминале.
func openOutput(path string, force bool) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	if _, err := os.Stat(path); err == nil && !force {
		t := term.NewTerminal()
		if !t.IsTerminal() {
			return nil, fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		ok, err := t.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("aborted: %s not overwritten", path)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// useTable решает, выводить таблицу или JSON: "auto" - таблица в терминал.
func useTable(format string) (bool, error) {
	switch format {
	case "table":
		return true, nil
	case "json":
		return false, nil
	case "auto", "":
		return term.NewTerminal().IsTerminal(), nil
	default:
		return false, fmt.Errorf("unknown --format %q (auto/table/json)", format)
	}
}
