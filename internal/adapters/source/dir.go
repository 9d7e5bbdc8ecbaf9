package source

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chatter-io/internal/domain"

	"golang.org/x/xerrors"
)

// ErrNoChatFile возвращается, если в каталоге экспорта нет файла переписки.
var ErrNoChatFile = errors.New("chat file not found")

// DirSource находит экспорты в каталоге данных:
// отдельные *.txt файлы и каталоги "WhatsApp Chat - <Имя>" с _chat.txt и медиафайлами.
type DirSource struct {
	root   string
	logger *slog.Logger
}

// NewDirSource создает новый экземпляр DirSource.
func NewDirSource(root string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{root: root, logger: logger}
}

// Load реализует ports.ChatSource. Элементы обрабатываются в алфавитном порядке;
// повторяющиеся имена чатов получают суффикс " (n)".
func (s *DirSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, xerrors.Errorf("read data dir %s: %w", s.root, err)
	}

	chats := []domain.RawChat{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		itemPath := filepath.Join(s.root, entry.Name())
		switch {
		case entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".txt"):
			raw, err := loadTextFile(itemPath)
			if err != nil {
				return nil, err
			}
			chats = append(chats, raw)
			s.logger.Debug("Загружен файл чата", "file", entry.Name())

		case entry.IsDir() && strings.HasPrefix(entry.Name(), exportDirPrefix):
			raw, err := LoadExportDir(itemPath)
			if errors.Is(err, ErrNoChatFile) {
				s.logger.Warn("Каталог экспорта без _chat.txt пропущен", "dir", entry.Name())
				continue
			}
			if err != nil {
				return nil, err
			}
			chats = append(chats, raw)
			s.logger.Debug("Загружен каталог чата", "chat", raw.Name, "media", raw.MediaFiles.Normalize().Count())
		}
	}

	Disambiguate(chats)
	return chats, nil
}

func loadTextFile(path string) (domain.RawChat, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawChat{}, xerrors.Errorf("read chat file %s: %w", path, err)
	}
	name := filepath.Base(path)
	return domain.RawChat{
		Name:    ChatNameFromFileName(name),
		Content: string(content),
		Source:  name,
	}, nil
}

// LoadExportDir читает один каталог экспорта: _chat.txt и медиафайлы рядом с ним.
func LoadExportDir(dir string) (domain.RawChat, error) {
	content, err := os.ReadFile(filepath.Join(dir, chatLogName))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.RawChat{}, xerrors.Errorf("%s: %w", dir, ErrNoChatFile)
	}
	if err != nil {
		return domain.RawChat{}, xerrors.Errorf("read %s: %w", chatLogName, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.RawChat{}, xerrors.Errorf("read export dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var b catalogBuilder
	for _, entry := range entries {
		if !entry.Type().IsRegular() || entry.Name() == chatLogName {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return domain.RawChat{}, xerrors.Errorf("stat %s: %w", entry.Name(), err)
		}
		b.add(domain.MediaFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
			Type: fileType(entry.Name()),
		})
	}

	base := filepath.Base(dir)
	return domain.RawChat{
		Name:       ChatNameFromFileName(base),
		Content:    string(content),
		MediaFiles: b.catalog(),
		Source:     base,
	}, nil
}
