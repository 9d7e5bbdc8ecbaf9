package source

import (
	"archive/zip"
	"bytes"
	"context"
	"path"
	"sort"
	"strings"

	"chatter-io/internal/domain"
	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// zipLocatorPrefix - префикс пути медиафайла, находящегося внутри архива.
const zipLocatorPrefix = "zip:"

// ZipSource читает архив, созданный функцией "Экспорт чата" WhatsApp.
type ZipSource struct {
	name string
	data ports.DataSource
}

// NewZipSource создает загрузчик архива; name - имя архива, из которого
// выводится имя чата.
func NewZipSource(name string, data ports.DataSource) *ZipSource {
	return &ZipSource{name: name, data: data}
}

// Load реализует ports.ChatSource.
func (s *ZipSource) Load(ctx context.Context) ([]domain.RawChat, error) {
	data, err := s.data.Fetch()
	if err != nil {
		return nil, xerrors.Errorf("load %s: %w", s.name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := ParseZip(s.name, data)
	if err != nil {
		return nil, err
	}
	return []domain.RawChat{raw}, nil
}

// ParseZip извлекает переписку и каталог медиа из содержимого архива.
// Файл переписки - _chat.txt, либо единственный .txt в архиве; после
// распаковки он не может быть длиннее MaxChatLogBytes.
func ParseZip(name string, data []byte) (domain.RawChat, error) {
	return ParseZipLimit(name, data, MaxChatLogBytes)
}

// ParseZipLimit - ParseZip с явным ограничением распакованной переписки.
func ParseZipLimit(name string, data []byte, maxLogBytes int64) (domain.RawChat, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.RawChat{}, xerrors.Errorf("open zip %s: %w", name, err)
	}

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	logFile := findChatLog(files)
	if logFile == nil {
		return domain.RawChat{}, xerrors.Errorf("%s: %w", name, ErrNoChatFile)
	}
	content, err := readZipFile(logFile, maxLogBytes)
	if err != nil {
		return domain.RawChat{}, err
	}

	var b catalogBuilder
	for _, f := range files {
		if f == logFile {
			continue
		}
		base := path.Base(f.Name)
		b.add(domain.MediaFile{
			Name: base,
			Path: zipLocatorPrefix + f.Name,
			Size: int64(f.UncompressedSize64),
			Type: fileType(base),
		})
	}

	return domain.RawChat{
		Name:       ChatNameFromFileName(name),
		Content:    content,
		MediaFiles: b.catalog(),
		Source:     name,
	}, nil
}

func findChatLog(files []*zip.File) *zip.File {
	var txt []*zip.File
	for _, f := range files {
		if path.Base(f.Name) == chatLogName {
			return f
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			txt = append(txt, f)
		}
	}
	if len(txt) == 1 {
		return txt[0]
	}
	return nil
}

func readZipFile(f *zip.File, limit int64) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", xerrors.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := readLimited(rc, limit)
	if err != nil {
		return "", xerrors.Errorf("read %s: %w", f.Name, err)
	}
	return string(content), nil
}
