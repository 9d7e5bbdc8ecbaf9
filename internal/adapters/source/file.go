package source

import (
	"os"

	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// FileSource читает экспорт или архив с диска целиком.
type FileSource struct {
	filePath string
}

func NewFileSource(filePath string) ports.DataSource {
	return &FileSource{filePath: filePath}
}

func (s *FileSource) Fetch() ([]byte, error) {
	if s.filePath == "" {
		return nil, xerrors.New("file path is empty")
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read file %s: %w", s.filePath, err)
	}

	return data, nil
}
