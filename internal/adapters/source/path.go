package source

import (
	"os"
	"path/filepath"
	"strings"

	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// ForPath выбирает загрузчик по пути:
//   - каталог экспорта (содержит _chat.txt) - один чат с медиафайлами;
//   - другой каталог - DirSource;
//   - .zip - ZipSource;
//   - .json - BundleSource;
//   - иначе - текстовый файл экспорта.
func ForPath(path string) (ports.ChatSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, xerrors.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(path, chatLogName)); err == nil {
			return &exportDirSource{dir: path}, nil
		}
		return NewDirSource(path, nil), nil
	}

	base := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return NewZipSource(base, NewFileSource(path)), nil
	case ".json":
		return NewBundleSource(NewFileSource(path)), nil
	default:
		return NewTextSource(ChatNameFromFileName(base), base, NewFileSource(path)), nil
	}
}

// ForUpload выбирает загрузчик для загруженного файла по его имени.
// chatName, если задано, заменяет имя, выведенное из имени файла.
func ForUpload(fileName, chatName string, data ports.DataSource) (ports.ChatSource, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".zip":
		return &renamedSource{inner: NewZipSource(fileName, data), name: chatName}, nil
	case ".txt":
		name := chatName
		if name == "" {
			name = ChatNameFromFileName(fileName)
		}
		return NewTextSource(name, fileName, data), nil
	default:
		return nil, xerrors.Errorf("unsupported file %q: %w", fileName, ErrUnsupportedFormat)
	}
}
