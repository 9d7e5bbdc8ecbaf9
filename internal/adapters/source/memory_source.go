package source

import (
	"io"

	"chatter-io/internal/ports"

	"golang.org/x/xerrors"
)

// ErrTooLarge возвращается, когда поток длиннее допустимого.
var ErrTooLarge = xerrors.New("input too large")

// MaxChatLogBytes ограничивает текст переписки, читаемый из потока или архива.
const MaxChatLogBytes = 512 << 20

// readLimited читает r целиком, но не больше limit байт (limit <= 0 - без ограничения).
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, xerrors.Errorf("more than %d bytes: %w", limit, ErrTooLarge)
	}
	return data, nil
}

// MemorySource отдает экспорт, уже прочитанный в память (stdin, тело запроса).
type MemorySource struct {
	data []byte
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte) ports.DataSource {
	return &MemorySource{data: data}
}

// ReadMemorySource читает r целиком, но не больше limit байт (limit <= 0 - без ограничения).
func ReadMemorySource(r io.Reader, limit int64) (ports.DataSource, error) {
	data, err := readLimited(r, limit)
	if err != nil {
		return nil, xerrors.Errorf("failed to read input: %w", err)
	}
	return &MemorySource{data: data}, nil
}

// Fetch возвращает копию данных.
func (s *MemorySource) Fetch() ([]byte, error) {
	if s.data == nil {
		return nil, xerrors.New("data not set")
	}

	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)
	return dataCopy, nil
}
