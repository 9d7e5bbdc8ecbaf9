package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaCatalog - каталог медиа в одной из двух форм: устаревший плоский
// список имен файлов или каталог из четырех групп.
// Нулевое значение эквивалентно пустому каталогу из групп.
type MediaCatalog struct {
	legacy  bool
	names   []string
	buckets MediaCollection
}

// BucketedCatalog создает каталог в современной форме.
func BucketedCatalog(c MediaCollection) MediaCatalog {
	return MediaCatalog{buckets: c}
}

// FlatCatalog создает каталог в устаревшей форме (только имена файлов).
func FlatCatalog(names []string) MediaCatalog {
	return MediaCatalog{legacy: true, names: names}
}

// IsLegacy сообщает, получен ли каталог в устаревшей плоской форме.
func (c MediaCatalog) IsLegacy() bool {
	return c.legacy
}

// LegacyNames возвращает имена файлов устаревшего каталога.
func (c MediaCatalog) LegacyNames() []string {
	return c.names
}

// Normalize приводит каталог к форме из четырех групп.
// Плоский список не несет информации о категориях, поэтому все группы пусты.
func (c MediaCatalog) Normalize() MediaCollection {
	if c.legacy {
		return MediaCollection{
			Images:    []MediaFile{},
			Videos:    []MediaFile{},
			Audio:     []MediaFile{},
			Documents: []MediaFile{},
		}
	}
	return c.buckets.withEmptySlices()
}

// Files возвращает объединение всех групп в порядке images, videos, audio, documents.
func (c MediaCatalog) Files() []MediaFile {
	return c.Normalize().Flatten()
}

// HasMedia - true, если хотя бы одна группа не пуста. Для плоского списка
// достаточно хотя бы одного имени, хотя группы при нормализации пусты.
func (c MediaCatalog) HasMedia() bool {
	if c.legacy {
		return len(c.names) > 0
	}
	return !c.buckets.IsEmpty()
}

// Flatten объединяет группы, сохраняя порядок.
func (m MediaCollection) Flatten() []MediaFile {
	all := make([]MediaFile, 0, len(m.Images)+len(m.Videos)+len(m.Audio)+len(m.Documents))
	all = append(all, m.Images...)
	all = append(all, m.Videos...)
	all = append(all, m.Audio...)
	all = append(all, m.Documents...)
	return all
}

// IsEmpty - true, если все группы пусты.
func (m MediaCollection) IsEmpty() bool {
	return len(m.Images) == 0 && len(m.Videos) == 0 && len(m.Audio) == 0 && len(m.Documents) == 0
}

// Count возвращает общее количество файлов.
func (m MediaCollection) Count() int {
	return len(m.Images) + len(m.Videos) + len(m.Audio) + len(m.Documents)
}

func (m MediaCollection) withEmptySlices() MediaCollection {
	if m.Images == nil {
		m.Images = []MediaFile{}
	}
	if m.Videos == nil {
		m.Videos = []MediaFile{}
	}
	if m.Audio == nil {
		m.Audio = []MediaFile{}
	}
	if m.Documents == nil {
		m.Documents = []MediaFile{}
	}
	return m
}

// MarshalJSON сохраняет исходную форму каталога.
func (c MediaCatalog) MarshalJSON() ([]byte, error) {
	if c.legacy {
		names := c.names
		if names == nil {
			names = []string{}
		}
		return json.Marshal(names)
	}
	return json.Marshal(c.buckets.withEmptySlices())
}

// UnmarshalJSON принимает либо массив имен файлов, либо объект с группами.
func (c *MediaCatalog) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = MediaCatalog{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return fmt.Errorf("failed to unmarshal flat media list: %w", err)
		}
		*c = FlatCatalog(names)
	case '{':
		var buckets MediaCollection
		if err := json.Unmarshal(trimmed, &buckets); err != nil {
			return fmt.Errorf("failed to unmarshal media collection: %w", err)
		}
		*c = BucketedCatalog(buckets)
	default:
		return fmt.Errorf("unsupported media catalog shape: %q", trimmed[0])
	}
	return nil
}
