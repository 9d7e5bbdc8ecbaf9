package source

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"chatter-io/internal/domain"
)

const (
	// chatLogName - имя файла переписки внутри экспорта WhatsApp.
	chatLogName = "_chat.txt"
	// exportDirPrefix - префикс каталога и архива экспорта.
	exportDirPrefix = "WhatsApp Chat - "
)

// exportNameRegexp - "WhatsApp Chat - Thomas (1)" -> "Thomas".
var exportNameRegexp = regexp.MustCompile(`WhatsApp Chat - (.+?)(?:\s\(\d+\))?(?:\.zip)?(?:/|$)`)

// ChatNameFromFileName выводит имя чата из пути к экспорту:
//
//	WhatsApp Chat - Thomas (1)/_chat.txt -> Thomas
//	_Thomas.txt                          -> Thomas
//	Thomas_chat.txt                      -> Thomas
//	family.zip                           -> family
func ChatNameFromFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if m := exportNameRegexp.FindStringSubmatch(name); m != nil {
		return m[1]
	}

	base := path.Base(name)
	base = strings.TrimSuffix(base, ".txt")
	base = strings.TrimSuffix(base, ".zip")
	base = strings.TrimSuffix(base, "_chat")
	return strings.TrimPrefix(base, "_")
}

// Disambiguate делает имена чатов уникальными, добавляя " (2)", " (3)" и т.д.
// к повторам в порядке появления.
func Disambiguate(chats []domain.RawChat) {
	used := make(map[string]int)
	for i := range chats {
		base := chats[i].Name
		if used[base] == 0 {
			used[base] = 1
			continue
		}
		n := used[base]
		candidate := base
		for {
			n++
			candidate = fmt.Sprintf("%s (%d)", base, n)
			if used[candidate] == 0 {
				break
			}
		}
		used[base] = n
		used[candidate] = 1
		chats[i].Name = candidate
	}
}

type bucket int

const (
	bucketNone bucket = iota
	bucketImages
	bucketVideos
	bucketAudio
	bucketDocuments
)

// mediaBuckets - группа медиафайла по расширению.
var mediaBuckets = map[string]bucket{
	"jpg": bucketImages, "jpeg": bucketImages, "png": bucketImages, "webp": bucketImages, "gif": bucketImages, "heic": bucketImages,
	"mp4": bucketVideos, "mov": bucketVideos, "3gp": bucketVideos, "webm": bucketVideos,
	"opus": bucketAudio, "mp3": bucketAudio, "m4a": bucketAudio, "ogg": bucketAudio, "aac": bucketAudio, "wav": bucketAudio,
	"pdf": bucketDocuments, "vcf": bucketDocuments, "doc": bucketDocuments, "docx": bucketDocuments,
	"xls": bucketDocuments, "xlsx": bucketDocuments, "txt": bucketDocuments, "zip": bucketDocuments,
}

// fileType возвращает расширение файла в нижнем регистре без точки.
func fileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// catalogBuilder раскладывает файлы по группам каталога.
type catalogBuilder struct {
	media domain.MediaCollection
}

// add добавляет файл в группу по расширению; false - файл не является медиа.
func (b *catalogBuilder) add(f domain.MediaFile) bool {
	switch mediaBuckets[f.Type] {
	case bucketImages:
		b.media.Images = append(b.media.Images, f)
	case bucketVideos:
		b.media.Videos = append(b.media.Videos, f)
	case bucketAudio:
		b.media.Audio = append(b.media.Audio, f)
	case bucketDocuments:
		b.media.Documents = append(b.media.Documents, f)
	default:
		return false
	}
	return true
}

func (b *catalogBuilder) catalog() domain.MediaCatalog {
	return domain.BucketedCatalog(b.media)
}
