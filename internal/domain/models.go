package domain

import "time"

// MessageKind - тип сообщения. Назначается один раз при создании записи.
type MessageKind string

const (
	KindText     MessageKind = "text"
	KindAudio    MessageKind = "audio"
	KindVideo    MessageKind = "video"
	KindImage    MessageKind = "image"
	KindSticker  MessageKind = "sticker"
	KindDocument MessageKind = "document"
	KindCall     MessageKind = "call"
	KindSystem   MessageKind = "system"
)

// SystemSender - отправитель служебных уведомлений.
const SystemSender = "System"

// UnknownContact подставляется вместо отправителя, заданного только номером телефона.
const UnknownContact = "Unknown Contact"

// AllKinds перечисляет все типы сообщений в порядке отображения.
var AllKinds = []MessageKind{
	KindText, KindAudio, KindVideo, KindImage, KindSticker, KindDocument, KindCall, KindSystem,
}

// MediaFile описывает один файл, найденный рядом с экспортом чата.
type MediaFile struct {
	Name string `json:"name"`
	// Path - путь к файлу или URL.
	Path string `json:"path"`
	Size int64  `json:"size"`
	// Type - тип по расширению файла (например, "jpg", "opus").
	Type string `json:"type"`
}

// MediaCollection - каталог медиафайлов, разложенный по четырем группам.
type MediaCollection struct {
	Images    []MediaFile `json:"images"`
	Videos    []MediaFile `json:"videos"`
	Audio     []MediaFile `json:"audio"`
	Documents []MediaFile `json:"documents"`
}

// Message представляет одно логическое сообщение чата.
type Message struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	Sender       string      `json:"sender"`
	Content      string      `json:"content"`
	Kind         MessageKind `json:"type"`
	Omitted      bool        `json:"isOmitted,omitempty"`
	CallDuration string      `json:"callDuration,omitempty"`
	MediaFile    *MediaFile  `json:"mediaFile,omitempty"`
}

// DateRange - первая и последняя метки времени чата.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Chat представляет одну разобранную переписку.
type Chat struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Participants []string        `json:"participants"`
	Messages     []Message       `json:"messages"`
	MessageCount int             `json:"messageCount"`
	DateRange    DateRange       `json:"dateRange"`
	HasMedia     bool            `json:"hasMedia"`
	MediaFiles   MediaCollection `json:"mediaFiles"`
}

// ChatCollection - набор чатов с общими счетчиками.
type ChatCollection struct {
	Chats         []Chat `json:"chats"`
	TotalChats    int    `json:"totalChats"`
	TotalMessages int    `json:"totalMessages"`
}

// NewChatCollection собирает коллекцию и подсчитывает итоги.
func NewChatCollection(chats []Chat) ChatCollection {
	total := 0
	for _, c := range chats {
		total += c.MessageCount
	}
	return ChatCollection{
		Chats:         chats,
		TotalChats:    len(chats),
		TotalMessages: total,
	}
}

// RawChat - "сырые" данные одного чата, полученные загрузчиком до разбора.
type RawChat struct {
	Name       string       `json:"name"`
	Content    string       `json:"content"`
	MediaFiles MediaCatalog `json:"mediaFiles"`
	// Source - имя файла или каталога, из которого был загружен чат.
	Source string `json:"source"`
}

// Statistics содержит сводку по набору чатов.
type Statistics struct {
	TotalMessages     int                 `json:"totalMessages"`
	TotalParticipants int                 `json:"totalParticipants"`
	DateRange         *DateRange          `json:"dateRange"`
	MessageTypes      map[MessageKind]int `json:"messageTypes"`
}

// Upload описывает загруженный пользователем файл экспорта.
type Upload struct {
	FilePath string
	FileName string
	// ChatName задается явно; если пусто, имя выводится из FileName.
	ChatName string
}
