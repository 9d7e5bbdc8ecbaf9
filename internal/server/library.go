package server

import (
	"errors"
	"fmt"
	"sync"

	"chatter-io/internal/domain"
)

// ErrChatNotFound возвращается для неизвестного ID чата.
var ErrChatNotFound = errors.New("chat not found")

// defaultChatID подставляется, если из имени чата не получилось ни одного символа ID.
const defaultChatID = "chat"

// Library хранит разобранные чаты, доступные через API.
// Идентификаторы чатов внутри библиотеки уникальны.
type Library struct {
	mutex sync.RWMutex
	chats []domain.Chat
	index map[string]int
}

// NewLibrary создает библиотеку и добавляет в нее чаты в исходном порядке.
func NewLibrary(chats []domain.Chat) *Library {
	l := &Library{index: make(map[string]int)}
	for _, c := range chats {
		l.Add(c)
	}
	return l
}

// Add добавляет чат и возвращает присвоенный ему ID.
// Пустой ID заменяется на "chat", повторы получают суффикс "-2", "-3" и т.д.
func (l *Library) Add(chat domain.Chat) string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	base := chat.ID
	if base == "" {
		base = defaultChatID
	}
	id := base
	for n := 2; ; n++ {
		if _, taken := l.index[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}

	chat.ID = id
	l.index[id] = len(l.chats)
	l.chats = append(l.chats, chat)
	return id
}

// Get возвращает чат по ID.
func (l *Library) Get(id string) (domain.Chat, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return domain.Chat{}, fmt.Errorf("чат %s: %w", id, ErrChatNotFound)
	}
	return l.chats[i], nil
}

// Chats возвращает копию списка чатов.
func (l *Library) Chats() []domain.Chat {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]domain.Chat, len(l.chats))
	copy(out, l.chats)
	return out
}

// Len возвращает количество чатов.
func (l *Library) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.chats)
}
