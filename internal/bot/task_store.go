package bot

import (
	"sync"
	"time"
)

// Upload - файл пользователя, который сейчас обрабатывается.
// TaskID пуст, пока файл скачивается и задача еще не создана на сервере.
type Upload struct {
	FileName  string
	TaskID    string
	StartedAt time.Time
}

// TaskStore хранит не более одной активной загрузки на чат Telegram.
type TaskStore struct {
	mu      sync.Mutex
	uploads map[int64]Upload // map[chatID]Upload
}

// NewTaskStore создает новый экземпляр TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		uploads: make(map[int64]Upload),
	}
}

// Reserve занимает чат под новую загрузку. Возвращает false, если в чате
// уже есть активная загрузка; проверка и запись выполняются атомарно.
func (s *TaskStore) Reserve(chatID int64, fileName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.uploads[chatID]; busy {
		return false
	}
	s.uploads[chatID] = Upload{FileName: fileName, StartedAt: time.Now()}
	return true
}

// Attach связывает зарезервированную загрузку с задачей на сервере.
func (s *TaskStore) Attach(chatID int64, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.uploads[chatID]
	u.TaskID = taskID
	s.uploads[chatID] = u
}

// Get возвращает активную загрузку чата.
func (s *TaskStore) Get(chatID int64) (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[chatID]
	return u, ok
}

// Release освобождает чат.
func (s *TaskStore) Release(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, chatID)
}

// Len - число активных загрузок.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}
