package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chatter-io/internal/domain"
)

var (
	// ErrTaskNotFound возвращается для неизвестного или удаленного ID задачи.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskFinished возвращается при попытке изменить завершенную задачу.
	ErrTaskFinished = errors.New("task already finished")
)

// TaskStatus представляет статус задачи обработки
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Finished сообщает, что статус конечный.
func (s TaskStatus) Finished() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task - одна задача разбора загруженного экспорта.
// Жизненный цикл: pending -> processing -> completed | failed.
type Task struct {
	ID           string
	Source       string // имя загруженного файла или "hash:<sha256>"
	Status       TaskStatus
	Result       *domain.Chat
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
	ExpiresAt    time.Time
}

// Duration - время обработки завершенной задачи.
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.FinishedAt.IsZero() {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}

// TaskStore хранит задачи в памяти до истечения их TTL.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	now   func() time.Time
}

// NewTaskStore создает новый экземпляр TaskStore
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*Task),
		now:   time.Now,
	}
}

// CreateTask регистрирует задачу в статусе pending.
func (ts *TaskStore) CreateTask(taskID, source string, ttl time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	ts.tasks[taskID] = &Task{
		ID:        taskID,
		Source:    source,
		Status:    TaskStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// transition применяет fn к незавершенной задаче под блокировкой.
func (ts *TaskStore) transition(taskID string, fn func(t *Task, now time.Time)) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	task, ok := ts.tasks[taskID]
	if !ok {
		return fmt.Errorf("задача %s: %w", taskID, ErrTaskNotFound)
	}
	if task.Status.Finished() {
		return fmt.Errorf("задача %s (%s): %w", taskID, task.Status, ErrTaskFinished)
	}
	fn(task, ts.now())
	return nil
}

// Start переводит задачу в processing.
func (ts *TaskStore) Start(taskID string) error {
	return ts.transition(taskID, func(t *Task, now time.Time) {
		t.Status = TaskStatusProcessing
		t.StartedAt = now
	})
}

// Complete сохраняет результат и завершает задачу.
func (ts *TaskStore) Complete(taskID string, result *domain.Chat) error {
	return ts.transition(taskID, func(t *Task, now time.Time) {
		t.Status = TaskStatusCompleted
		t.Result = result
		t.FinishedAt = now
	})
}

// Fail завершает задачу с ошибкой.
func (ts *TaskStore) Fail(taskID, errorMessage string) error {
	return ts.transition(taskID, func(t *Task, now time.Time) {
		t.Status = TaskStatusFailed
		t.ErrorMessage = errorMessage
		t.FinishedAt = now
	})
}

// GetTask возвращает копию задачи по ее ID
func (ts *TaskStore) GetTask(taskID string) (*Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	task, ok := ts.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("задача %s: %w", taskID, ErrTaskNotFound)
	}

	snapshot := *task
	return &snapshot, nil
}

// Counts возвращает число задач в каждом статусе.
func (ts *TaskStore) Counts() map[TaskStatus]int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	counts := map[TaskStatus]int{
		TaskStatusPending:    0,
		TaskStatusProcessing: 0,
		TaskStatusCompleted:  0,
		TaskStatusFailed:     0,
	}
	for _, t := range ts.tasks {
		counts[t.Status]++
	}
	return counts
}

// CleanupExpired удаляет просроченные задачи и возвращает их количество.
func (ts *TaskStore) CleanupExpired() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	removed := 0
	for id, t := range ts.tasks {
		if now.After(t.ExpiresAt) {
			delete(ts.tasks, id)
			removed++
		}
	}
	return removed
}

// StartCleanupTicker периодически удаляет просроченные задачи, пока жив ctx.
func (ts *TaskStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ts.CleanupExpired()
			}
		}
	}()
}
