// Package cache хранит результаты разбора экспортов, чтобы повторная загрузка
// того же файла не разбиралась заново.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"chatter-io/internal/domain"
)

// CacheItem - разобранный чат и момент, после которого он недействителен.
type CacheItem struct {
	Key       string
	Data      *domain.Chat
	ExpiresAt time.Time
}

func (i *CacheItem) expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CacheStore хранит разобранные чаты по SHA-256 содержимого экспорта.
// При заданном maxEntries вытесняются давно не использованные элементы.
type CacheStore struct {
	mu         sync.Mutex
	maxEntries int
	items      map[string]*list.Element
	lru        *list.List // front - последний использованный
	now        func() time.Time
}

// NewCacheStore создает кэш не более чем на maxEntries элементов (0 - без ограничений).
func NewCacheStore(maxEntries int) *CacheStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &CacheStore{
		maxEntries: maxEntries,
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// Get возвращает непросроченный элемент по хешу. Просроченный элемент удаляется.
func (cs *CacheStore) Get(key string) (*CacheItem, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	el, ok := cs.items[key]
	if !ok {
		return nil, false
	}
	item := el.Value.(*CacheItem)
	if item.expired(cs.now()) {
		cs.remove(el)
		return nil, false
	}
	cs.lru.MoveToFront(el)
	return item, true
}

// Put сохраняет чат на ttl. Повторный Put по тому же ключу заменяет значение.
func (cs *CacheStore) Put(key string, data *domain.Chat, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	item := &CacheItem{Key: key, Data: data, ExpiresAt: cs.now().Add(ttl)}
	if el, ok := cs.items[key]; ok {
		el.Value = item
		cs.lru.MoveToFront(el)
		return
	}

	cs.items[key] = cs.lru.PushFront(item)
	for cs.maxEntries > 0 && cs.lru.Len() > cs.maxEntries {
		cs.remove(cs.lru.Back())
	}
}

// Len возвращает количество элементов, включая еще не удаленные просроченные.
func (cs *CacheStore) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.lru.Len()
}

// CleanupExpired удаляет просроченные элементы и возвращает их количество.
func (cs *CacheStore) CleanupExpired() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	removed := 0
	for el := cs.lru.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*CacheItem).expired(now) {
			cs.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

// StartCleanupTicker периодически удаляет просроченные элементы, пока жив ctx.
func (cs *CacheStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cs.CleanupExpired()
			}
		}
	}()
}

func (cs *CacheStore) remove(el *list.Element) {
	cs.lru.Remove(el)
	delete(cs.items, el.Value.(*CacheItem).Key)
}

// CalculateFileHash вычисляет SHA-256 содержимого файла.
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("не удалось открыть файл: %w", err)
	}
	defer file.Close()

	return CalculateReaderHash(file)
}

// CalculateReaderHash вычисляет SHA-256 потока, читая его до конца.
func CalculateReaderHash(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("не удалось прочитать данные: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
