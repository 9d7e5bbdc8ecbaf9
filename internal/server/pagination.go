package server

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 500
)

// Pagination - метаданные страницы в ответах API
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// parsePagination читает page и page_size из запроса.
// page_size больше maxPageSize урезается до maxPageSize.
func parsePagination(q url.Values) (page, pageSize int, err error) {
	page, err = positiveInt(q, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err = positiveInt(q, "page_size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, nil
}

// positiveInt разбирает необязательный целый параметр >= 1.
func positiveInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("параметр %s должен быть положительным целым числом", key)
	}
	return v, nil
}

// paginate возвращает срез items для страницы page. Страница за пределами
// данных дает пустой срез.
func paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pageItems := items[start:end]
	if pageItems == nil {
		pageItems = []T{}
	}
	return pageItems, Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  (total + pageSize - 1) / pageSize, // Округление вверх
	}
}
