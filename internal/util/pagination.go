package util

import (
	"fmt"
	"strconv"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type PageResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPageResult[T any](items []T, total int64, p repo.Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Data: items,
		Pagination: Pagination{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: TotalPages(total, p.Limit),
		},
	}
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ParsePage reads page and limit query values. Empty values take defaults;
// anything non-numeric or out of range is a validation error.
func ParsePage(pageStr, limitStr string) (repo.Page, error) {
	page, err := parseIntDefault(pageStr, DefaultPage)
	if err != nil || page < 1 {
		return repo.Page{}, fmt.Errorf("%w: page must be an integer >= 1", apperr.ErrValidation)
	}
	limit, err := parseIntDefault(limitStr, DefaultLimit)
	if err != nil || limit < 1 || limit > MaxLimit {
		return repo.Page{}, fmt.Errorf("%w: limit must be an integer between 1 and %d", apperr.ErrValidation, MaxLimit)
	}
	return repo.Page{Page: page, Limit: limit}, nil
}

func parseIntDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// ParseOptionalBool returns nil for an empty value.
func ParseOptionalBool(name, s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", apperr.ErrValidation, name)
	}
	return &v, nil
}
