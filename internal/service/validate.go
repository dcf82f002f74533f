package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperr.ErrValidation}, args...)...)
}

// notFound turns a repository miss into the HTTP-facing sentinel.
func notFound(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: %s not found", apperr.ErrNotFound, what)
	}
	return err
}

func requireText(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func optionalText(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return invalid("%s must not be empty", field)
	}
	return nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
