package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error — структурированная ошибка API: дискриминированный вариант
// вместо слепого прощупывания полей. Транспортные ошибки сюда не попадают —
// они возвращаются как есть (обёрнутые %w).
type Error struct {
	StatusCode int
	Kind       string   // человекочитаемый класс ошибки бэкенда ("Not Found", "Bad Request", ...)
	Messages   []string // нормализованный message (строка или список)
	Path       string
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("backend: %d %s: %s", e.StatusCode, e.Kind, strings.Join(e.Messages, ", "))
	}
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Kind)
}

// IsNotFound — true для структурированной 404 от бэкенда.
// Используется вьюхой трекинга, чтобы отличить «заказ не найден» от сбоя.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorMessage — общий нормализатор текста ошибки для отображения.
// Порядок: structured message бэкенда (список склеивается через ", "),
// затем текст самой ошибки (транспортной). Если полезного текста нет —
// ("", false): вызывающий обязан подставить собственный fallback.
func ErrorMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Messages) > 0 {
			return strings.Join(apiErr.Messages, ", "), true
		}
		return "", false
	}

	if msg := err.Error(); msg != "" {
		return msg, true
	}
	return "", false
}
