package web

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/internal/backend"
	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

const fallbackErrorText = "Something went wrong. Please try again."

// pageData — общие поля всех страниц плюс страничные значения.
func (h *Handler) pageData(c *gin.Context, title string, extra gin.H) gin.H {
	data := gin.H{
		"Title": title,
		"Error": c.Query("err"),
		"Flash": c.Query("ok"),
	}
	if user, ok := h.sessions.Current(); ok {
		data["User"] = user
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// withError — адрес редиректа с текстом ошибки в query (POST-redirect-GET).
func withError(path, msg string) string {
	return path + "?err=" + url.QueryEscape(msg)
}

// withFlash — адрес редиректа с сообщением об успехе.
func withFlash(path, msg string) string {
	sep := "?"
	if u, err := url.Parse(path); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return path + sep + "ok=" + url.QueryEscape(msg)
}

// errorText — текст ошибки бэкенда для баннера; без полезного текста — fallback.
func errorText(err error) string {
	if msg, ok := backend.ErrorMessage(err); ok {
		return msg
	}
	return fallbackErrorText
}

// statusOptions — статусы, доступные администратору в селекторе.
func statusOptions(current domain.OrderStatus) []domain.OrderStatus {
	options := make([]domain.OrderStatus, 0, len(domain.EditableStatuses))
	for _, s := range domain.EditableStatuses {
		if s != current {
			options = append(options, s)
		}
	}
	return options
}
