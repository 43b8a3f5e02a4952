package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/internal/session"
)

// requireSession — доступ только при аутентифицированной сессии.
// Во время гидратации отдаём страницу загрузки с 503 (клиенту есть смысл
// повторить запрос), анонима отправляем на форму входа.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch h.sessions.State() {
		case session.StateAuthenticated:
			c.Next()
		case session.StateHydrating:
			c.Header("Retry-After", "1")
			c.HTML(http.StatusServiceUnavailable, "pages/loading.html", gin.H{
				"Title": "Loading",
			})
			c.Abort()
		default:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
	}
}

// requireAdmin — смена статуса доступна только административной роли.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := h.sessions.Current()
		if !ok || !user.IsAdmin() {
			h.log.Warnf(c.Request.Context(), "forbidden status change path=%s", c.Request.URL.Path)
			c.Redirect(http.StatusFound, withError("/orders/"+c.Param("id"), "only administrators can change order status"))
			c.Abort()
			return
		}
		c.Next()
	}
}
