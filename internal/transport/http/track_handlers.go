package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/internal/backend"
	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

// track — публичный трекинг. Каждая отправка формы — свежий запрос к
// бэкенду: для «не найдено» показываем пустое состояние, а не баннер ошибки.
func (h *Handler) track(c *gin.Context) {
	number := strings.TrimSpace(c.Query("number"))

	if number == "" {
		c.HTML(http.StatusOK, "pages/track.html", h.pageData(c, "Track shipment", gin.H{"Number": ""}))
		return
	}

	if err := validate.TrackingNumber(number); err != nil {
		c.HTML(http.StatusBadRequest, "pages/track.html", h.pageData(c, "Track shipment", gin.H{
			"Number": number,
			"Error":  "Enter a valid tracking number",
		}))
		return
	}

	order, err := h.service.Track(c.Request.Context(), number)
	switch {
	case backend.IsNotFound(err):
		c.HTML(http.StatusOK, "pages/track.html", h.pageData(c, "Track shipment", gin.H{
			"Number":   number,
			"NotFound": true,
		}))
	case err != nil:
		h.log.Errorf(c.Request.Context(), "track failed number=%s err=%v", number, err)
		c.HTML(http.StatusBadGateway, "pages/track.html", h.pageData(c, "Track shipment", gin.H{
			"Number": number,
			"Error":  errorText(err),
		}))
	default:
		c.HTML(http.StatusOK, "pages/track.html", h.pageData(c, "Track shipment", gin.H{
			"Number": number,
			"Order":  order,
		}))
	}
}
