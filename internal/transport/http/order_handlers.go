package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/pkg/httpx"
	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

// listQueryFromRequest — состояние списка живёт в URL: страница, размер
// и фильтры восстанавливаются из query при каждом запросе.
func listQueryFromRequest(c *gin.Context) domain.ListQuery {
	return domain.ListQuery{
		Page:          httpx.ParsePage(c),
		Limit:         httpx.ParseLimit(c, domain.AllowedLimits, domain.DefaultLimit),
		Status:        domain.OrderStatus(c.Query("status")),
		SenderName:    c.Query("senderName"),
		RecipientName: c.Query("recipientName"),
	}.Normalize()
}

// listURL — канонический адрес списка для данного запроса.
func listURL(q domain.ListQuery) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.SenderName != "" {
		params.Set("senderName", q.SenderName)
	}
	if q.RecipientName != "" {
		params.Set("recipientName", q.RecipientName)
	}
	return "/orders?" + params.Encode()
}

func (h *Handler) listOrders(c *gin.Context) {
	q := listQueryFromRequest(c)

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "list orders failed: %v", err)
		c.HTML(http.StatusBadGateway, "pages/orders.html", h.pageData(c, "Orders", gin.H{
			"Error": errorText(err),
			"Query": q,
		}))
		return
	}

	// Страница за пределами выдачи: бэкенд уже сообщил реальное число
	// страниц, перезапрашиваем последнюю существующую. Пустая выдача
	// (TotalPages == 0) прижимается к первой странице.
	lastPage := page.Meta.TotalPages
	if lastPage < 1 {
		lastPage = 1
	}
	if q.Page > lastPage {
		c.Redirect(http.StatusFound, listURL(q.WithPage(lastPage)))
		return
	}

	data := gin.H{
		"Orders":   page.Orders,
		"Meta":     page.Meta,
		"Query":    q,
		"Statuses": domain.KnownStatuses,
		"Limits":   domain.AllowedLimits,
	}
	if q.Page > 1 {
		data["PrevURL"] = listURL(q.WithPage(q.Page - 1))
	}
	if q.Page < page.Meta.TotalPages {
		data["NextURL"] = listURL(q.WithPage(q.Page + 1))
	}

	c.HTML(http.StatusOK, "pages/orders.html", h.pageData(c, "Orders", data))
}

func (h *Handler) newOrderPage(c *gin.Context) {
	c.HTML(http.StatusOK, "pages/order_new.html", h.pageData(c, "New order", gin.H{
		"Form": domain.CreateOrder{},
	}))
}

func (h *Handler) createOrder(c *gin.Context) {
	form := domain.CreateOrder{
		SenderName:    c.PostForm("senderName"),
		RecipientName: c.PostForm("recipientName"),
		Origin:        c.PostForm("origin"),
		Destination:   c.PostForm("destination"),
	}

	if errs := validate.CreateOrder(form); errs != nil {
		c.HTML(http.StatusBadRequest, "pages/order_new.html", h.pageData(c, "New order", gin.H{
			"Fields": errs,
			"Form":   form,
		}))
		return
	}

	order, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "create order failed: %v", err)
		c.HTML(http.StatusBadGateway, "pages/order_new.html", h.pageData(c, "New order", gin.H{
			"Error": errorText(err),
			"Form":  form,
		}))
		return
	}

	c.Redirect(http.StatusFound, withFlash("/orders/"+order.ID, "Order created"))
}

func (h *Handler) orderDetail(c *gin.Context) {
	id := c.Param("id")

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "get order failed id=%s err=%v", id, err)
		c.HTML(http.StatusBadGateway, "pages/order_detail.html", h.pageData(c, "Order", gin.H{
			"Error": errorText(err),
		}))
		return
	}

	data := gin.H{
		"Order":     order,
		"CanCancel": order.CanCancel(),
	}
	// Селектор статуса: только администратору и только вне терминальных состояний.
	if user, ok := h.sessions.Current(); ok && user.IsAdmin() && !order.Status.IsTerminal() {
		data["StatusOptions"] = statusOptions(order.Status)
	}

	c.HTML(http.StatusOK, "pages/order_detail.html", h.pageData(c, "Order "+order.TrackingNumber, data))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	detailURL := "/orders/" + id

	current := domain.OrderStatus(c.PostForm("current"))
	next := domain.OrderStatus(c.PostForm("status"))
	if !next.IsValid() || next == domain.StatusCanceled {
		c.Redirect(http.StatusFound, withError(detailURL, "unknown order status"))
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, current, next)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "update status failed id=%s err=%v", id, err)
		c.Redirect(http.StatusFound, withError(detailURL, errorText(err)))
		return
	}
	if order == nil {
		// Статус уже такой — тихий no-op без обращения к бэкенду.
		c.Redirect(http.StatusFound, detailURL)
		return
	}

	c.Redirect(http.StatusFound, withFlash(detailURL, "Status updated"))
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id := c.Param("id")
	detailURL := "/orders/" + id

	// Отмена необратима: требуем явного подтверждения из формы.
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusFound, withError(detailURL, "cancellation requires confirmation"))
		return
	}

	if _, err := h.service.Cancel(c.Request.Context(), id); err != nil {
		h.log.Errorf(c.Request.Context(), "cancel order failed id=%s err=%v", id, err)
		c.Redirect(http.StatusFound, withError(detailURL, errorText(err)))
		return
	}

	c.Redirect(http.StatusFound, withFlash(detailURL, "Order canceled"))
}
