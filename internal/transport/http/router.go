package web

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/internal/session"
	"github.com/makbarsyahwana/logistic-gateway/pkg/httpx"
)

// Handler — HTML-слой шлюза: формы и страницы поверх OrderService и сессии.
type Handler struct {
	service  ports.OrderService
	sessions *session.Store
	log      ports.Logger
	timeout  time.Duration
}

func NewHandler(service ports.OrderService, sessions *session.Store, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, sessions: sessions, log: log, timeout: timeout}
}

// NewRouter — собирает маршруты.
// webDir — каталог с templates/ и static/; otelServiceName — пустая строка
// отключает трейсинг-мидлварь.
func NewRouter(h *Handler, webDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	if h.timeout > 0 {
		r.Use(handlerTimeout(h.timeout))
	}

	r.LoadHTMLGlob(filepath.Join(webDir, "templates", "**", "*.html"))
	r.Static("/static", filepath.Join(webDir, "static"))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Публичные страницы: вход, регистрация и трекинг без сессии.
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.GET("/track", h.track)

	// Остальное — только с активной сессией.
	authed := r.Group("/", h.requireSession())
	{
		authed.GET("/", h.home)
		authed.POST("/logout", h.logout)
		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/new", h.newOrderPage)
		authed.POST("/orders", h.createOrder)
		authed.GET("/orders/:id", h.orderDetail)
		authed.POST("/orders/:id/cancel", h.cancelOrder)
		authed.POST("/orders/:id/status", h.requireAdmin(), h.updateStatus)
	}

	return r
}

// handlerTimeout — ограничение времени обработки запроса.
func handlerTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
