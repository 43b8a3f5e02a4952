package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/session"
	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

func (h *Handler) loginPage(c *gin.Context) {
	if h.sessions.State() == session.StateAuthenticated {
		c.Redirect(http.StatusFound, "/orders")
		return
	}
	c.HTML(http.StatusOK, "pages/login.html", h.pageData(c, "Sign in", gin.H{"Email": ""}))
}

func (h *Handler) login(c *gin.Context) {
	creds := domain.Credentials{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if errs := validate.Credentials(creds); errs != nil {
		c.HTML(http.StatusBadRequest, "pages/login.html", h.pageData(c, "Sign in", gin.H{
			"Fields": errs,
			"Email":  creds.Email,
		}))
		return
	}

	if err := h.sessions.Login(c.Request.Context(), creds); err != nil {
		h.log.Warnf(c.Request.Context(), "login failed email=%s err=%v", creds.Email, err)
		c.HTML(http.StatusUnauthorized, "pages/login.html", h.pageData(c, "Sign in", gin.H{
			"Error": errorText(err),
			"Email": creds.Email,
		}))
		return
	}

	c.Redirect(http.StatusFound, "/orders")
}

func (h *Handler) registerPage(c *gin.Context) {
	if h.sessions.State() == session.StateAuthenticated {
		c.Redirect(http.StatusFound, "/orders")
		return
	}
	c.HTML(http.StatusOK, "pages/register.html", h.pageData(c, "Create account", gin.H{"Email": "", "Name": ""}))
}

func (h *Handler) register(c *gin.Context) {
	reg := domain.Registration{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Name:     c.PostForm("name"),
	}

	if errs := validate.Registration(reg); errs != nil {
		c.HTML(http.StatusBadRequest, "pages/register.html", h.pageData(c, "Create account", gin.H{
			"Fields": errs,
			"Email":  reg.Email,
			"Name":   reg.Name,
		}))
		return
	}

	if err := h.sessions.Register(c.Request.Context(), reg); err != nil {
		h.log.Warnf(c.Request.Context(), "register failed email=%s err=%v", reg.Email, err)
		c.HTML(http.StatusBadRequest, "pages/register.html", h.pageData(c, "Create account", gin.H{
			"Error": errorText(err),
			"Email": reg.Email,
			"Name":  reg.Name,
		}))
		return
	}

	c.Redirect(http.StatusFound, "/orders")
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/orders")
}
