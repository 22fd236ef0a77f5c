package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
	"github.com/xxxsen/signup/internal/pkg/response"
	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/ui"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type LoginHandler struct {
	auth   Authenticator
	pages  *ui.Pages
	routes *urls.Registry
}

func NewLoginHandler(auth Authenticator, pages *ui.Pages, routes *urls.Registry) *LoginHandler {
	return &LoginHandler{auth: auth, pages: pages, routes: routes}
}

func (h *LoginHandler) Form(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, ui.PageLogin, gin.H{
		"action": h.routes.MustReverse(RouteLogin),
		"signup": h.routes.MustReverse(RouteSignup),
	})
}

func (h *LoginHandler) Submit(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		handleError(c, appErr.ErrInvalid)
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user, "token": token})
}

func (h *LoginHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}
