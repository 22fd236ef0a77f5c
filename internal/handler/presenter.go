package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/ui"
)

const (
	ActivationSuccessText = "Success."
	ActivationFailureText = "Activation link is invalid!"
)

// ActivationPresenter turns a verification outcome into a response.
type ActivationPresenter interface {
	Present(c *gin.Context, result bool)
}

// TemplatePresenter renders activate.html and lets the template pick the
// wording from the "result" value.
type TemplatePresenter struct {
	pages  *ui.Pages
	routes *urls.Registry
}

func NewTemplatePresenter(pages *ui.Pages, routes *urls.Registry) *TemplatePresenter {
	return &TemplatePresenter{pages: pages, routes: routes}
}

func (p *TemplatePresenter) Present(c *gin.Context, result bool) {
	p.pages.Render(c, http.StatusOK, ui.PageActivate, gin.H{
		"result": result,
		"login":  p.routes.MustReverse(RouteLogin),
		"signup": p.routes.MustReverse(RouteSignup),
	})
}

// PlainTextPresenter answers with one of two fixed strings.
type PlainTextPresenter struct{}

func NewPlainTextPresenter() PlainTextPresenter {
	return PlainTextPresenter{}
}

func (PlainTextPresenter) Present(c *gin.Context, result bool) {
	if result {
		c.String(http.StatusOK, ActivationSuccessText)
		return
	}
	c.String(http.StatusOK, ActivationFailureText)
}
