// Package ui holds the server-rendered pages of the account flows.
package ui

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageSignup   = "signup.html"
	PageLogin    = "login.html"
	PageActivate = "activate.html"
)

// Pages renders the embedded templates.
type Pages struct {
	templates *template.Template
}

func NewPages() (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{templates: tmpl}, nil
}

func MustPages() *Pages {
	p, err := NewPages()
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pages) Render(c *gin.Context, status int, name string, data interface{}) {
	c.Render(status, render.HTML{Template: p.templates, Name: name, Data: data})
}
