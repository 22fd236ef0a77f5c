package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/signup/internal/middleware"
	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/service"
)

const (
	RouteSignup   = "signup"
	RouteLogin    = "login"
	RouteMe       = "me"
	RouteActivate = service.RouteActivate
)

type RouterDeps struct {
	Signup          *SignupHandler
	Login           *LoginHandler
	Activation      *ActivationHandler
	Routes          *urls.Registry
	JWTSecret       []byte
	RateLimitWindow time.Duration
	RateLimitKeys   int
}

// RegisterRoutes mounts the account pages. Every pattern goes through the
// registry so it can be reversed by name.
func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	signup := deps.Routes.Add(RouteSignup, "/signup/")
	api.GET(signup, deps.Signup.Form)
	api.POST(signup, middleware.RateLimit(deps.RateLimitWindow, deps.RateLimitKeys, deps.Signup.Limited), deps.Signup.Submit)

	login := deps.Routes.Add(RouteLogin, "/login/")
	api.GET(login, deps.Login.Form)
	api.POST(login, middleware.RateLimit(deps.RateLimitWindow, deps.RateLimitKeys, nil), deps.Login.Submit)

	api.GET(deps.Routes.Add(RouteActivate, "/activate/:uidb64/:token/"), deps.Activation.Activate)

	api.GET(deps.Routes.Add(RouteMe, "/me/"), middleware.JWTAuth(deps.JWTSecret), deps.Login.Me)
}
