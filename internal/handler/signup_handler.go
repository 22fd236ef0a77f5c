package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/xxxsen/signup/internal/model"
	appErr "github.com/xxxsen/signup/internal/pkg/errors"
	"github.com/xxxsen/signup/internal/pkg/urls"
	"github.com/xxxsen/signup/internal/service"
	"github.com/xxxsen/signup/internal/ui"
)

// Registrar persists a validated sign-up submission.
type Registrar interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*model.User, error)
}

// signupForm is bound first and validated after trimming, so whitespace-only
// usernames fail "required".
type signupForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8,max=72"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

var formValidator = validator.New()

const rateLimitedMessage = "too many attempts, slow down"

type SignupHandler struct {
	registrar Registrar
	pages     *ui.Pages
	routes    *urls.Registry
}

func NewSignupHandler(registrar Registrar, pages *ui.Pages, routes *urls.Registry) *SignupHandler {
	return &SignupHandler{registrar: registrar, pages: pages, routes: routes}
}

func (h *SignupHandler) Form(c *gin.Context) {
	h.render(c, http.StatusOK, signupForm{}, nil)
}

func (h *SignupHandler) Submit(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, form, formErrors(err))
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := formValidator.Struct(&form); err != nil {
		h.render(c, http.StatusOK, form, formErrors(err))
		return
	}
	_, err := h.registrar.SignUp(c.Request.Context(), service.SignUpInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password1,
	})
	if err != nil {
		var conflict *appErr.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.render(c, http.StatusOK, form, map[string]string{conflict.Field: "already taken"})
		case errors.Is(err, appErr.ErrInvalid):
			h.render(c, http.StatusOK, form, map[string]string{"password1": "not accepted"})
		default:
			handleError(c, err)
		}
		return
	}
	c.Redirect(http.StatusFound, h.routes.MustReverse(RouteLogin))
}

// Limited answers a throttled submission with the form and a 429.
func (h *SignupHandler) Limited(c *gin.Context) {
	var form signupForm
	_ = c.ShouldBind(&form)
	h.render(c, http.StatusTooManyRequests, form, map[string]string{"form": rateLimitedMessage})
}

func (h *SignupHandler) render(c *gin.Context, status int, form signupForm, errs map[string]string) {
	form.Password1, form.Password2 = "", ""
	h.pages.Render(c, status, ui.PageSignup, gin.H{
		"form":   form,
		"errors": errs,
		"action": h.routes.MustReverse(RouteSignup),
		"login":  h.routes.MustReverse(RouteLogin),
	})
}

// formErrors maps validation failures to the form field names.
func formErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": "invalid submission"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "eqfield":
		return "the two password fields didn't match"
	case "min":
		return "too short, at least " + fe.Param() + " characters"
	case "max":
		return "too long, at most " + fe.Param() + " characters"
	default:
		return "invalid value"
	}
}
