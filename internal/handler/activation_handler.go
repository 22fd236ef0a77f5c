package handler

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Verifier decodes the identifier, validates the token and activates the
// account as a side effect.
type Verifier interface {
	Verify(ctx context.Context, encodedID, token string) (bool, error)
}

// ActivationRequest carries the two opaque path values of an activation link.
type ActivationRequest struct {
	EncodedIdentifier string
	VerificationToken string
}

type ActivationHandler struct {
	verifier  Verifier
	presenter ActivationPresenter
}

func NewActivationHandler(verifier Verifier, presenter ActivationPresenter) *ActivationHandler {
	return &ActivationHandler{verifier: verifier, presenter: presenter}
}

func (h *ActivationHandler) Activate(c *gin.Context) {
	req := ActivationRequest{
		EncodedIdentifier: c.Param("uidb64"),
		VerificationToken: c.Param("token"),
	}
	result, err := h.verifier.Verify(c.Request.Context(), req.EncodedIdentifier, req.VerificationToken)
	if err != nil {
		handleError(c, err)
		return
	}
	h.presenter.Present(c, result)
}
