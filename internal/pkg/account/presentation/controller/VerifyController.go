package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/application/usecase"
	"findmystuff/pkg/apperr"
)

// VerifyController handles verification-code submission.
type VerifyController struct {
	UC *usecase.VerifyContactUseCase
}

func NewVerifyController(store storage.Store) *VerifyController {
	return &VerifyController{UC: usecase.NewVerifyContactUseCase(store)}
}

type verifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *VerifyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, usecase.VerifyContactInput{Email: req.Email, Code: req.Code}); err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
