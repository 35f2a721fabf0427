package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/application/usecase"
	"findmystuff/pkg/apperr"
)

// LoginController handles credential login and token issuance.
type LoginController struct {
	UC *usecase.LoginUseCase
}

func NewLoginController(store storage.Store, verifier *auth.Verifier) *LoginController {
	return &LoginController{UC: usecase.NewLoginUseCase(store, verifier)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
