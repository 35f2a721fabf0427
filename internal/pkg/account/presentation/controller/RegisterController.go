package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	qport "findmystuff/internal/infrastructure/queue/port"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/application/usecase"
	"findmystuff/pkg/apperr"
)

// RegisterController handles account registration. In demo mode the response
// carries the verification code so the flow works without a mail provider.
type RegisterController struct {
	UC *usecase.RegisterUserUseCase
}

func NewRegisterController(store storage.Store, queue qport.Client, demo bool) *RegisterController {
	return &RegisterController{UC: usecase.NewRegisterUserUseCase(store, queue, demo)}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

func (h *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email+password required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.RegisterUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{"ok": true}
		if out.VerificationCode != "" {
			resp["verificationCode"] = out.VerificationCode
		}
		c.JSON(http.StatusOK, resp)
	}
}
