package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/conversation/application/usecase"
	"findmystuff/pkg/apperr"
)

// OpenConversationController handles the conversation open/find endpoint.
// One controller per endpoint.
type OpenConversationController struct {
	UC *usecase.OpenConversationUseCase
}

func NewOpenConversationController(store storage.Store) *OpenConversationController {
	return &OpenConversationController{UC: usecase.NewOpenConversationUseCase(store)}
}

type openConversationRequest struct {
	PostingID string `json:"postingId" binding:"required"`
}

func (h *OpenConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		me := auth.IdentityFrom(c)
		if me == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		var req openConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "postingId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.OpenConversationInput{
			PostingID:   req.PostingID,
			RequesterID: me.UserID,
		})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conv)
	}
}
