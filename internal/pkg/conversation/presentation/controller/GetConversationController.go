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

// GetConversationController fetches one conversation by id. The credential is
// optional at the transport level; the use case decides access.
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(store storage.Store) *GetConversationController {
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(store)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var requesterID *string
		if me := auth.IdentityFrom(c); me != nil {
			requesterID = &me.UserID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			ConversationID: c.Param("convId"),
			RequesterID:    requesterID,
		})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conv)
	}
}
