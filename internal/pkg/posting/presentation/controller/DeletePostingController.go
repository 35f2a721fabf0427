package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/posting/application/usecase"
	"findmystuff/pkg/apperr"
)

// DeletePostingController handles owner deletion of a posting, including the
// cascade removal of its conversations.
type DeletePostingController struct {
	UC *usecase.DeletePostingUseCase
}

func NewDeletePostingController(store storage.Store) *DeletePostingController {
	return &DeletePostingController{UC: usecase.NewDeletePostingUseCase(store)}
}

func (h *DeletePostingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		me := auth.IdentityFrom(c)
		if me == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeletePostingInput{
			PostingID:   c.Param("id"),
			RequesterID: me.UserID,
		})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
