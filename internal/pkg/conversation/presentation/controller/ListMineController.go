package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/conversation/application/usecase"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/pkg/apperr"
)

// ListMineController lists the caller's conversations, newest first.
type ListMineController struct {
	UC *usecase.ListMineUseCase
}

func NewListMineController(store storage.Store) *ListMineController {
	return &ListMineController{UC: usecase.NewListMineUseCase(store)}
}

func (h *ListMineController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		me := auth.IdentityFrom(c)
		if me == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		list, err := h.UC.Execute(ctx, me.UserID)
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		if list == nil {
			list = []conversation.Conversation{}
		}

		c.JSON(http.StatusOK, list)
	}
}
