package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/posting/application/usecase"
	posting "findmystuff/internal/pkg/posting/domain"
	"findmystuff/pkg/apperr"
)

// ListPostingsController serves the public posting feed.
type ListPostingsController struct {
	UC *usecase.ListPostingsUseCase
}

func NewListPostingsController(store storage.Store) *ListPostingsController {
	return &ListPostingsController{UC: usecase.NewListPostingsUseCase(store)}
}

func (h *ListPostingsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		list, err := h.UC.Execute(ctx)
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		if list == nil {
			list = []posting.Posting{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListMinePostingsController serves the caller's own postings.
type ListMinePostingsController struct {
	UC *usecase.ListMinePostingsUseCase
}

func NewListMinePostingsController(store storage.Store) *ListMinePostingsController {
	return &ListMinePostingsController{UC: usecase.NewListMinePostingsUseCase(store)}
}

func (h *ListMinePostingsController) Handle() gin.HandlerFunc {
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
			list = []posting.Posting{}
		}
		c.JSON(http.StatusOK, list)
	}
}
