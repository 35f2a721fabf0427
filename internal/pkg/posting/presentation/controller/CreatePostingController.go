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

// CreatePostingController handles posting creation. The credential is
// optional: without one the posting is anonymous and cannot be messaged.
type CreatePostingController struct {
	UC *usecase.CreatePostingUseCase
}

func NewCreatePostingController(store storage.Store) *CreatePostingController {
	return &CreatePostingController{UC: usecase.NewCreatePostingUseCase(store)}
}

type createPostingRequest struct {
	Type        string  `json:"type" binding:"required"`
	Item        string  `json:"item" binding:"required"`
	Description string  `json:"desc"`
	Location    string  `json:"location"`
	ContactName string  `json:"contactName"`
	ContactInfo string  `json:"contactInfo"`
	Attachment  *string `json:"attachment"`
}

func (h *CreatePostingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPostingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var ownerID *string
		if me := auth.IdentityFrom(c); me != nil {
			ownerID = &me.UserID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		p, err := h.UC.Execute(ctx, usecase.CreatePostingInput{
			OwnerID:     ownerID,
			Type:        posting.PostingType(req.Type),
			Item:        req.Item,
			Description: req.Description,
			Location:    req.Location,
			ContactName: req.ContactName,
			ContactInfo: req.ContactInfo,
			Attachment:  req.Attachment,
		})
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, p)
	}
}
