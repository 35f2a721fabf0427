package http

import (
	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/posting/presentation/controller"
)

// RegisterRoutes registers posting endpoints under the given router group.
func RegisterRoutes(g *gin.RouterGroup, store storage.Store, verifier *auth.Verifier) {
	createCtl := controller.NewCreatePostingController(store)
	listCtl := controller.NewListPostingsController(store)
	mineCtl := controller.NewListMinePostingsController(store)
	deleteCtl := controller.NewDeletePostingController(store)

	// GET /api/v1/postings -> public feed, newest first
	g.GET("/postings", listCtl.Handle())

	// POST /api/v1/postings -> create a posting (anonymous when no credential)
	g.POST("/postings", verifier.Optional(), createCtl.Handle())

	// GET /api/v1/postings/mine -> the caller's postings
	g.GET("/postings/mine", verifier.Required(), mineCtl.Handle())

	// DELETE /api/v1/postings/:id -> owner delete, cascades to conversations
	g.DELETE("/postings/:id", verifier.Required(), deleteCtl.Handle())
}
