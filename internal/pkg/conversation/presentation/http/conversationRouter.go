package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/auth"
	"findmystuff/internal/infrastructure/realtime"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/conversation/presentation/controller"
)

// RegisterRoutes registers conversation endpoints under the given router
// group. It constructs per-endpoint controllers and binds them to routes.
func RegisterRoutes(g *gin.RouterGroup, store storage.Store, router *realtime.Router, verifier *auth.Verifier, logger *zap.Logger) {
	openCtl := controller.NewOpenConversationController(store)
	mineCtl := controller.NewListMineController(store)
	getCtl := controller.NewGetConversationController(store)
	socketCtl := controller.NewConversationSocketController(store, router, verifier, logger)

	// POST /api/v1/conversations -> open (or find) the conversation for a posting
	g.POST("/conversations", verifier.Required(), openCtl.Handle())

	// GET /api/v1/conversations/mine -> the caller's conversations, newest first
	g.GET("/conversations/mine", verifier.Required(), mineCtl.Handle())

	// GET /api/v1/conversations/byId/:convId -> one conversation, participants only
	g.GET("/conversations/byId/:convId", verifier.Optional(), getCtl.Handle())

	// GET /api/v1/ws -> websocket endpoint for realtime traffic
	g.GET("/ws", socketCtl.Handle())
}
