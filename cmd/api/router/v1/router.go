package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/auth"
	qport "findmystuff/internal/infrastructure/queue/port"
	"findmystuff/internal/infrastructure/realtime"
	storage "findmystuff/internal/infrastructure/storage/port"
	accountHTTP "findmystuff/internal/pkg/account/presentation/http"
	conversationHTTP "findmystuff/internal/pkg/conversation/presentation/http"
	postingHTTP "findmystuff/internal/pkg/posting/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, store storage.Store, rt *realtime.Router, verifier *auth.Verifier, queue qport.Client, demo bool, logger *zap.Logger) {
	v1 := r.Group("/api/v1")
	accountHTTP.RegisterRoutes(v1, store, verifier, queue, demo)
	postingHTTP.RegisterRoutes(v1, store, verifier)
	conversationHTTP.RegisterRoutes(v1, store, rt, verifier, logger)
}
