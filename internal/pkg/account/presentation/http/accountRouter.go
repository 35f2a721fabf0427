package http

import (
	"github.com/gin-gonic/gin"

	"findmystuff/internal/infrastructure/auth"
	qport "findmystuff/internal/infrastructure/queue/port"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/presentation/controller"
)

// RegisterRoutes registers account endpoints under the given router group.
// queue may be nil; registration then falls back to demo delivery.
func RegisterRoutes(g *gin.RouterGroup, store storage.Store, verifier *auth.Verifier, queue qport.Client, demo bool) {
	registerCtl := controller.NewRegisterController(store, queue, demo)
	verifyCtl := controller.NewVerifyController(store)
	loginCtl := controller.NewLoginController(store, verifier)

	// POST /api/v1/auth/register -> create an unverified account
	g.POST("/auth/register", registerCtl.Handle())

	// POST /api/v1/auth/verify -> confirm the verification code
	g.POST("/auth/verify", verifyCtl.Handle())

	// POST /api/v1/auth/login -> credential check + bearer token
	g.POST("/auth/login", loginCtl.Handle())
}
