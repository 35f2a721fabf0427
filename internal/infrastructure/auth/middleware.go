package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"findmystuff/pkg/apperr"
)

const identityKey = "auth.identity"

// Required aborts with 401 unless the request carries a verifiable bearer
// credential. The identity is stored on the gin context for handlers.
func (v *Verifier) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := v.fromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Optional attaches an identity when a valid credential is present and lets
// the request through either way. An invalid credential is treated the same
// as none: endpoints using Optional decide access on identity presence.
func (v *Verifier) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := v.fromRequest(c); err == nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity set by Required/Optional, or nil.
func IdentityFrom(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

func (v *Verifier) fromRequest(c *gin.Context) (*Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, apperr.Unauthenticated("unauthenticated")
	}
	return v.Verify(strings.TrimPrefix(header, "Bearer "))
}
