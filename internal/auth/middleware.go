package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marketmesh/marketmesh/internal/models"
)

// Identity headers injected by the gateway after verifying the bearer token.
// Subgraph services trust them for the lifetime of one request and never
// re-verify signatures.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"

	identityKey = "caller_identity"
)

// Boundary verifies the Authorization bearer token once and stores the
// asserted identity on the request. Requests without a token pass through
// anonymously; requests with an invalid token are rejected.
func Boundary(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Identity headers are only ever set here, from a verified token.
		// Whatever the client sent must not survive the boundary.
		c.Request.Header.Del(HeaderUserID)
		c.Request.Header.Del(HeaderRole)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		ident, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, ident)
		c.Request.Header.Set(HeaderUserID, ident.UserID)
		c.Request.Header.Set(HeaderRole, string(ident.Role))
		c.Next()
	}
}

// TrustedIdentity reads the identity headers set by the gateway into the
// request context. Absent headers yield the anonymous identity.
func TrustedIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := models.Identity{
			UserID: c.GetHeader(HeaderUserID),
			Role:   models.Role(c.GetHeader(HeaderRole)),
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// CallerIdentity returns the identity stored on the request, or the
// anonymous identity.
func CallerIdentity(c *gin.Context) models.Identity {
	if v, exists := c.Get(identityKey); exists {
		if ident, ok := v.(models.Identity); ok {
			return ident
		}
	}
	return models.Identity{}
}
