package httpserver

import (
	"strings"

	"milstore/internal/domain"

	"github.com/gin-gonic/gin"
)

const ownerCtxKey = "cartOwner"

// ownerMiddleware resolves the request's cart owner. A bearer token is
// tried as a customer access token first, then as a guest session
// token; a bare X-Session-Id header also names a guest cart. Requests
// with neither proceed with a zero owner and see an empty cart.
func ownerMiddleware(customers CustomerService, sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, ok := customers.Validate(c.Request.Context(), token); ok {
				c.Set(ownerCtxKey, domain.UserOwner(userID))
				c.Next()
				return
			}
			if sessionID, err := sessions.Validate(c.Request.Context(), token); err == nil {
				c.Set(ownerCtxKey, domain.GuestOwner(sessionID))
				c.Next()
				return
			}
		}
		if sessionID := strings.TrimSpace(c.GetHeader("X-Session-Id")); sessionID != "" {
			c.Set(ownerCtxKey, domain.GuestOwner(sessionID))
		}
		c.Next()
	}
}

func requestOwner(c *gin.Context) domain.Owner {
	v, ok := c.Get(ownerCtxKey)
	if !ok {
		return domain.Owner{}
	}
	owner, ok := v.(domain.Owner)
	if !ok {
		return domain.Owner{}
	}
	return owner
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
