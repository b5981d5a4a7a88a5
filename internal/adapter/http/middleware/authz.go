package middleware

import (
	"net/http"
	"strings"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

const sessionKey = "mealmate.session"

// Authz resolves the bearer session token into a live session and injects
// it into the request context.
type Authz struct {
	sessions *usecase.Sessions
}

func NewAuthz(sessions *usecase.Sessions) *Authz {
	return &Authz{sessions: sessions}
}

func (a *Authz) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		sess, err := a.sessions.Authenticate(c.Request.Context(), raw)
		if err != nil {
			unauth(c, "invalid_token", "session expired or unknown")
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// Session returns the session injected by Require. Handlers behind the
// middleware may assume it is present.
func Session(c *gin.Context) *usecase.Session {
	v, _ := c.Get(sessionKey)
	sess, _ := v.(*usecase.Session)
	return sess
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}
