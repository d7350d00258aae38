package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/service"
)

// SessionHeader carries the session ID for API clients without cookies
const SessionHeader = "X-Session-ID"

const sessionKey = "alfred.session"

// Session resolves the caller's session from the X-Session-ID header or the
// session cookie, creating a new one when neither names a live session.
// The ID is echoed in the response header and cookie.
func Session(sessions *service.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(cookieName)
		}

		session, _, err := sessions.Ensure(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}

		c.Set(sessionKey, session)
		c.Header(SessionHeader, session.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, session.ID, 0, "/", "", false, true)

		c.Next()
	}
}

// SessionID returns the ID of the session resolved for this request
func SessionID(c *gin.Context) string {
	if s := CurrentSession(c); s != nil {
		return s.ID
	}
	return ""
}

// CurrentSession returns the session as loaded at the start of the request
func CurrentSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}
