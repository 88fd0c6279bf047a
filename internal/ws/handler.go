package ws

import (
	"net/http"

	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TokenVerifier returns the token subject, or an error if it is not valid.
type TokenVerifier func(token string) (string, error)

// HandleWS upgrades the request and subscribes it to the task feed.
// When verify is nil the feed is public.
func HandleWS(hub *Hub, allowedOrigin string, verify TokenVerifier) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		subject := ""
		if verify != nil {
			token := c.Query("token")
			if token == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "token required"})
				return
			}
			sub, err := verify(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
				return
			}
			subject = sub
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("ws upgrade error", "error", err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("feed client connected", "subject", subject)
		go NewClient(conn, hub).Run()
	}
}
