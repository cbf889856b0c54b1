package middlewares

import (
	"os"

	"github.com/gin-gonic/gin"
)

// AllowedOrigin -> origin UI terminal, bisa dioverride per deployment
func AllowedOrigin() string {
	if origin := os.Getenv("TERMINAL_ORIGIN"); origin != "" {
		return origin
	}
	// Default untuk development: UI terminal jalan di mesin yang sama
	return "http://127.0.0.1:4173"
}

func CORSMiddlewares() gin.HandlerFunc {
	origin := AllowedOrigin()
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, Sec-WebSocket-Protocol, Sec-WebSocket-Version, Sec-WebSocket-Key, Upgrade")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			if c.GetHeader("Upgrade") == "websocket" {
				c.Writer.Header().Set("Connection", "Upgrade")
				c.Writer.Header().Set("Upgrade", "websocket")
			}
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
