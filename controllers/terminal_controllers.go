package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/praditya/boardgame-venue/replication"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Terminal berjalan di jaringan lokal venue
	},
}

// TerminalHandler -> endpoint WebSocket kanal replikasi. Setiap terminal
// yang terhubung menerima siaran mutasi dan event yang dikirimnya
// di-merge lalu di-relay ke terminal lain.
func TerminalHandler(hub *replication.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		hub.RegisterClient(ws, operatorID(c), role.(string))

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				break
			}
			hub.HandleInbound(ws, data)
		}

		hub.UnregisterClient(ws)
	}
}
