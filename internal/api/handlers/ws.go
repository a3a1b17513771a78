package handlers

import (
	"net/http"

	ws "lms-resource-center/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the app origin; same-user scoping is
	// enforced by the JWT middleware upstream.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Events upgrades the connection and streams library change events for the
// authenticated user until the peer disconnects.
func Events(c *gin.Context) {
	userID, _ := c.Get("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &ws.Client{UserID: userID.(uint), Conn: conn}
	hub := ws.GetHub()
	hub.RegisterClient(client)

	// Reads are discarded; the socket exists for server pushes. A read
	// error means the peer went away.
	go func() {
		defer func() {
			hub.UnregisterClient(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
