package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// withClientWatch derives a context that is cancelled when the websocket
// client disconnects. A goroutine drains inbound frames (the protocol is
// one-way) so close frames and read errors are noticed promptly.
func withClientWatch(c *gin.Context, conn *websocket.Conn) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return ctx, cancel
}
