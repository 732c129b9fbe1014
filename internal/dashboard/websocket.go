package dashboard

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket streams a notice every time the loaded document changes.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[DASHBOARD] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	notices := s.store.Subscribe()
	defer s.store.Unsubscribe(notices)

	// Read pump, only used to detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				log.Printf("[DASHBOARD] websocket write failed: %v", err)
				return
			}
		}
	}
}
