package notifier

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/selene-app/selene-api/internal/config"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Consumers are browser read-models on other origins; signals carry no
	// sensitive payload.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub relays every published invalidation signal to connected WebSocket
// clients. Clients refetch on receipt; a dropped connection is recovered by
// reconnect plus full refetch.
type Hub struct {
	bus Notifier
}

func NewHub(bus Notifier) *Hub {
	return &Hub{bus: bus}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	sub := h.bus.SubscribeAll()
	go h.writePump(conn, sub)
	go readPump(conn)
}

func (h *Hub) writePump(conn *websocket.Conn, sub Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is one-way. Reading is still
// required so close and pong control frames are processed.
func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
