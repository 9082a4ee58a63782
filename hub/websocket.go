package hub

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS untuk websocket ditangani middleware
	},
}

// ServeWS upgrades the request and streams hub events to the connection
// until the peer goes away. It blocks for the lifetime of the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, scope string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	events, cancel := h.Subscribe(scope, DefaultBuffer)
	log := utils.InfoLogger.WithFields(logrus.Fields{
		"hub":    h.name,
		"scope":  scope,
		"remote": r.RemoteAddr,
	})
	log.Info("websocket client connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, events)
	}()

	readPump(conn)
	cancel()
	<-done
	log.Info("websocket client disconnected")
	return nil
}

// readPump discards inbound frames; it only exists to process control
// frames and notice disconnects.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, events <-chan Message) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				utils.ErrorLogger.WithError(err).WithField("event", msg.Event).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
