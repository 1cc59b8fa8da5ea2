package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/log"
)

const (
	wsMaxMessageSize = 4 << 20
	wsWriteWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// wsHandler executes each text frame as a request and replies in order
func wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)
	log.Debug("websocket connected", "remote", r.RemoteAddr)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read failed", "remote", r.RemoteAddr, "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		resp, _ := gatewayapi.NewResponse(gatewayapi.Request(string(msg)))
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			log.Debug("websocket write failed", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}
