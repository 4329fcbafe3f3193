package http

import (
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/core"
	"github.com/vodachat/voda-server/internal/transport/tcp"
)

// WSHandler upgrades HTTP connections and bridges them to the line
// protocol: the websocket stream is wrapped as a net.Conn so the TCP
// session code serves it unchanged.
type WSHandler struct {
	hub       *core.Hub
	log       *zerolog.Logger
	queueSize int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger, queueSize int) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger, queueSize: queueSize}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	netConn := websocket.NetConn(r.Context(), conn, websocket.MessageText)
	tcp.ServeConn(r.Context(), netConn, h.hub, h.log, h.queueSize)

	conn.Close(websocket.StatusNormalClosure, "closing")
}
