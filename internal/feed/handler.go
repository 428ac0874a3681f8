package feed

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  ReadBufferSize,
	WriteBufferSize: WriteBufferSize,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Handler upgrades the request to a WebSocket and streams hub events.
// The optional "wheels" query param is a comma separated filter.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn(LogMsgUpgradeFailed, "error", err)
			return
		}
		defer conn.Close()

		var wheels []string
		if filter := r.URL.Query().Get("wheels"); filter != "" {
			wheels = strings.Split(filter, ",")
		}

		client := hub.Register(wheels)
		slog.Info(LogMsgClientConnected, "client_id", client.ID, "wheels", wheels)
		defer func() {
			hub.Unregister(client)
			slog.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		if err := write(conn, Message{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   ConnectedPayload{ClientID: client.ID, Wheels: wheels},
		}); err != nil {
			return
		}

		// The read pump only services control frames and notices disconnects.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			_ = conn.SetReadDeadline(time.Now().Add(PongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(PongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(PingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				return

			case <-r.Context().Done():
				return

			case msg, ok := <-client.Events:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
						time.Now().Add(WriteTimeout))
					return
				}
				if err := write(conn, msg); err != nil {
					slog.Warn(LogMsgWriteError, "client_id", client.ID, "error", err)
					return
				}

			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteTimeout)); err != nil {
					return
				}
			}
		}
	}
}

func write(conn *websocket.Conn, msg Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
