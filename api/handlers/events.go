package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/designer"
)

const writeWait = 10 * time.Second

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// SessionEvent is one message of the session events stream
type SessionEvent struct {
	Event     string         `json:"event"`
	SessionID string         `json:"sessionId"`
	Data      designer.State `json:"data"`
}

// EventsHandler streams a snapshot of the session after every successful
// operation. The current state is sent first.
func (s Session) EventsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	entry, err := s.Sessions.Get(sessionID)
	if err != nil {
		writeError(w, "failed to get session "+sessionID, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "sessionId", sessionID, "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := entry.Subscribe()
	defer cancel()
	zap.S().Infow("listener connected", "sessionId", sessionID)

	// the client never sends anything; reading is only for noticing it left
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(st designer.State) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteJSON(SessionEvent{Event: "session_state", SessionID: sessionID, Data: st})
		if err != nil {
			zap.S().Warnw("error sending session state", "sessionId", sessionID, "error", err)
			return false
		}
		return true
	}

	if !send(entry.Session.State()) {
		return
	}
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session discarded"),
					time.Now().Add(writeWait))
				return
			}
			if !send(st) {
				return
			}
		case <-gone:
			zap.S().Infow("listener disconnected", "sessionId", sessionID)
			return
		}
	}
}
