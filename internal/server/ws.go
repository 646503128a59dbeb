package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// wsEvent is the outgoing WebSocket message format. Status events carry
// only the stage; the terminal "answer" event carries the full payload.
// Partial answers are never streamed: later passes can revise them.
type wsEvent struct {
	Type   string `json:"type"` // "status", "answer", "error"
	Stage  string `json:"stage,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error_ string `json:"error,omitempty"`
}

func (s *Server) handleAskWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendEvent(conn, wsEvent{Type: "error", Error_: "invalid message format"})
			continue
		}
		if req.Question == "" {
			s.sendEvent(conn, wsEvent{Type: "error", Error_: "question is required"})
			continue
		}

		out, err := s.engine.Ask(r.Context(), req.Question, req.SessionID, func(stage string) {
			s.sendEvent(conn, wsEvent{Type: "status", Stage: stage})
		})
		if err != nil {
			s.sendEvent(conn, wsEvent{Type: "error", Error_: err.Error()})
			continue
		}

		s.sendEvent(conn, wsEvent{
			Type: "answer",
			Data: s.assembler.Assemble(r.Context(), out),
		})
	}
}

func (s *Server) sendEvent(conn *websocket.Conn, ev wsEvent) {
	if err := conn.WriteJSON(ev); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
