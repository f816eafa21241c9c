package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/symptom-triage-server/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST API is already open; the chat transport follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatFrame is one websocket message in either direction.
type chatFrame struct {
	Input    string `json:"input,omitempty"`
	Reply    string `json:"reply,omitempty"`
	Step     string `json:"step,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleChat upgrades the connection and runs the intake loop over text
// frames: each client frame is one state-machine transition, mirroring the
// REST message endpoint. The session lock is taken per frame, never for the
// lifetime of the connection, so a REST caller on the same session is not
// starved.
func (s *Server) handleChat(c *gin.Context) {
	id := c.Param("id")

	var opening chatFrame
	if err := s.sessions.WithSession(id, func(state *domain.ConversationState) {
		// Open with the pending prompt so a reconnecting client knows
		// where the conversation stands.
		opening = chatFrame{Reply: state.LastPrompt(), Step: state.CurrentStep.String(), Terminal: state.Completed}
	}); err != nil {
		s.notFound(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(opening); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).WithField("session", id).Debug("Websocket closed unexpectedly")
			}
			return
		}

		var frame chatFrame
		if err := json.Unmarshal(payload, &frame); err != nil || frame.Input == "" {
			// Tolerate plain-text frames from simple clients.
			frame.Input = string(payload)
		}
		if frame.Input == "" {
			if err := conn.WriteJSON(chatFrame{Error: "input must not be blank"}); err != nil {
				return
			}
			continue
		}

		var out chatFrame
		if err := s.sessions.WithSession(id, func(state *domain.ConversationState) {
			t := s.intake.Advance(state, frame.Input)
			out = chatFrame{Reply: t.Reply, Step: t.Step.String(), Terminal: t.Terminal}
		}); err != nil {
			conn.WriteJSON(chatFrame{Error: "session no longer exists"})
			return
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}
