package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
)

func TestChatWebsocket(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	_, created := doJSON(t, server, http.MethodPost, "/api/v1/sessions", nil)
	sessionID := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/sessions/" + sessionID + "/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var opening chatFrame
	require.NoError(t, conn.ReadJSON(&opening))
	assert.Equal(t, string(domain.StepWelcome), opening.Step)
	assert.NotEmpty(t, opening.Reply)

	require.NoError(t, conn.WriteJSON(chatFrame{Input: "start"}))
	var frame chatFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, string(domain.StepGender), frame.Step)
	assert.False(t, frame.Terminal)

	// Plain-text frames from simple clients are accepted as input.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("female")))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, string(domain.StepAge), frame.Step)
}

func TestChatWebsocketUnknownSession(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/sessions/unknown/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
