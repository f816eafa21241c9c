package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/refdata"
	"github.com/symptom-triage-server/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &domain.Config{
		Logging: domain.LoggingConfig{Level: "info"},
		Scoring: domain.ScoringConfig{
			HighThreshold:    0.7,
			MediumThreshold:  0.4,
			AssumedMaxScore:  60,
			MinProbability:   5,
			ExactMatchBonus:  5,
			PartialBonus:     3,
			SymptomWeight:    2,
			RiskFactorWeight: 1,
			TravelWeight:     0.8,
			DrugWeight:       0.5,
			RedFlagBoost:     2,
			MaxResults:       10,
		},
		Suggest: domain.SuggestConfig{CacheSize: 16, MaxResults: 8},
		// Rate limiting stays off so the walkthrough is not throttled.
	}

	store := refdata.NewStore(logger)
	require.NoError(t, store.Validate())
	engine := service.NewScoringEngine(logger, store, cfg.Scoring)
	intake := service.NewIntakeService(logger, store, engine, 1)
	sessions := service.NewSessionManager(logger)
	suggester, err := service.NewSuggester(logger, store, cfg.Suggest)
	require.NoError(t, err)

	return NewServer(logger, cfg, sessions, intake, suggester)
}

func doJSON(t *testing.T, server *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	decoded := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	w, body := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	w, created := doJSON(t, server, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := created["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, string(domain.StepWelcome), created["step"])
	assert.NotEmpty(t, created["reply"])

	messagesPath := fmt.Sprintf("/api/v1/sessions/%s/messages", sessionID)
	inputs := []string{
		"start", "female", "35", "fever", "cough", "done",
		"3", "days", "moderate", "none", "none",
	}
	var last map[string]any
	for _, input := range inputs {
		w, last = doJSON(t, server, http.MethodPost, messagesPath, gin.H{"input": input})
		require.Equal(t, http.StatusOK, w.Code, "input %q", input)
		assert.Equal(t, false, last["terminal"])
	}

	w, final := doJSON(t, server, http.MethodPost, messagesPath, gin.H{"input": "none"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, final["terminal"])
	assert.Equal(t, string(domain.StepSubmit), final["step"])
	require.NotNil(t, final["report"])

	w, snapshot := doJSON(t, server, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, snapshot["completed"])

	w, reset := doJSON(t, server, http.MethodPost, "/api/v1/sessions/"+sessionID+"/reset", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(domain.StepWelcome), reset["step"])

	w, snapshot = doJSON(t, server, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, snapshot["completed"])
	assert.Nil(t, snapshot["report"])
}

func TestConcurrentMessagesSameSession(t *testing.T) {
	server := newTestServer(t)

	_, created := doJSON(t, server, http.MethodPost, "/api/v1/sessions", nil)
	sessionID := created["session_id"].(string)
	path := fmt.Sprintf("/api/v1/sessions/%s/messages", sessionID)

	const clients = 16
	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func() {
			defer wg.Done()
			raw, err := json.Marshal(gin.H{"input": "hello"})
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			server.Router().ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	// One welcome prompt plus a user/assistant pair per message; a lost
	// update would leave the transcript short.
	_, snapshot := doJSON(t, server, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	transcript, _ := snapshot["transcript"].([]any)
	assert.Len(t, transcript, 1+2*clients)
	assert.Equal(t, string(domain.StepWelcome), snapshot["current_step"])
}

func TestSessionNotFound(t *testing.T) {
	server := newTestServer(t)

	w, _ := doJSON(t, server, http.MethodGet, "/api/v1/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, server, http.MethodPost, "/api/v1/sessions/unknown/messages", gin.H{"input": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, server, http.MethodPost, "/api/v1/sessions/unknown/reset", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageValidation(t *testing.T) {
	server := newTestServer(t)

	_, created := doJSON(t, server, http.MethodPost, "/api/v1/sessions", nil)
	sessionID := created["session_id"].(string)
	path := fmt.Sprintf("/api/v1/sessions/%s/messages", sessionID)

	w, _ := doJSON(t, server, http.MethodPost, path, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, server, http.MethodPost, path, gin.H{"input": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestEndpoint(t *testing.T) {
	server := newTestServer(t)

	w, body := doJSON(t, server, http.MethodGet, "/api/v1/suggest?q=head", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	suggestions, _ := body["suggestions"].([]any)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "headache", suggestions[0])

	w, body = doJSON(t, server, http.MethodGet, "/api/v1/suggest?q=head&selected=headache", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	suggestions, _ = body["suggestions"].([]any)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "severe headache", suggestions[0])

	w, _ = doJSON(t, server, http.MethodGet, "/api/v1/suggest", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	server := newTestServer(t)
	server.cfg.RateLimit = domain.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2}

	router := gin.New()
	router.Use(rateLimitMiddleware(server.logger, server.cfg.RateLimit))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
