package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/symptom-triage-server/internal/domain"
)

// messageRequest is the body of a session message.
type messageRequest struct {
	Input string `json:"input" binding:"required"`
}

// transitionResponse is the caller-facing shape of one state-machine
// transition: the next prompt, the partial profile, and the terminal flag.
type transitionResponse struct {
	SessionID  string                `json:"session_id"`
	Reply      string                `json:"reply"`
	Step       domain.Step           `json:"step"`
	Terminal   bool                  `json:"terminal"`
	Profile    domain.PatientProfile `json:"profile"`
	Report     *domain.Report        `json:"report,omitempty"`
	ScoringErr *domain.ScoringError  `json:"scoring_error,omitempty"`
}

// handleCreateSession starts a new intake session and returns the welcome
// prompt.
func (s *Server) handleCreateSession(c *gin.Context) {
	id := s.sessions.Create()
	err := s.sessions.WithSession(id, func(state *domain.ConversationState) {
		prompt := s.intake.Begin(state)
		c.JSON(http.StatusCreated, transitionResponse{
			SessionID: state.ID,
			Reply:     prompt,
			Step:      state.CurrentStep,
			Profile:   *state.Profile,
		})
	})
	if err != nil {
		s.notFound(c, err)
	}
}

// handleGetSession returns a snapshot of the session: current step,
// partial profile, transcript, and the report once available.
func (s *Server) handleGetSession(c *gin.Context) {
	err := s.sessions.WithSession(c.Param("id"), func(state *domain.ConversationState) {
		c.JSON(http.StatusOK, state)
	})
	if err != nil {
		s.notFound(c, err)
	}
}

// handleMessage feeds one user input to the state machine.
func (s *Server) handleMessage(c *gin.Context) {
	err := s.sessions.WithSession(c.Param("id"), func(state *domain.ConversationState) {
		var req messageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
			return
		}
		if strings.TrimSpace(req.Input) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "input must not be blank"})
			return
		}

		t := s.intake.Advance(state, req.Input)
		c.JSON(http.StatusOK, transitionResponse{
			SessionID:  state.ID,
			Reply:      t.Reply,
			Step:       t.Step,
			Terminal:   t.Terminal,
			Profile:    t.Profile,
			Report:     t.Report,
			ScoringErr: t.ScoringErr,
		})
	})
	if err != nil {
		s.notFound(c, err)
	}
}

// handleResetSession re-arms a session at the welcome step.
func (s *Server) handleResetSession(c *gin.Context) {
	err := s.sessions.WithSession(c.Param("id"), func(state *domain.ConversationState) {
		state.Reset()
		prompt := s.intake.Begin(state)
		c.JSON(http.StatusOK, transitionResponse{
			SessionID: state.ID,
			Reply:     prompt,
			Step:      state.CurrentStep,
			Profile:   *state.Profile,
		})
	})
	if err != nil {
		s.notFound(c, err)
	}
}

// handleSuggest returns symptom typeahead suggestions. Selected symptoms
// are passed comma-separated in the "selected" query parameter.
func (s *Server) handleSuggest(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	var selected []string
	if raw := c.Query("selected"); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				selected = append(selected, item)
			}
		}
	}

	suggestions := s.suggester.Suggest(query, selected)
	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": suggestions,
	})
}

func (s *Server) notFound(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
