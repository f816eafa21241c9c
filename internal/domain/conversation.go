package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies who produced a transcript entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry of the ordered conversation transcript. Rendering
// and typing animation are presentation concerns; the core only appends.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Step      Step        `json:"step"`
	CreatedAt time.Time   `json:"created_at"`
}

// ConversationState holds everything one intake session owns: the current
// step, the partially built profile, and the transcript. It is mutated
// exclusively by the intake service under a single-owner discipline.
type ConversationState struct {
	ID          string          `json:"id"`
	CurrentStep Step            `json:"current_step"`
	Profile     *PatientProfile `json:"profile"`
	Transcript  []Message       `json:"transcript"`
	Completed   bool            `json:"completed"`
	Report      *Report         `json:"report,omitempty"`
	ScoringErr  *ScoringError   `json:"scoring_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewConversationState creates a fresh session positioned at the welcome
// step with an empty profile.
func NewConversationState() *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		ID:          uuid.NewString(),
		CurrentStep: StepWelcome,
		Profile:     &PatientProfile{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append records a transcript entry at the session's current step.
func (c *ConversationState) Append(role MessageRole, text string) {
	c.Transcript = append(c.Transcript, Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Step:      c.CurrentStep,
		CreatedAt: time.Now().UTC(),
	})
	c.UpdatedAt = time.Now().UTC()
}

// LastPrompt returns the most recent assistant message, or "" when the
// transcript has none yet.
func (c *ConversationState) LastPrompt() string {
	for i := len(c.Transcript) - 1; i >= 0; i-- {
		if c.Transcript[i].Role == RoleAssistant {
			return c.Transcript[i].Text
		}
	}
	return ""
}

// Reset re-arms the session at the welcome step with a cleared profile and
// transcript. The session keeps its identifier.
func (c *ConversationState) Reset() {
	c.CurrentStep = StepWelcome
	c.Profile = &PatientProfile{}
	c.Transcript = nil
	c.Completed = false
	c.Report = nil
	c.ScoringErr = nil
	c.UpdatedAt = time.Now().UTC()
}
