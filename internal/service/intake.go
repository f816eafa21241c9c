package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/refdata"
)

// Transition is the outcome of feeding one user input to the state machine.
type Transition struct {
	Reply      string                `json:"reply"`
	Step       domain.Step           `json:"step"`
	Terminal   bool                  `json:"terminal"`
	Report     *domain.Report        `json:"report,omitempty"`
	ScoringErr *domain.ScoringError  `json:"scoring_error,omitempty"`
	Profile    domain.PatientProfile `json:"profile"`
}

// IntakeService drives the guided intake conversation: it validates and
// normalizes each answer, advances the step sequence, absorbs
// conversational noise via the intent classifier, and on the terminal step
// invokes the scoring engine. Invalid input never aborts a session; it
// re-emits the step's prompt and leaves state untouched.
type IntakeService struct {
	logger  *logrus.Logger
	store   *refdata.Store
	engine  *ScoringEngine
	intents *IntentClassifier
	rng     *lockedRand
}

var integerPattern = regexp.MustCompile(`\d+`)

// NewIntakeService creates the intake service. The seed fixes prompt
// phrasing selection so tests can assert exact output.
func NewIntakeService(logger *logrus.Logger, store *refdata.Store, engine *ScoringEngine, seed int64) *IntakeService {
	rng := newLockedRand(seed)
	return &IntakeService{
		logger:  logger,
		store:   store,
		engine:  engine,
		intents: NewIntentClassifier(rng),
		rng:     rng,
	}
}

// Begin emits the welcome prompt into a fresh session's transcript and
// returns it.
func (s *IntakeService) Begin(state *domain.ConversationState) string {
	prompt := s.prompt(state.CurrentStep)
	state.Append(domain.RoleAssistant, prompt)
	return prompt
}

// Advance feeds one user input to the state machine and returns the
// resulting transition. The state is mutated in place under a single-owner
// discipline; callers must not share one ConversationState across
// goroutines without their own synchronization.
func (s *IntakeService) Advance(state *domain.ConversationState, input string) *Transition {
	if state.Completed {
		reply := "This session is complete. Start a new session for another check."
		return s.finish(state, reply, true)
	}

	state.Append(domain.RoleUser, input)
	trimmed := strings.TrimSpace(input)
	lowered := strings.ToLower(trimmed)

	reply, consumed := s.handleStep(state, trimmed, lowered)
	if !consumed {
		reply = s.converse(state, trimmed)
	}

	terminal := state.Completed
	return s.finish(state, reply, terminal)
}

func (s *IntakeService) finish(state *domain.ConversationState, reply string, terminal bool) *Transition {
	state.Append(domain.RoleAssistant, reply)
	return &Transition{
		Reply:      reply,
		Step:       state.CurrentStep,
		Terminal:   terminal,
		Report:     state.Report,
		ScoringErr: state.ScoringErr,
		Profile:    *state.Profile,
	}
}

// handleStep runs the active step's direct validator. The second return is
// false when the validator did not consume the input, in which case the
// intent pass takes over.
func (s *IntakeService) handleStep(state *domain.ConversationState, input, lowered string) (string, bool) {
	switch state.CurrentStep {
	case domain.StepWelcome:
		return s.handleWelcome(state, lowered)
	case domain.StepGender:
		return s.handleGender(state, lowered)
	case domain.StepAge:
		return s.handleAge(state, input)
	case domain.StepSymptoms:
		return s.handleSymptoms(state, lowered)
	case domain.StepDuration:
		return s.handleDuration(state, input)
	case domain.StepDurationUnit:
		return s.handleDurationUnit(state, lowered)
	case domain.StepSeverity:
		return s.handleSeverity(state, lowered)
	case domain.StepTravelRegion:
		return s.handleTravelRegion(state, lowered)
	case domain.StepRiskFactors:
		return s.handleRiskFactors(state, lowered)
	case domain.StepDrugHistory:
		return s.handleDrugHistory(state, lowered)
	default:
		return "", false
	}
}

// converse is the secondary pass for input the step validator rejected:
// one intent match in table order, or the generic fallback. Neither
// advances the step or touches the profile.
func (s *IntakeService) converse(state *domain.ConversationState, input string) string {
	if category, ok := s.intents.Classify(input); ok {
		text, withPrompt := s.intents.Reply(category, state.CurrentStep)
		if !withPrompt {
			return text
		}
		if text == "" {
			return s.prompt(state.CurrentStep)
		}
		return text + " " + s.prompt(state.CurrentStep)
	}
	return "I didn't quite understand that. " + s.prompt(state.CurrentStep)
}

// advance moves to the next step and returns its prompt, prefixed by an
// acknowledgment when one is given.
func (s *IntakeService) advance(state *domain.ConversationState, ack string) string {
	state.CurrentStep = state.CurrentStep.Next()
	prompt := s.prompt(state.CurrentStep)
	if ack == "" {
		return prompt
	}
	return ack + " " + prompt
}

func (s *IntakeService) handleWelcome(state *domain.ConversationState, lowered string) (string, bool) {
	switch lowered {
	case "start":
		return s.advance(state, "Great, let's begin."), true
	case "help":
		return "I'll ask a short series of questions about you and your symptoms, " +
			"then estimate which conditions could explain them. Type 'start' when you're ready.", true
	default:
		return "", false
	}
}

func (s *IntakeService) handleGender(state *domain.ConversationState, lowered string) (string, bool) {
	// "female" before "male": the substring pass would otherwise find
	// "male" inside "female".
	match, ok := matchVocabulary(lowered, []string{"female", "male", "other"})
	if !ok {
		return "", false
	}
	state.Profile.Gender = domain.Gender(capitalizeFirst(match))
	return s.advance(state, "Thanks."), true
}

func (s *IntakeService) handleAge(state *domain.ConversationState, input string) (string, bool) {
	value, found := firstInteger(input)
	if !found {
		return "", false
	}
	if value < 1 || value > 120 {
		return fmt.Sprintf("An age of %d doesn't look right; please enter a value between 1 and 120.", value), true
	}
	state.Profile.Age = value
	return s.advance(state, "Got it."), true
}

func (s *IntakeService) handleSymptoms(state *domain.ConversationState, lowered string) (string, bool) {
	if lowered == "done" {
		if len(state.Profile.Symptoms) < domain.MinSymptoms {
			return fmt.Sprintf("I need at least %d symptoms before we can continue. You've told me %d so far.",
				domain.MinSymptoms, len(state.Profile.Symptoms)), true
		}
		return s.advance(state, "Thanks for the symptom details."), true
	}

	// Catalogue-substring policy: every catalogue entry contained in the
	// input is added, so "feverish with a cough" records fever and cough.
	added := make([]string, 0, 2)
	for _, symptom := range s.store.SymptomCatalogue() {
		if strings.Contains(lowered, symptom) {
			if state.Profile.AddSymptom(symptom) {
				added = append(added, symptom)
			}
		}
	}

	if len(added) == 0 {
		// Conversational noise goes to the intent pass; anything else is
		// recorded verbatim as a custom symptom.
		if category, ok := s.intents.Classify(lowered); ok && category != IntentSymptomTalk {
			return "", false
		}
		if lowered == "" {
			return "", false
		}
		if state.Profile.AddSymptom(lowered) {
			added = append(added, lowered)
		} else {
			return fmt.Sprintf("I already have %q. %s", lowered, s.prompt(domain.StepSymptoms)), true
		}
	}

	return fmt.Sprintf("Noted: %s. Add another symptom, or type 'done' when finished.",
		strings.Join(added, ", ")), true
}

func (s *IntakeService) handleDuration(state *domain.ConversationState, input string) (string, bool) {
	value, found := firstInteger(input)
	if !found {
		return "", false
	}
	if value <= 0 {
		return "The duration has to be a positive number. How long have you had these symptoms?", true
	}
	state.Profile.DurationValue = value
	return s.advance(state, "Okay."), true
}

func (s *IntakeService) handleDurationUnit(state *domain.ConversationState, lowered string) (string, bool) {
	match, ok := matchVocabulary(lowered, []string{"day", "week", "month"})
	if !ok {
		return "", false
	}
	units := map[string]domain.DurationUnit{
		"day":   domain.DAYS,
		"week":  domain.WEEKS,
		"month": domain.MONTHS,
	}
	state.Profile.DurationUnit = units[match]
	return s.advance(state, "Noted."), true
}

func (s *IntakeService) handleSeverity(state *domain.ConversationState, lowered string) (string, bool) {
	match, ok := matchVocabulary(lowered, []string{"mild", "moderate", "severe"})
	if !ok {
		return "", false
	}
	state.Profile.Severity = domain.Severity(capitalizeFirst(match))
	return s.advance(state, "Understood."), true
}

func (s *IntakeService) handleTravelRegion(state *domain.ConversationState, lowered string) (string, bool) {
	vocab := []string{"none"}
	canonical := map[string]string{"none": domain.TravelNone}
	for _, region := range s.store.TravelRegions() {
		key := strings.ToLower(region)
		vocab = append(vocab, key)
		canonical[key] = region
	}

	match, ok := matchVocabulary(lowered, vocab)
	if !ok {
		return "", false
	}
	state.Profile.TravelRegion = canonical[match]
	return s.advance(state, "Thanks."), true
}

func (s *IntakeService) handleRiskFactors(state *domain.ConversationState, lowered string) (string, bool) {
	switch lowered {
	case "none", "skip":
		state.Profile.ClearRiskFactors()
		return s.advance(state, "No risk factors recorded."), true
	case "done":
		return s.advance(state, "Risk factors noted."), true
	}

	added := make([]string, 0, 2)
	for _, factor := range s.store.RiskFactorVocabulary() {
		if strings.Contains(lowered, factor) {
			if state.Profile.AddRiskFactor(factor) {
				added = append(added, factor)
			}
		}
	}
	if len(added) == 0 {
		return "", false
	}
	return fmt.Sprintf("Added: %s. Mention more risk factors, or type 'done' to continue ('none' clears them).",
		strings.Join(added, ", ")), true
}

func (s *IntakeService) handleDrugHistory(state *domain.ConversationState, lowered string) (string, bool) {
	vocab := []string{"none"}
	canonical := map[string]string{"none": domain.DrugHistoryNone}
	for _, option := range s.store.DrugHistoryOptions() {
		key := strings.ToLower(option)
		vocab = append(vocab, key)
		canonical[key] = option
	}

	match, ok := matchVocabulary(lowered, vocab)
	if !ok {
		return "", false
	}
	state.Profile.DrugHistory = canonical[match]
	return s.submit(state), true
}

// submit fires the terminal step: the completed profile is handed to the
// scoring engine exactly once and the session stops accepting input. A
// scoring error ends the analysis with an explanation but the collected
// profile stays on the session.
func (s *IntakeService) submit(state *domain.ConversationState) string {
	state.CurrentStep = domain.StepSubmit
	state.Completed = true

	report, err := s.engine.Score(state.Profile.Clone())
	if err != nil {
		se, _ := domain.IsScoringError(err)
		state.ScoringErr = se
		s.logger.WithFields(logrus.Fields{
			"session": state.ID,
			"code":    se.Code,
		}).Warn("Scoring failed for completed intake")
		return "I couldn't compute a diagnosis from your answers: " + se.Message +
			". Your answers are kept on this session."
	}

	state.Report = report
	s.logger.WithFields(logrus.Fields{
		"session": state.ID,
		"results": len(report.Detailed),
	}).Info("Intake completed with diagnosis report")

	return s.formatReport(report)
}

// formatReport renders the ranked list for the conversational reply. The
// structured report travels on the transition for richer callers.
func (s *IntakeService) formatReport(report *domain.Report) string {
	var b strings.Builder
	if report.Advisory != "" {
		b.WriteString(report.Advisory)
		b.WriteString(" ")
	}
	b.WriteString("Based on your answers, the most likely conditions are: ")
	for i, result := range report.Detailed {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%.1f%%, %s confidence)", result.Diagnosis, result.Probability, result.Confidence)
		if i == 2 {
			break
		}
	}
	b.WriteString(". This is not a medical diagnosis; please consult a doctor.")
	return b.String()
}

// prompt returns the active step's question, with phrasing drawn from the
// seeded random source and option lists appended for enumerated steps.
func (s *IntakeService) prompt(step domain.Step) string {
	variants := promptVariants[step]
	text := variants[s.rng.Intn(len(variants))]

	switch step {
	case domain.StepTravelRegion:
		return text + " Options: None, " + strings.Join(s.store.TravelRegions(), ", ") + "."
	case domain.StepRiskFactors:
		return text + " Known factors: " + strings.Join(s.store.RiskFactorVocabulary(), ", ") +
			". Say 'none' to skip or 'done' when finished."
	case domain.StepDrugHistory:
		return text + " Options: None, " + strings.Join(s.store.DrugHistoryOptions(), ", ") + "."
	default:
		return text
	}
}

var promptVariants = map[domain.Step][]string{
	domain.StepWelcome: {
		"Welcome to the symptom checker. Type 'start' to begin, or 'help' to learn how this works.",
		"Hello! I can walk you through a quick symptom check. Type 'start' to begin, or 'help' for details.",
	},
	domain.StepGender: {
		"What is your gender? (Male, Female, or Other)",
		"To begin, how do you identify? (Male, Female, or Other)",
	},
	domain.StepAge: {
		"How old are you?",
		"What is your age in years?",
	},
	domain.StepSymptoms: {
		"What symptoms are you experiencing? Tell me one at a time, and type 'done' when finished (at least two).",
		"Describe your symptoms one at a time. Type 'done' once you've listed at least two.",
	},
	domain.StepDuration: {
		"How long have you had these symptoms? Give me a number first; I'll ask for the unit next.",
		"For how long has this been going on? Start with the number.",
	},
	domain.StepDurationUnit: {
		"Is that in days, weeks, or months?",
		"Days, weeks, or months?",
	},
	domain.StepSeverity: {
		"How severe are your symptoms? (Mild, Moderate, or Severe)",
		"Would you call the symptoms mild, moderate, or severe?",
	},
	domain.StepTravelRegion: {
		"Have you travelled recently?",
		"Any recent travel I should know about?",
	},
	domain.StepRiskFactors: {
		"Do any health risk factors apply to you?",
		"Are there risk factors I should record?",
	},
	domain.StepDrugHistory: {
		"Have you taken any medication recently?",
		"Any recent medication history?",
	},
	domain.StepSubmit: {
		"Analyzing your answers...",
	},
}

// matchVocabulary implements the enumerated-step matching contract: an
// exact case-insensitive match wins, otherwise the first vocabulary entry
// contained in the lowered input.
func matchVocabulary(lowered string, vocab []string) (string, bool) {
	for _, entry := range vocab {
		if lowered == entry {
			return entry, true
		}
	}
	for _, entry := range vocab {
		if strings.Contains(lowered, entry) {
			return entry, true
		}
	}
	return "", false
}

// firstInteger extracts the first integer substring of the input.
func firstInteger(input string) (int, bool) {
	match := integerPattern.FindString(input)
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value, true
}

// capitalizeFirst upper-cases the first letter, matching the storage
// convention for enumerated answers.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
