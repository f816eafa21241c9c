package service

import (
	"regexp"
	"strings"

	"github.com/symptom-triage-server/internal/domain"
)

// IntentCategory tags a conversational utterance that is not a literal
// answer to the current step.
type IntentCategory string

const (
	IntentGreeting    IntentCategory = "greeting"
	IntentFarewell    IntentCategory = "farewell"
	IntentGratitude   IntentCategory = "gratitude"
	IntentApology     IntentCategory = "apology"
	IntentSymptomTalk IntentCategory = "symptom_talk"
	IntentDuration    IntentCategory = "duration_talk"
	IntentSeverity    IntentCategory = "severity_talk"
	IntentTravel      IntentCategory = "travel_talk"
	IntentMedication  IntentCategory = "medication_talk"
	IntentAllergy     IntentCategory = "allergy_talk"
	IntentPregnancy   IntentCategory = "pregnancy_talk"
	IntentLifestyle   IntentCategory = "lifestyle_talk"
	IntentAdvice      IntentCategory = "advice_request"
	IntentDiagnosis   IntentCategory = "diagnosis_request"
	IntentEmergency   IntentCategory = "emergency_help"
	IntentConfusion   IntentCategory = "confusion"
	IntentComplaint   IntentCategory = "complaint"
)

// intentRule pairs a compiled predicate with its category. Rules are
// evaluated top-to-bottom and exactly one match is honored per input.
type intentRule struct {
	category IntentCategory
	pattern  *regexp.Regexp
}

// IntentClassifier recognizes conversational intents in free text that the
// active step's validator did not consume. Matching is rule-based on a
// static ordered table; reply phrasing is drawn from a seeded random source
// so output is reproducible in tests.
type IntentClassifier struct {
	rules []intentRule
	rng   *lockedRand
}

// NewIntentClassifier builds the classifier with the canonical rule order.
// The emergency rule is first so cries for help are never shadowed by a
// softer category.
func NewIntentClassifier(rng *lockedRand) *IntentClassifier {
	compile := func(cat IntentCategory, expr string) intentRule {
		return intentRule{category: cat, pattern: regexp.MustCompile(expr)}
	}
	return &IntentClassifier{
		rng: rng,
		rules: []intentRule{
			compile(IntentEmergency, `\b(emergency|call (an )?ambulance|can'?t breathe|dying|911)\b`),
			compile(IntentGreeting, `\b(hi|hello|hey|good (morning|afternoon|evening)|how are you)\b`),
			compile(IntentFarewell, `\b(bye|goodbye|see you|farewell|talk (to you )?later)\b`),
			compile(IntentGratitude, `\b(thanks|thank you|thx|appreciate)\b`),
			compile(IntentApology, `\b(sorry|my bad|apologi[sz]e)\b`),
			compile(IntentSymptomTalk, `\b(i feel|i have|feeling|hurts?|pains?|sick|unwell|aches?|symptoms?)\b`),
			compile(IntentDuration, `\b(since|for the (last|past)|days? ago|weeks? ago|how long)\b`),
			compile(IntentSeverity, `\b(really bad|terrible|awful|unbearable|getting worse|mild|severe)\b`),
			compile(IntentTravel, `\b(travel(l?ed|ing)?|trip|abroad|flew|visited)\b`),
			compile(IntentMedication, `\b(medicines?|medications?|tablets?|pills?|drugs?|prescri(bed|ption)|antibiotics?)\b`),
			compile(IntentAllergy, `\b(allerg(y|ic|ies))\b`),
			compile(IntentPregnancy, `\b(pregnan(t|cy)|expecting a baby|trimester)\b`),
			compile(IntentLifestyle, `\b(smok(e|ing)|drink(ing)?|alcohol|exercise|diet|sleep)\b`),
			compile(IntentAdvice, `\b(what should i do|should i|any advice|recommend|help me)\b`),
			compile(IntentDiagnosis, `\b(what do i have|what is wrong|diagnos(e|is)|what'?s causing)\b`),
			compile(IntentConfusion, `\b(confused|don'?t understand|what do you mean|huh|unclear)\b`),
			compile(IntentComplaint, `\b(useless|not helping|waste of time|stupid|annoying)\b`),
		},
	}
}

// Classify returns the first matching category in table order.
func (c *IntentClassifier) Classify(input string) (IntentCategory, bool) {
	lowered := strings.ToLower(input)
	for _, rule := range c.rules {
		if rule.pattern.MatchString(lowered) {
			return rule.category, true
		}
	}
	return "", false
}

// replyVariants holds the canned phrasings per category. The final reply is
// composed by the intake service, which appends the current step's prompt.
var replyVariants = map[IntentCategory][]string{
	IntentGreeting: {
		"Hello! Let's continue with your health check.",
		"Hi there! Picking up where we left off.",
	},
	IntentFarewell: {
		"Take care! You can come back and finish the check anytime.",
		"Goodbye! Your answers so far are kept for this session.",
	},
	IntentGratitude: {
		"You're welcome!",
		"Happy to help!",
	},
	IntentApology: {
		"No problem at all.",
		"Nothing to apologize for.",
	},
	IntentSymptomTalk: {
		"I'll note symptoms at the symptoms step.",
		"Symptom details are collected at the symptoms step.",
	},
	IntentDuration: {
		"Duration is recorded at its own step.",
		"I'll ask how long this has lasted shortly.",
	},
	IntentSeverity: {
		"Severity is recorded at its own step.",
		"I'll ask how severe it feels shortly.",
	},
	IntentTravel: {
		"Travel history is recorded at its own step.",
		"I'll ask about recent travel shortly.",
	},
	IntentMedication: {
		"Medication history is recorded at its own step.",
		"I'll ask about medications shortly.",
	},
	IntentAllergy: {
		"I don't collect allergy details, but do mention them to a doctor.",
	},
	IntentPregnancy: {
		"Pregnancy is important context to mention to a doctor; this check does not account for it.",
	},
	IntentLifestyle: {
		"Lifestyle factors like smoking are covered under risk factors.",
	},
	IntentAdvice: {
		"I can only suggest possibilities once the check is complete.",
		"Let's finish the questions first, then I'll show likely conditions.",
	},
	IntentDiagnosis: {
		"I'll estimate likely conditions once all questions are answered.",
		"A ranked list of possibilities comes at the end of the check.",
	},
	IntentEmergency: {
		"If this is an emergency, stop and call your local emergency number now.",
	},
	IntentConfusion: {
		"Let me rephrase.",
		"No worries, let's try again.",
	},
	IntentComplaint: {
		"Sorry about that. Let's keep it simple.",
	},
}

// stepIntents maps each step to the category it collects, so an utterance
// about the topic of the current step re-emits that step's prompt instead
// of a generic acknowledgment.
var stepIntents = map[domain.Step]IntentCategory{
	domain.StepSymptoms:     IntentSymptomTalk,
	domain.StepDuration:     IntentDuration,
	domain.StepDurationUnit: IntentDuration,
	domain.StepSeverity:     IntentSeverity,
	domain.StepTravelRegion: IntentTravel,
	domain.StepDrugHistory:  IntentMedication,
	domain.StepRiskFactors:  IntentLifestyle,
}

// Reply returns the canned text for a category in the context of the
// current step. The second return is true when the reply should be followed
// by the current step's prompt (the utterance was about the step's own
// topic, or the category invites continuing).
func (c *IntentClassifier) Reply(category IntentCategory, step domain.Step) (string, bool) {
	if stepIntents[step] == category {
		// On-topic for the active step: just re-ask the question.
		return "", true
	}

	variants := replyVariants[category]
	if len(variants) == 0 {
		return "", true
	}
	text := variants[c.rng.Intn(len(variants))]

	switch category {
	case IntentFarewell, IntentEmergency:
		return text, false
	default:
		return text, true
	}
}
