// Package session holds the assessment-taking sequence state machine: a
// cursor over an ordered question list plus the collected answer map. All
// transitions are pure; persistence and network I/O live in the service
// layer so the machine can be exercised without a store or an upstream.
package session

import (
	"pod360_backend/internal/model"
	"pod360_backend/internal/util"
)

type Phase string

const (
	PhaseAnswering  Phase = "answering"
	PhaseFinalizing Phase = "finalizing"
	PhaseSubmitted  Phase = "submitted"
)

// Progress is the durable slice of a session: the cursor and the answer map.
// It is what the progress store serializes per token.
type Progress struct {
	Index   int                     `json:"index"`
	Answers map[string]model.Answer `json:"answers"`
}

// State is the in-memory session. Answers is keyed by question ID.
type State struct {
	Index   int
	Phase   Phase
	Answers map[string]model.Answer
}

func New() *State {
	return &State{
		Phase:   PhaseAnswering,
		Answers: make(map[string]model.Answer),
	}
}

// Restore rebuilds a state from persisted progress against the freshly
// loaded question list. Answers for questions no longer in the list are
// dropped and the cursor is clamped into range, so a stale or corrupt
// snapshot can never produce an invalid state.
func Restore(p Progress, questions []model.Question) *State {
	s := New()

	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for id, a := range p.Answers {
		if known[id] {
			s.Answers[id] = a
		}
	}

	s.Index = p.Index
	if s.Index < 0 {
		s.Index = 0
	}
	if len(questions) > 0 && s.Index > len(questions)-1 {
		s.Index = len(questions) - 1
	}
	if len(questions) == 0 {
		s.Index = 0
	}

	return s
}

// Snapshot copies the durable slice of the state for persistence.
func (s *State) Snapshot() Progress {
	answers := make(map[string]model.Answer, len(s.Answers))
	for id, a := range s.Answers {
		answers[id] = a
	}
	return Progress{Index: s.Index, Answers: answers}
}

// Current returns the question under the cursor.
func (s *State) Current(questions []model.Question) (model.Question, bool) {
	if s.Phase != PhaseAnswering || s.Index < 0 || s.Index >= len(questions) {
		return model.Question{}, false
	}
	return questions[s.Index], true
}

// Prefill returns a previously saved answer for the given question, used to
// repopulate the working fields after a resume or a backward step.
func (s *State) Prefill(q model.Question) (model.Answer, bool) {
	a, ok := s.Answers[q.ID]
	return a, ok
}

// NeedsComment reports whether the selected value requires a non-empty
// justification: scalar answers in the disagree-to-neutral band (1-3), and
// forced-choice answers matching the question's higher-value option. A
// forced-choice question without a higher-value designator never requires
// one.
func NeedsComment(q model.Question, v model.AnswerValue) bool {
	switch q.Type {
	case model.QuestionScalar:
		return v.Scalar >= 1 && v.Scalar <= 3
	case model.QuestionForcedChoice:
		if q.ForcedChoice == nil || q.ForcedChoice.HigherValue == "" {
			return false
		}
		return v.Choice == q.ForcedChoice.HigherValue
	}
	return false
}

// ValidateAnswer is the advance gate: a value must be selected, it must fit
// the question type, and a comment must accompany values that require one.
func ValidateAnswer(q model.Question, v model.AnswerValue, comment string) error {
	if v.IsZero() {
		return util.ErrValueRequired
	}

	switch q.Type {
	case model.QuestionScalar:
		if v.Choice != "" || v.Scalar < 1 || v.Scalar > 5 {
			return util.ErrValueInvalid
		}
	case model.QuestionForcedChoice:
		if v.Scalar != 0 || (v.Choice != "A" && v.Choice != "B") {
			return util.ErrValueInvalid
		}
	default:
		return util.ErrValueInvalid
	}

	if NeedsComment(q, v) && comment == "" {
		return util.ErrCommentRequired
	}

	return nil
}

// Record validates and stores the answer for the question under the cursor,
// overwriting any earlier answer to the same question.
func (s *State) Record(q model.Question, assessmentID string, v model.AnswerValue, comment string) error {
	if s.Phase != PhaseAnswering {
		return util.ErrSessionSubmitted
	}
	if err := ValidateAnswer(q, v, comment); err != nil {
		return err
	}

	s.Answers[q.ID] = model.Answer{
		AssessmentID: assessmentID,
		QuestionID:   q.ID,
		QuestionCode: q.ResolvedCode(),
		Value:        v,
		Comment:      comment,
	}
	return nil
}

// AtLast reports whether the cursor sits on the final question.
func (s *State) AtLast(total int) bool {
	return total > 0 && s.Index == total-1
}

// Advance moves the cursor forward by exactly one. The caller is responsible
// for submitting and calling FinishAnswering instead when AtLast.
func (s *State) Advance(total int) error {
	if s.Phase != PhaseAnswering {
		return util.ErrSessionSubmitted
	}
	if s.Index >= total-1 {
		return util.ErrNotFinalizing
	}
	s.Index++
	return nil
}

// FinishAnswering transitions to the finalization step after the answer set
// has been accepted upstream.
func (s *State) FinishAnswering() {
	s.Phase = PhaseFinalizing
}

// Retreat steps back by one question; from the finalization step it returns
// to the last question without touching the already-submitted answer set.
func (s *State) Retreat(total int) error {
	switch s.Phase {
	case PhaseSubmitted:
		return util.ErrSessionSubmitted
	case PhaseFinalizing:
		s.Phase = PhaseAnswering
		if total > 0 {
			s.Index = total - 1
		}
		return nil
	}
	if s.Index == 0 {
		return util.ErrAtFirstQuestion
	}
	s.Index--
	return nil
}

// Complete marks the terminal state. No transitions leave it.
func (s *State) Complete() {
	s.Phase = PhaseSubmitted
}

// OrderedAnswers returns the collected answers in question order for the
// bulk upstream submission.
func (s *State) OrderedAnswers(questions []model.Question) []model.Answer {
	out := make([]model.Answer, 0, len(s.Answers))
	for _, q := range questions {
		if a, ok := s.Answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
