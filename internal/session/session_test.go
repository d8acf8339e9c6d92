package session

import (
	"errors"
	"testing"

	"pod360_backend/internal/model"
	"pod360_backend/internal/util"
)

func scalarQuestion(id, code string) model.Question {
	return model.Question{ID: id, Code: code, Stem: "stem " + id, Type: model.QuestionScalar}
}

func forcedQuestion(id, higher string) model.Question {
	return model.Question{
		ID:   id,
		Stem: "stem " + id,
		Type: model.QuestionForcedChoice,
		ForcedChoice: &model.ForcedChoice{
			OptionA:     model.ForcedOption{Label: "option a"},
			OptionB:     model.ForcedOption{Label: "option b"},
			HigherValue: higher,
		},
	}
}

func testQuestions() []model.Question {
	return []model.Question{
		scalarQuestion("q1", "C1"),
		forcedQuestion("q2", "A"),
		scalarQuestion("q3", "C3"),
	}
}

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		q       model.Question
		value   model.AnswerValue
		comment string
		wantErr error
	}{
		{"empty value", scalarQuestion("q", "C"), model.AnswerValue{}, "", util.ErrValueRequired},
		{"scalar out of range", scalarQuestion("q", "C"), model.ScalarValue(6), "", util.ErrValueInvalid},
		{"scalar zero range", scalarQuestion("q", "C"), model.ScalarValue(-1), "", util.ErrValueInvalid},
		{"choice on scalar question", scalarQuestion("q", "C"), model.ChoiceValue("A"), "", util.ErrValueInvalid},
		{"scalar on forced question", forcedQuestion("q", "A"), model.ScalarValue(3), "", util.ErrValueInvalid},
		{"bad choice letter", forcedQuestion("q", "A"), model.ChoiceValue("C"), "", util.ErrValueInvalid},
		{"low scalar without comment", scalarQuestion("q", "C"), model.ScalarValue(2), "", util.ErrCommentRequired},
		{"low scalar with comment", scalarQuestion("q", "C"), model.ScalarValue(2), "because", nil},
		{"boundary three needs comment", scalarQuestion("q", "C"), model.ScalarValue(3), "", util.ErrCommentRequired},
		{"boundary four passes", scalarQuestion("q", "C"), model.ScalarValue(4), "", nil},
		{"high scalar without comment", scalarQuestion("q", "C"), model.ScalarValue(5), "", nil},
		{"higher-value choice without comment", forcedQuestion("q", "A"), model.ChoiceValue("A"), "", util.ErrCommentRequired},
		{"higher-value choice with comment", forcedQuestion("q", "A"), model.ChoiceValue("A"), "because", nil},
		{"lower-value choice passes", forcedQuestion("q", "A"), model.ChoiceValue("B"), "", nil},
		{"no higher-value designator passes", forcedQuestion("q", ""), model.ChoiceValue("A"), "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswer(tt.q, tt.value, tt.comment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateAnswer() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordAndAdvance(t *testing.T) {
	questions := testQuestions()
	s := New()

	if err := s.Record(questions[0], "a-1", model.ScalarValue(4), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}
	if err := s.Advance(len(questions)); err != nil {
		t.Fatalf("Advance() = %v", err)
	}
	if s.Index != 1 {
		t.Fatalf("Index = %d, want 1", s.Index)
	}

	a := s.Answers["q1"]
	if a.AssessmentID != "a-1" || a.QuestionCode != "C1" || a.Value.Scalar != 4 {
		t.Fatalf("stored answer = %+v", a)
	}
}

func TestRecordOverwritesEarlierAnswer(t *testing.T) {
	questions := testQuestions()
	s := New()

	if err := s.Record(questions[0], "a-1", model.ScalarValue(4), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}
	if err := s.Record(questions[0], "a-1", model.ScalarValue(2), "changed my mind"); err != nil {
		t.Fatalf("Record() second = %v", err)
	}

	a := s.Answers["q1"]
	if a.Value.Scalar != 2 || a.Comment != "changed my mind" {
		t.Fatalf("answer not overwritten: %+v", a)
	}
	if len(s.Answers) != 1 {
		t.Fatalf("len(Answers) = %d, want 1", len(s.Answers))
	}
}

func TestAdvanceRefusesAtLastQuestion(t *testing.T) {
	questions := testQuestions()
	s := New()
	s.Index = len(questions) - 1

	if err := s.Advance(len(questions)); !errors.Is(err, util.ErrNotFinalizing) {
		t.Fatalf("Advance() at last = %v, want ErrNotFinalizing", err)
	}
	if s.Index != len(questions)-1 {
		t.Fatalf("Index moved to %d", s.Index)
	}
}

func TestRetreat(t *testing.T) {
	questions := testQuestions()
	s := New()

	if err := s.Retreat(len(questions)); !errors.Is(err, util.ErrAtFirstQuestion) {
		t.Fatalf("Retreat() at first = %v, want ErrAtFirstQuestion", err)
	}

	s.Index = 2
	if err := s.Retreat(len(questions)); err != nil {
		t.Fatalf("Retreat() = %v", err)
	}
	if s.Index != 1 {
		t.Fatalf("Index = %d, want 1", s.Index)
	}
}

func TestRetreatFromFinalizing(t *testing.T) {
	questions := testQuestions()
	s := New()
	s.Index = len(questions) - 1
	s.FinishAnswering()

	if err := s.Retreat(len(questions)); err != nil {
		t.Fatalf("Retreat() = %v", err)
	}
	if s.Phase != PhaseAnswering {
		t.Fatalf("Phase = %s, want answering", s.Phase)
	}
	if s.Index != len(questions)-1 {
		t.Fatalf("Index = %d, want last", s.Index)
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	questions := testQuestions()
	s := New()
	s.Complete()

	if err := s.Record(questions[0], "a-1", model.ScalarValue(5), ""); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Record() after submit = %v", err)
	}
	if err := s.Advance(len(questions)); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Advance() after submit = %v", err)
	}
	if err := s.Retreat(len(questions)); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Retreat() after submit = %v", err)
	}
}

func TestRestorePrunesUnknownAnswersAndClampsIndex(t *testing.T) {
	questions := testQuestions()
	p := Progress{
		Index: 99,
		Answers: map[string]model.Answer{
			"q1":   {QuestionID: "q1", Value: model.ScalarValue(5)},
			"gone": {QuestionID: "gone", Value: model.ScalarValue(1)},
		},
	}

	s := Restore(p, questions)
	if s.Index != len(questions)-1 {
		t.Fatalf("Index = %d, want clamped to %d", s.Index, len(questions)-1)
	}
	if _, ok := s.Answers["gone"]; ok {
		t.Fatal("answer for removed question survived restore")
	}
	if _, ok := s.Answers["q1"]; !ok {
		t.Fatal("answer for known question dropped")
	}
}

func TestRestoreWithEmptyQuestionList(t *testing.T) {
	p := Progress{Index: 3, Answers: map[string]model.Answer{"q1": {QuestionID: "q1"}}}
	s := Restore(p, nil)
	if s.Index != 0 {
		t.Fatalf("Index = %d, want 0", s.Index)
	}
	if len(s.Answers) != 0 {
		t.Fatalf("len(Answers) = %d, want 0", len(s.Answers))
	}
}

func TestRestoreNegativeIndex(t *testing.T) {
	s := Restore(Progress{Index: -2}, testQuestions())
	if s.Index != 0 {
		t.Fatalf("Index = %d, want 0", s.Index)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	questions := testQuestions()
	s := New()
	if err := s.Record(questions[0], "a-1", model.ScalarValue(5), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}

	snap := s.Snapshot()
	snap.Answers["q1"] = model.Answer{QuestionID: "q1", Value: model.ScalarValue(1)}

	if s.Answers["q1"].Value.Scalar != 5 {
		t.Fatal("mutating the snapshot changed the live state")
	}
}

func TestOrderedAnswersFollowQuestionOrder(t *testing.T) {
	questions := testQuestions()
	s := New()

	// Answer out of order: last question first.
	if err := s.Record(questions[2], "a-1", model.ScalarValue(5), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}
	if err := s.Record(questions[0], "a-1", model.ScalarValue(4), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}

	got := s.OrderedAnswers(questions)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].QuestionID != "q1" || got[1].QuestionID != "q3" {
		t.Fatalf("order = %s, %s", got[0].QuestionID, got[1].QuestionID)
	}
}

func TestCurrentAndPrefill(t *testing.T) {
	questions := testQuestions()
	s := New()

	q, ok := s.Current(questions)
	if !ok || q.ID != "q1" {
		t.Fatalf("Current() = %v, %v", q.ID, ok)
	}

	if err := s.Record(q, "a-1", model.ScalarValue(4), ""); err != nil {
		t.Fatalf("Record() = %v", err)
	}
	if a, ok := s.Prefill(q); !ok || a.Value.Scalar != 4 {
		t.Fatalf("Prefill() = %+v, %v", a, ok)
	}

	s.FinishAnswering()
	if _, ok := s.Current(questions); ok {
		t.Fatal("Current() returned a question while finalizing")
	}
}
