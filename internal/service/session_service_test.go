package service

import (
	"context"
	"errors"
	"testing"

	"pod360_backend/internal/config"
	"pod360_backend/internal/model"
	"pod360_backend/internal/repository"
	"pod360_backend/internal/session"
	"pod360_backend/internal/util"
	"pod360_backend/pkg/logger"

	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

// fakeBank scripts the upstream question bank for session flow tests.
type fakeBank struct {
	questions    []model.Question
	assessmentID string
	fetchErr     error
	responsesErr error
	finalizeErr  error

	submitted [][]model.Answer
	finalized []model.FinalizationProfile
}

func (b *fakeBank) FetchQuestions(ctx context.Context, role model.StakeholderRole, token string) ([]model.Question, string, error) {
	if b.fetchErr != nil {
		return nil, "", b.fetchErr
	}
	return b.questions, b.assessmentID, nil
}

func (b *fakeBank) SubmitResponses(ctx context.Context, token string, answers []model.Answer) error {
	if b.responsesErr != nil {
		return b.responsesErr
	}
	b.submitted = append(b.submitted, answers)
	return nil
}

func (b *fakeBank) SubmitFinalization(ctx context.Context, role model.StakeholderRole, assessmentID, token string, profile model.FinalizationProfile) error {
	if b.finalizeErr != nil {
		return b.finalizeErr
	}
	b.finalized = append(b.finalized, profile)
	return nil
}

func sessionQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Stem: "first", Code: "C1", Type: model.QuestionScalar},
		{ID: "q2", Stem: "second", Type: model.QuestionForcedChoice, ForcedChoice: &model.ForcedChoice{
			OptionA:     model.ForcedOption{Label: "a"},
			OptionB:     model.ForcedOption{Label: "b"},
			HigherValue: "A",
		}},
		{ID: "q3", Stem: "third", Code: "C3", Type: model.QuestionScalar},
	}
}

func newTestSessionService(bank QuestionBank) (*SessionService, *repository.MemoryProgressStore) {
	store := repository.NewMemoryProgressStore()
	cfg := &config.Config{}
	cfg.JWT.Secret = "session-test-secret"
	return NewSessionService(bank, store, nil, nil, nil, cfg), store
}

func defaultBank() *fakeBank {
	return &fakeBank{questions: sessionQuestions(), assessmentID: "run-1"}
}

func TestBootstrapFreshSession(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())

	view, err := svc.Bootstrap(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}
	if view.Phase != session.PhaseAnswering || view.Index != 0 || view.Total != 3 {
		t.Fatalf("view = %+v", view)
	}
	if view.Role != model.StakeholderEmployee {
		t.Fatalf("Role = %s, want default employee", view.Role)
	}
	if view.Question == nil || view.Question.ID != "q1" {
		t.Fatalf("Question = %+v", view.Question)
	}
	if view.AssessmentID != "run-1" {
		t.Fatalf("AssessmentID = %s", view.AssessmentID)
	}
}

func TestBootstrapDecodesInviteToken(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())

	inv := &model.Invitation{
		Email:       "sam@example.com",
		FirstName:   "Sam",
		LastName:    "Chen",
		Department:  "Engineering",
		Stakeholder: model.StakeholderManager,
	}
	inv.ID = model.GenerateUUID()
	token, err := util.GenerateInviteToken(inv, "session-test-secret")
	if err != nil {
		t.Fatalf("GenerateInviteToken() = %v", err)
	}

	view, err := svc.Bootstrap(context.Background(), token)
	if err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}
	if view.Role != model.StakeholderManager {
		t.Fatalf("Role = %s, want manager", view.Role)
	}
	if view.Profile.FirstName != "Sam" || view.Profile.Department != "Engineering" {
		t.Fatalf("Profile = %+v", view.Profile)
	}
}

func TestBootstrapBadTokenFallsBackToDefaultRole(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())

	view, err := svc.Bootstrap(context.Background(), "not-a-jwt")
	if err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}
	if view.Role != model.StakeholderEmployee {
		t.Fatalf("Role = %s, want employee", view.Role)
	}
}

func TestBootstrapSurvivesQuestionFetchFailure(t *testing.T) {
	bank := defaultBank()
	bank.fetchErr = errors.New("bank unreachable")
	svc, _ := newTestSessionService(bank)

	view, err := svc.Bootstrap(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}
	if view.Total != 0 || view.Question != nil {
		t.Fatalf("view = %+v", view)
	}
}

func TestBootstrapResumesPersistedProgress(t *testing.T) {
	svc, store := newTestSessionService(defaultBank())
	ctx := context.Background()

	store.Set(ctx, "tok", session.Progress{
		Index: 1,
		Answers: map[string]model.Answer{
			"q1": {QuestionID: "q1", QuestionCode: "C1", Value: model.ScalarValue(4)},
		},
	})

	view, err := svc.Bootstrap(ctx, "tok")
	if err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}
	if view.Index != 1 || view.AnsweredCount != 1 {
		t.Fatalf("view = index %d answered %d", view.Index, view.AnsweredCount)
	}
	if view.Question == nil || view.Question.ID != "q2" {
		t.Fatalf("Question = %+v", view.Question)
	}
}

func TestAnswerAdvancesAndPersists(t *testing.T) {
	svc, store := newTestSessionService(defaultBank())
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx, "tok"); err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}

	view, err := svc.Answer(ctx, "tok", model.ScalarValue(4), "")
	if err != nil {
		t.Fatalf("Answer() = %v", err)
	}
	if view.Index != 1 || view.Question.ID != "q2" {
		t.Fatalf("view = %+v", view)
	}

	p, _ := store.Get(ctx, "tok")
	if p.Index != 1 {
		t.Fatalf("persisted index = %d", p.Index)
	}
	if p.Answers["q1"].Value.Scalar != 4 {
		t.Fatalf("persisted answers = %+v", p.Answers)
	}
}

func TestAnswerGateBlocksWithoutComment(t *testing.T) {
	svc, store := newTestSessionService(defaultBank())
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx, "tok"); err != nil {
		t.Fatalf("Bootstrap() = %v", err)
	}

	if _, err := svc.Answer(ctx, "tok", model.ScalarValue(2), ""); !errors.Is(err, util.ErrCommentRequired) {
		t.Fatalf("Answer() = %v, want ErrCommentRequired", err)
	}

	// Nothing moved, nothing persisted.
	view, _ := svc.Current(ctx, "tok")
	if view.Index != 0 || view.AnsweredCount != 0 {
		t.Fatalf("view = %+v", view)
	}
	if store.Has("tok") {
		t.Fatal("rejected answer was persisted")
	}
}

func TestAnswerValueRequired(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")

	if _, err := svc.Answer(ctx, "tok", model.AnswerValue{}, ""); !errors.Is(err, util.ErrValueRequired) {
		t.Fatalf("Answer() = %v, want ErrValueRequired", err)
	}
}

// answerAll walks a session through all three questions.
func answerAll(t *testing.T, svc *SessionService, token string) (*SessionView, error) {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.Answer(ctx, token, model.ScalarValue(4), ""); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if _, err := svc.Answer(ctx, token, model.ChoiceValue("B"), ""); err != nil {
		t.Fatalf("answer q2: %v", err)
	}
	return svc.Answer(ctx, token, model.ScalarValue(5), "")
}

func TestLastAnswerSubmitsAndEntersFinalization(t *testing.T) {
	bank := defaultBank()
	svc, _ := newTestSessionService(bank)
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")

	view, err := answerAll(t, svc, "tok")
	if err != nil {
		t.Fatalf("final answer: %v", err)
	}
	if view.Phase != session.PhaseFinalizing {
		t.Fatalf("Phase = %s, want finalizing", view.Phase)
	}

	if len(bank.submitted) != 1 {
		t.Fatalf("submissions = %d", len(bank.submitted))
	}
	answers := bank.submitted[0]
	if len(answers) != 3 || answers[0].QuestionID != "q1" || answers[2].QuestionID != "q3" {
		t.Fatalf("submitted answers = %+v", answers)
	}
	if answers[0].AssessmentID != "run-1" {
		t.Fatalf("assessment id = %s", answers[0].AssessmentID)
	}
}

func TestRejectedSubmissionLosesNothing(t *testing.T) {
	bank := defaultBank()
	bank.responsesErr = &UpstreamError{StatusCode: 422, Message: "rejected"}
	svc, store := newTestSessionService(bank)
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")

	_, err := answerAll(t, svc, "tok")
	if err == nil {
		t.Fatal("final answer succeeded despite upstream rejection")
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Message != "rejected" {
		t.Fatalf("err = %v", err)
	}

	// Still answering on the last question, all answers retained.
	view, _ := svc.Current(ctx, "tok")
	if view.Phase != session.PhaseAnswering || view.Index != 2 || view.AnsweredCount != 3 {
		t.Fatalf("view = %+v", view)
	}

	p, _ := store.Get(ctx, "tok")
	if len(p.Answers) != 3 || p.Index != 2 {
		t.Fatalf("persisted = %+v", p)
	}

	// A retry after the upstream recovers goes through.
	bank.responsesErr = nil
	view, err = svc.Answer(ctx, "tok", model.ScalarValue(5), "")
	if err != nil {
		t.Fatalf("retry = %v", err)
	}
	if view.Phase != session.PhaseFinalizing {
		t.Fatalf("Phase = %s", view.Phase)
	}
}

func TestPreviousFromFinalizationReturnsToLastQuestion(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")
	if _, err := answerAll(t, svc, "tok"); err != nil {
		t.Fatalf("answerAll: %v", err)
	}

	view, err := svc.Previous(ctx, "tok")
	if err != nil {
		t.Fatalf("Previous() = %v", err)
	}
	if view.Phase != session.PhaseAnswering || view.Index != 2 {
		t.Fatalf("view = %+v", view)
	}
	if view.Saved == nil || view.Saved.Value.Scalar != 5 {
		t.Fatalf("Saved = %+v", view.Saved)
	}
}

func TestPreviousAtFirstQuestion(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")

	if _, err := svc.Previous(ctx, "tok"); !errors.Is(err, util.ErrAtFirstQuestion) {
		t.Fatalf("Previous() = %v, want ErrAtFirstQuestion", err)
	}
}

func TestFinalizeRequiresFinalizationPhase(t *testing.T) {
	svc, _ := newTestSessionService(defaultBank())
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")

	profile := model.FinalizationProfile{FirstName: "A", LastName: "B", Email: "a@b.c", Department: "Eng"}
	if _, err := svc.Finalize(ctx, "tok", profile); !errors.Is(err, util.ErrNotFinalizing) {
		t.Fatalf("Finalize() = %v, want ErrNotFinalizing", err)
	}
}

func TestFinalizeRejectsIncompleteProfileLocally(t *testing.T) {
	bank := defaultBank()
	svc, _ := newTestSessionService(bank)
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")
	if _, err := answerAll(t, svc, "tok"); err != nil {
		t.Fatalf("answerAll: %v", err)
	}

	profile := model.FinalizationProfile{FirstName: "A", Email: "a@b.c"}
	if _, err := svc.Finalize(ctx, "tok", profile); !errors.Is(err, util.ErrProfileIncomplete) {
		t.Fatalf("Finalize() = %v, want ErrProfileIncomplete", err)
	}
	if len(bank.finalized) != 0 {
		t.Fatal("incomplete profile reached the upstream")
	}
}

func TestFinalizeCompletesAndClearsProgress(t *testing.T) {
	bank := defaultBank()
	svc, store := newTestSessionService(bank)
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")
	if _, err := answerAll(t, svc, "tok"); err != nil {
		t.Fatalf("answerAll: %v", err)
	}

	profile := model.FinalizationProfile{FirstName: "A", LastName: "B", Email: "a@b.c", Department: "Eng"}
	view, err := svc.Finalize(ctx, "tok", profile)
	if err != nil {
		t.Fatalf("Finalize() = %v", err)
	}
	if view.Phase != session.PhaseSubmitted {
		t.Fatalf("Phase = %s", view.Phase)
	}
	if len(bank.finalized) != 1 || bank.finalized[0] != profile {
		t.Fatalf("finalized = %+v", bank.finalized)
	}
	if store.Has("tok") {
		t.Fatal("persisted progress survived the terminal submission")
	}

	// The session is terminal now.
	if _, err := svc.Answer(ctx, "tok", model.ScalarValue(3), "x"); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Answer() after submit = %v", err)
	}
	if _, err := svc.Finalize(ctx, "tok", profile); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("Finalize() after submit = %v", err)
	}
}

func TestFinalizeFailureKeepsSessionFinalizing(t *testing.T) {
	bank := defaultBank()
	bank.finalizeErr = &UpstreamError{StatusCode: 500, Message: "store offline"}
	svc, store := newTestSessionService(bank)
	ctx := context.Background()
	svc.Bootstrap(ctx, "tok")
	if _, err := answerAll(t, svc, "tok"); err != nil {
		t.Fatalf("answerAll: %v", err)
	}

	profile := model.FinalizationProfile{FirstName: "A", LastName: "B", Email: "a@b.c", Department: "Eng"}
	if _, err := svc.Finalize(ctx, "tok", profile); err == nil {
		t.Fatal("Finalize() succeeded despite upstream failure")
	}

	view, _ := svc.Current(ctx, "tok")
	if view.Phase != session.PhaseFinalizing {
		t.Fatalf("Phase = %s, want finalizing", view.Phase)
	}
	if !store.Has("tok") {
		t.Fatal("progress cleared before a successful submission")
	}
}
