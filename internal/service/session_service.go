package service

import (
	"context"
	"sync"
	"time"

	"pod360_backend/internal/config"
	"pod360_backend/internal/model"
	"pod360_backend/internal/repository"
	"pod360_backend/internal/session"
	"pod360_backend/internal/util"
	"pod360_backend/pkg/logger"
	"pod360_backend/pkg/monitoring"
	"pod360_backend/pkg/tracing"

	"go.uber.org/zap"
)

// SessionService drives the assessment-taking flow: it resolves the invite
// token, loads the question list from the upstream bank, applies answers
// through the state machine and keeps the progress store in sync so a
// respondent can close the tab and resume where they left off.
type SessionService struct {
	bank     QuestionBank
	store    repository.ProgressStore
	invites  *repository.InvitationRepository
	notifs   *repository.NotificationRepository
	orgstats *repository.OrgStatRepository
	cfg      *config.Config

	mu       sync.Mutex
	sessions map[string]*liveSession
	inflight map[string]bool
}

// liveSession is the in-memory side of one respondent's run. The durable
// side (cursor + answers) lives in the progress store; everything else is
// rebuilt from the token and the question bank on demand.
type liveSession struct {
	mu           sync.Mutex
	role         model.StakeholderRole
	assessmentID string
	invitationID string
	prefill      model.FinalizationProfile
	questions    []model.Question
	state        *session.State
}

// SessionView is the session snapshot returned to the respondent UI.
type SessionView struct {
	Role          model.StakeholderRole     `json:"role"`
	Phase         session.Phase             `json:"phase"`
	Index         int                       `json:"index"`
	Total         int                       `json:"total"`
	AnsweredCount int                       `json:"answeredCount"`
	AssessmentID  string                    `json:"assessmentId,omitempty"`
	Question      *model.Question           `json:"question,omitempty"`
	Saved         *model.Answer             `json:"saved,omitempty"`
	Profile       model.FinalizationProfile `json:"profile"`
}

func NewSessionService(
	bank QuestionBank,
	store repository.ProgressStore,
	invites *repository.InvitationRepository,
	notifs *repository.NotificationRepository,
	orgstats *repository.OrgStatRepository,
	cfg *config.Config,
) *SessionService {
	return &SessionService{
		bank:     bank,
		store:    store,
		invites:  invites,
		notifs:   notifs,
		orgstats: orgstats,
		cfg:      cfg,
		sessions: make(map[string]*liveSession),
		inflight: make(map[string]bool),
	}
}

// Bootstrap opens (or re-opens) a session for the given invite token. A
// token that fails to decode is not fatal: the respondent proceeds with the
// default role and no prefill. An upstream failure while fetching questions
// leaves an empty question list so the caller can render a retry state.
func (s *SessionService) Bootstrap(ctx context.Context, token string) (*SessionView, error) {
	ls, err := s.open(ctx, token)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	return s.view(ls), nil
}

// Current returns the session snapshot without mutating anything.
func (s *SessionService) Current(ctx context.Context, token string) (*SessionView, error) {
	ls, err := s.ensure(ctx, token)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	return s.view(ls), nil
}

// Answer records a value for the question under the cursor and advances.
// From the last question it instead submits the full answer set upstream and,
// on acceptance, moves the session to the finalization step. On a rejected
// submission the recorded answers are untouched so nothing is lost.
func (s *SessionService) Answer(ctx context.Context, token string, value model.AnswerValue, comment string) (*SessionView, error) {
	ls, err := s.ensure(ctx, token)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if len(ls.questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	q, ok := ls.state.Current(ls.questions)
	if !ok {
		return nil, util.ErrSessionSubmitted
	}

	if err := ls.state.Record(q, ls.assessmentID, value, comment); err != nil {
		return nil, err
	}

	if !ls.state.AtLast(len(ls.questions)) {
		if err := ls.state.Advance(len(ls.questions)); err != nil {
			return nil, err
		}
		s.persist(ctx, token, ls)
		return s.view(ls), nil
	}

	// Last question: persist the final answer, then push the whole set
	// upstream before entering finalization.
	s.persist(ctx, token, ls)

	if err := s.beginSubmit(token); err != nil {
		return nil, err
	}
	defer s.endSubmit(token)

	answers := ls.state.OrderedAnswers(ls.questions)
	spanCtx, span := tracing.Tracer.Start(ctx, "session.submit_responses")
	err = s.bank.SubmitResponses(spanCtx, token, answers)
	span.End()
	if err != nil {
		monitoring.SessionSubmissions.WithLabelValues("responses", "failure").Inc()
		logger.Log.Warn("answer set rejected upstream",
			zap.String("invitation_id", ls.invitationID),
			zap.Int("answers", len(answers)),
			zap.Error(err))
		return nil, err
	}

	monitoring.SessionSubmissions.WithLabelValues("responses", "success").Inc()
	ls.state.FinishAnswering()
	return s.view(ls), nil
}

// Previous steps back one question; from the finalization step it returns to
// the last question with the saved answer prefilled.
func (s *SessionService) Previous(ctx context.Context, token string) (*SessionView, error) {
	ls, err := s.ensure(ctx, token)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := ls.state.Retreat(len(ls.questions)); err != nil {
		return nil, err
	}
	return s.view(ls), nil
}

// Finalize submits the identity profile to the terminal endpoint. The
// profile is checked locally before any network call. On acceptance the
// persisted progress is cleared, the invitation is marked completed and
// summary rows are written for reporting.
func (s *SessionService) Finalize(ctx context.Context, token string, profile model.FinalizationProfile) (*SessionView, error) {
	ls, err := s.ensure(ctx, token)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	switch ls.state.Phase {
	case session.PhaseSubmitted:
		return nil, util.ErrSessionSubmitted
	case session.PhaseAnswering:
		return nil, util.ErrNotFinalizing
	}

	if !profile.Complete() {
		return nil, util.ErrProfileIncomplete
	}

	if err := s.beginSubmit(token); err != nil {
		return nil, err
	}
	defer s.endSubmit(token)

	spanCtx, span := tracing.Tracer.Start(ctx, "session.finalize")
	err = s.bank.SubmitFinalization(spanCtx, ls.role, ls.assessmentID, token, profile)
	span.End()
	if err != nil {
		monitoring.SessionSubmissions.WithLabelValues("finalize", "failure").Inc()
		logger.Log.Warn("finalization rejected upstream",
			zap.String("invitation_id", ls.invitationID),
			zap.Error(err))
		return nil, err
	}

	monitoring.SessionSubmissions.WithLabelValues("finalize", "success").Inc()

	if err := s.store.Clear(ctx, token); err != nil {
		logger.Log.Error("failed to clear persisted progress after submission",
			zap.String("invitation_id", ls.invitationID),
			zap.Error(err))
	}

	ls.state.Complete()
	ls.prefill = profile
	s.recordCompletion(ctx, ls, profile)

	return s.view(ls), nil
}

// open builds a live session for the token, merging persisted progress with
// a fresh question list, and registers it for subsequent calls.
func (s *SessionService) open(ctx context.Context, token string) (*liveSession, error) {
	ls := &liveSession{role: model.StakeholderEmployee}

	if token != "" {
		claims, err := util.DecodeInviteToken(token, s.cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("invite token did not decode, using default role", zap.Error(err))
		} else {
			if claims.Stakeholder.Valid() {
				ls.role = claims.Stakeholder
			}
			ls.invitationID = claims.InvitationID
			ls.prefill = model.FinalizationProfile{
				FirstName:  claims.FirstName,
				LastName:   claims.LastName,
				Email:      claims.Email,
				Department: claims.Department,
			}
		}
	}

	if ls.invitationID != "" && s.invites != nil {
		if inv, err := s.invites.FindByID(ls.invitationID); err == nil {
			switch inv.Status {
			case model.InvitationRevoked:
				return nil, util.ErrInvitationRevoked
			case model.InvitationCompleted:
				ls.state = session.New()
				ls.state.Complete()
				s.register(token, ls)
				return ls, nil
			}
		}
	}

	questions, assessmentID, err := s.bank.FetchQuestions(ctx, ls.role, token)
	if err != nil {
		logger.Log.Warn("question fetch failed, session opens empty",
			zap.String("role", string(ls.role)),
			zap.Error(err))
		questions = nil
	}
	ls.questions = questions
	ls.assessmentID = assessmentID

	progress, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	ls.state = session.Restore(progress, ls.questions)

	s.register(token, ls)
	return ls, nil
}

// ensure returns the registered live session, opening one implicitly when
// the process restarted between calls.
func (s *SessionService) ensure(ctx context.Context, token string) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.sessions[token]
	s.mu.Unlock()
	if ok {
		return ls, nil
	}
	return s.open(ctx, token)
}

func (s *SessionService) register(token string, ls *liveSession) {
	s.mu.Lock()
	s.sessions[token] = ls
	s.mu.Unlock()
}

// persist rewrites both progress slots. A store failure is logged but does
// not fail the step: the in-memory session stays authoritative and the next
// successful write catches up.
func (s *SessionService) persist(ctx context.Context, token string, ls *liveSession) {
	if err := s.store.Set(ctx, token, ls.state.Snapshot()); err != nil {
		logger.Log.Warn("progress persistence failed",
			zap.String("invitation_id", ls.invitationID),
			zap.Error(err))
	}
}

func (s *SessionService) beginSubmit(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[token] {
		return util.ErrSessionBusy
	}
	s.inflight[token] = true
	return nil
}

func (s *SessionService) endSubmit(token string) {
	s.mu.Lock()
	delete(s.inflight, token)
	s.mu.Unlock()
}

// recordCompletion performs the post-submission bookkeeping: invitation
// status, reporting summaries and the creator's notification. Failures here
// are logged only; the respondent's submission already succeeded.
func (s *SessionService) recordCompletion(ctx context.Context, ls *liveSession, profile model.FinalizationProfile) {
	rows := make([]model.ResponseSummary, 0, len(ls.state.Answers))
	for _, a := range ls.state.OrderedAnswers(ls.questions) {
		rows = append(rows, model.ResponseSummary{
			InvitationID: ls.invitationID,
			Stakeholder:  ls.role,
			Department:   profile.Department,
			QuestionID:   a.QuestionID,
			QuestionCode: a.QuestionCode,
			QuestionType: questionTypeOf(ls.questions, a.QuestionID),
			ScalarValue:  a.Value.Scalar,
			ChoiceValue:  a.Value.Choice,
			HasComment:   a.Comment != "",
		})
	}
	if s.orgstats != nil {
		if err := s.orgstats.CreateSummaries(rows); err != nil {
			logger.Log.Error("failed to write response summaries",
				zap.String("invitation_id", ls.invitationID),
				zap.Error(err))
		}
	}

	if ls.invitationID == "" || s.invites == nil {
		return
	}

	inv, err := s.invites.FindByID(ls.invitationID)
	if err != nil {
		logger.Log.Warn("completed session has no invitation row",
			zap.String("invitation_id", ls.invitationID),
			zap.Error(err))
		return
	}

	now := time.Now()
	inv.Status = model.InvitationCompleted
	inv.CompletedAt = &now
	if err := s.invites.Update(inv); err != nil {
		logger.Log.Error("failed to mark invitation completed",
			zap.String("invitation_id", ls.invitationID),
			zap.Error(err))
	}

	if s.notifs != nil && inv.CreatedByID != 0 {
		n := &model.Notification{
			UserID: inv.CreatedByID,
			Kind:   model.NotificationInvitationCompleted,
			Title:  "Assessment completed",
			Body:   profile.FirstName + " " + profile.LastName + " (" + string(ls.role) + ") submitted their assessment.",
		}
		if err := s.notifs.Create(n); err != nil {
			logger.Log.Warn("failed to create completion notification", zap.Error(err))
		}
	}
}

func questionTypeOf(questions []model.Question, id string) model.QuestionType {
	for _, q := range questions {
		if q.ID == id {
			return q.Type
		}
	}
	return ""
}

func (s *SessionService) view(ls *liveSession) *SessionView {
	v := &SessionView{
		Role:          ls.role,
		Phase:         ls.state.Phase,
		Index:         ls.state.Index,
		Total:         len(ls.questions),
		AnsweredCount: len(ls.state.Answers),
		AssessmentID:  ls.assessmentID,
		Profile:       ls.prefill,
	}

	if q, ok := ls.state.Current(ls.questions); ok {
		question := q
		v.Question = &question
		if saved, ok := ls.state.Prefill(q); ok {
			answer := saved
			v.Saved = &answer
		}
	}

	return v
}
