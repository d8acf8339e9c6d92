package service

import (
	"errors"
	"time"

	"pod360_backend/internal/config"
	"pod360_backend/internal/model"
	"pod360_backend/internal/repository"
	"pod360_backend/internal/util"
	"pod360_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InvitationService struct {
	invites *repository.InvitationRepository
	notifs  *repository.NotificationRepository
	cfg     *config.Config
}

func NewInvitationService(invites *repository.InvitationRepository, notifs *repository.NotificationRepository, cfg *config.Config) *InvitationService {
	return &InvitationService{invites: invites, notifs: notifs, cfg: cfg}
}

type CreateInvitationInput struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Department  string `json:"department"`
	Stakeholder string `json:"stakeholder" binding:"required"`
}

// Create issues an invitation and its signed invite token. The token is
// stored on the row so it can be re-sent; the respondent-facing link is
// assembled by the frontend from the token alone.
func (s *InvitationService) Create(input CreateInvitationInput, createdBy uint) (*model.Invitation, error) {
	role := model.StakeholderRole(input.Stakeholder)
	if !role.Valid() {
		return nil, util.ErrValueInvalid
	}

	now := time.Now()
	inv := &model.Invitation{
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Department:  input.Department,
		Stakeholder: role,
		Status:      model.InvitationPending,
		SentAt:      &now,
		CreatedByID: createdBy,
	}
	inv.ID = model.GenerateUUID()

	token, err := util.GenerateInviteToken(inv, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	inv.Token = token

	if err := s.invites.Create(inv); err != nil {
		return nil, err
	}

	logger.Log.Info("invitation created",
		zap.String("invitation_id", inv.ID),
		zap.String("stakeholder", string(role)),
		zap.String("department", inv.Department))
	return inv, nil
}

func (s *InvitationService) Get(id string) (*model.Invitation, error) {
	inv, err := s.invites.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvitationService) List(page, limit int, filter repository.InvitationFilter) ([]model.Invitation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.invites.List(page, limit, filter)
}

// Revoke blocks the invite token from opening new sessions. Already-persisted
// progress stays in the store; it simply becomes unreachable.
func (s *InvitationService) Revoke(id string, actor *util.Claims) (*model.Invitation, error) {
	inv, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case model.InvitationCompleted:
		return nil, util.ErrInvitationCompleted
	case model.InvitationRevoked:
		return inv, nil
	}

	inv.Status = model.InvitationRevoked
	if err := s.invites.Update(inv); err != nil {
		return nil, err
	}

	if actor != nil && inv.CreatedByID != 0 && inv.CreatedByID != actor.UserID {
		s.notify(inv.CreatedByID, model.NotificationInvitationRevoked,
			"Invitation revoked",
			"The invitation for "+inv.Email+" was revoked.")
	}

	return inv, nil
}

// Resend refreshes the sent timestamp and reissues the token for a pending
// invitation. The old token keeps working until the respondent completes or
// the invitation is revoked; only the latest is stored.
func (s *InvitationService) Resend(id string) (*model.Invitation, error) {
	inv, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case model.InvitationCompleted:
		return nil, util.ErrInvitationCompleted
	case model.InvitationRevoked:
		return nil, util.ErrInvitationRevoked
	}

	token, err := util.GenerateInviteToken(inv, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv.Token = token
	inv.SentAt = &now
	if err := s.invites.Update(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvitationService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.invites.Delete(id)
}

// Stats feeds the dashboard's completion widget.
type InvitationStats struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Revoked   int64 `json:"revoked"`
}

func (s *InvitationService) Stats() (*InvitationStats, error) {
	pending, err := s.invites.CountByStatus(model.InvitationPending)
	if err != nil {
		return nil, err
	}
	completed, err := s.invites.CountByStatus(model.InvitationCompleted)
	if err != nil {
		return nil, err
	}
	revoked, err := s.invites.CountByStatus(model.InvitationRevoked)
	if err != nil {
		return nil, err
	}
	return &InvitationStats{Pending: pending, Completed: completed, Revoked: revoked}, nil
}

func (s *InvitationService) notify(userID uint, kind model.NotificationKind, title, body string) {
	err := s.notifs.Create(&model.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		logger.Log.Warn("failed to create notification", zap.Error(err))
	}
}
