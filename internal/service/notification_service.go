package service

import (
	"context"

	"pod360_backend/internal/model"
	"pod360_backend/internal/repository"
)

type NotificationService struct {
	notifs *repository.NotificationRepository
}

func NewNotificationService(notifs *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifs: notifs}
}

func (s *NotificationService) List(userID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.notifs.List(userID, page, limit, unreadOnly)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	return s.notifs.MarkRead(userID, id)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notifs.MarkAllRead(userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifs.UnreadCount(ctx, userID)
}
