package repository

import (
	"context"
	"fmt"
	"pod360_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewNotificationRepository(db *gorm.DB, rdb *redis.Client) *NotificationRepository {
	return &NotificationRepository{DB: db, RDB: rdb}
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("notif_unread_%d", userID)
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	if err := r.DB.Create(n).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(n.UserID)
	return nil
}

func (r *NotificationRepository) List(userID uint, page, limit int, unreadOnly bool) ([]model.Notification, int64, error) {
	var ns []model.Notification
	var total int64

	query := r.DB.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("`read` = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&ns).Error
	return ns, total, err
}

func (r *NotificationRepository) MarkRead(userID uint, id uint) error {
	now := time.Now()
	err := r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).
		Error
	if err == nil {
		r.invalidateUnreadCount(userID)
	}
	return err
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	now := time.Now()
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).
		Error
	if err == nil {
		r.invalidateUnreadCount(userID)
	}
	return err
}

// UnreadCount serves from Redis when warm, falling back to the database.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if r.RDB != nil {
		if cached, err := r.RDB.Get(ctx, unreadCountKey(userID)).Int64(); err == nil {
			return cached, nil
		}
	}

	var n int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, err
	}

	if r.RDB != nil {
		r.RDB.Set(ctx, unreadCountKey(userID), n, 5*time.Minute)
	}
	return n, nil
}

func (r *NotificationRepository) invalidateUnreadCount(userID uint) {
	if r.RDB != nil {
		r.RDB.Del(context.Background(), unreadCountKey(userID))
	}
}
