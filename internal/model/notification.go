package model

import "time"

type NotificationKind string

const (
	NotificationInvitationCompleted NotificationKind = "invitation_completed"
	NotificationInvitationRevoked   NotificationKind = "invitation_revoked"
	NotificationReportReady         NotificationKind = "report_ready"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Kind   NotificationKind `gorm:"size:50;not null" json:"kind"`
	Title  string           `gorm:"size:255;not null" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	Read   bool             `gorm:"default:false;index" json:"read"`
	ReadAt *time.Time       `json:"readAt,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
