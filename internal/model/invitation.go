package model

import "time"

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationCompleted InvitationStatus = "completed"
	InvitationRevoked   InvitationStatus = "revoked"
)

// Invitation is one respondent's entry into an assessment run. The token
// column holds the signed invite JWT; the token doubles as the progress
// persistence key while the respondent works through the questions.
// swagger:model Invitation
type Invitation struct {
	UUIDBase
	Email       string           `gorm:"size:100;not null;index" json:"email"`
	FirstName   string           `gorm:"size:100" json:"firstName"`
	LastName    string           `gorm:"size:100" json:"lastName"`
	Department  string           `gorm:"size:100;index" json:"department"`
	Stakeholder StakeholderRole  `gorm:"size:20;not null;index" json:"stakeholder"`
	Token       string           `gorm:"type:text;not null" json:"token"`
	Status      InvitationStatus `gorm:"size:20;default:'pending';index" json:"status"`
	SentAt      *time.Time       `json:"sentAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	CreatedByID uint             `gorm:"index;type:bigint unsigned" json:"createdById"`
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

func (Invitation) TableName() string {
	return "invitations"
}
