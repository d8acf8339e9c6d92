package repository

import (
	"pod360_backend/internal/model"

	"gorm.io/gorm"
)

type InvitationRepository struct {
	DB *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{DB: db}
}

func (r *InvitationRepository) Create(inv *model.Invitation) error {
	return r.DB.Create(inv).Error
}

func (r *InvitationRepository) FindByID(id string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.DB.First(&inv, "id = ?", id).Error
	return &inv, err
}

// InvitationFilter narrows the admin list view.
type InvitationFilter struct {
	Stakeholder string
	Status      string
	Department  string
	Search      string
}

func (r *InvitationRepository) List(page, limit int, filter InvitationFilter) ([]model.Invitation, int64, error) {
	var invs []model.Invitation
	var total int64

	query := r.DB.Model(&model.Invitation{})
	if filter.Stakeholder != "" {
		query = query.Where("stakeholder = ?", filter.Stakeholder)
	}
	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", term, term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("CreatedBy").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&invs).Error
	return invs, total, err
}

func (r *InvitationRepository) Update(inv *model.Invitation) error {
	return r.DB.Save(inv).Error
}

func (r *InvitationRepository) UpdateStatus(id string, status model.InvitationStatus) error {
	return r.DB.Model(&model.Invitation{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *InvitationRepository) Delete(id string) error {
	return r.DB.Delete(&model.Invitation{}, "id = ?", id).Error
}

func (r *InvitationRepository) CountByStatus(status model.InvitationStatus) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Invitation{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
