package repository

import (
	"pod360_backend/internal/model"

	"gorm.io/gorm"
)

type OrgStatRepository struct {
	DB *gorm.DB
}

func NewOrgStatRepository(db *gorm.DB) *OrgStatRepository {
	return &OrgStatRepository{DB: db}
}

func (r *OrgStatRepository) CreateSummaries(rows []model.ResponseSummary) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Create(&rows).Error
}

// DepartmentStat is one row of the dashboard's org-stat table.
type DepartmentStat struct {
	Department    string  `json:"department"`
	Stakeholder   string  `json:"stakeholder"`
	ResponseCount int64   `json:"responseCount"`
	MeanScalar    float64 `json:"meanScalar"`
	CommentRate   float64 `json:"commentRate"`
}

func (r *OrgStatRepository) DepartmentStats(department, stakeholder string) ([]DepartmentStat, error) {
	var stats []DepartmentStat

	query := r.DB.Model(&model.ResponseSummary{}).
		Select("department, stakeholder, " +
			"COUNT(*) as response_count, " +
			"AVG(NULLIF(scalar_value, 0)) as mean_scalar, " +
			"AVG(has_comment) as comment_rate").
		Group("department, stakeholder")

	if department != "" {
		query = query.Where("department = ?", department)
	}
	if stakeholder != "" {
		query = query.Where("stakeholder = ?", stakeholder)
	}

	err := query.Order("department asc, stakeholder asc").Scan(&stats).Error
	return stats, err
}

// QuestionStat aggregates one question code across the organization.
type QuestionStat struct {
	QuestionCode  string  `json:"questionCode"`
	QuestionType  string  `json:"questionType"`
	ResponseCount int64   `json:"responseCount"`
	MeanScalar    float64 `json:"meanScalar"`
	ChoiceARate   float64 `json:"choiceARate"`
}

func (r *OrgStatRepository) QuestionStats(stakeholder string) ([]QuestionStat, error) {
	var stats []QuestionStat

	query := r.DB.Model(&model.ResponseSummary{}).
		Select("question_code, question_type, " +
			"COUNT(*) as response_count, " +
			"AVG(NULLIF(scalar_value, 0)) as mean_scalar, " +
			"AVG(choice_value = 'A') as choice_a_rate").
		Group("question_code, question_type")

	if stakeholder != "" {
		query = query.Where("stakeholder = ?", stakeholder)
	}

	err := query.Order("question_code asc").Scan(&stats).Error
	return stats, err
}

func (r *OrgStatRepository) Departments() ([]string, error) {
	var departments []string
	err := r.DB.Model(&model.ResponseSummary{}).
		Distinct("department").
		Where("department <> ''").
		Order("department asc").
		Pluck("department", &departments).Error
	return departments, err
}
