package model

// ResponseSummary is one answer flattened for org-level reporting. Rows are
// written when a respondent's answer set is accepted upstream, so the
// dashboard's stat tables never have to call back into the question bank.
// swagger:model ResponseSummary
type ResponseSummary struct {
	BaseModel
	InvitationID string          `gorm:"type:varchar(36);index" json:"invitationId"`
	Stakeholder  StakeholderRole `gorm:"size:20;index" json:"stakeholder"`
	Department   string          `gorm:"size:100;index" json:"department"`
	QuestionID   string          `gorm:"size:64" json:"questionId"`
	QuestionCode string          `gorm:"size:64;index" json:"questionCode"`
	QuestionType QuestionType    `gorm:"size:20" json:"questionType"`
	ScalarValue  int             `gorm:"default:0" json:"scalarValue"`
	ChoiceValue  string          `gorm:"size:1" json:"choiceValue"`
	HasComment   bool            `gorm:"default:false" json:"hasComment"`
}

func (ResponseSummary) TableName() string {
	return "response_summaries"
}
