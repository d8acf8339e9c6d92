package model

import (
	"encoding/json"
	"fmt"
)

// StakeholderRole selects which question set the upstream bank serves.
type StakeholderRole string

const (
	StakeholderEmployee StakeholderRole = "employee"
	StakeholderManager  StakeholderRole = "manager"
	StakeholderLeader   StakeholderRole = "leader"
)

func (r StakeholderRole) Valid() bool {
	switch r {
	case StakeholderEmployee, StakeholderManager, StakeholderLeader:
		return true
	}
	return false
}

type QuestionType string

const (
	QuestionScalar       QuestionType = "scalar"        // 1-5 Likert
	QuestionForcedChoice QuestionType = "forced-choice" // binary A/B
)

// Question codes fall back to this sentinel when the bank serves an item
// without a stable short code.
const QuestionCodeUnknown = "UNCODED"

// ForcedOption is one side of a forced-choice pair.
type ForcedOption struct {
	Label         string `json:"label"`
	InsightPrompt string `json:"insightPrompt,omitempty"`
}

// ForcedChoice describes the two options of a forced-choice question and
// which of them is the socially-desirable ("higher value") pick. HigherValue
// is "A" or "B"; an empty designator means neither option ever requires
// justification.
type ForcedChoice struct {
	OptionA     ForcedOption `json:"optionA"`
	OptionB     ForcedOption `json:"optionB"`
	HigherValue string       `json:"higherValue,omitempty"`
}

// Question is one survey item, fetched read-only from the upstream bank.
// swagger:model Question
type Question struct {
	ID            string        `json:"id"`
	Stem          string        `json:"stem"`
	Code          string        `json:"code,omitempty"`
	Type          QuestionType  `json:"type"`
	InsightPrompt string        `json:"insightPrompt,omitempty"`
	ForcedChoice  *ForcedChoice `json:"forcedChoice,omitempty"`
}

// ResolvedCode returns the answer tag for this question.
func (q Question) ResolvedCode() string {
	if q.Code != "" {
		return q.Code
	}
	return QuestionCodeUnknown
}

// AnswerValue is either a 1-5 scalar or the literal "A"/"B" of a forced
// choice. The zero value means unanswered. It marshals as a JSON number or
// string to match the upstream responses payload.
type AnswerValue struct {
	Scalar int
	Choice string
}

func ScalarValue(v int) AnswerValue    { return AnswerValue{Scalar: v} }
func ChoiceValue(c string) AnswerValue { return AnswerValue{Choice: c} }

func (v AnswerValue) IsZero() bool { return v.Scalar == 0 && v.Choice == "" }

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Choice != "" {
		return json.Marshal(v.Choice)
	}
	if v.Scalar != 0 {
		return json.Marshal(v.Scalar)
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	*v = AnswerValue{}
	if string(data) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		v.Scalar = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Choice = s
		return nil
	}
	return fmt.Errorf("answer value must be a number or a string, got %s", data)
}

// Answer is one respondent's response to one question.
// swagger:model Answer
type Answer struct {
	AssessmentID string      `json:"assessmentId"`
	QuestionID   string      `json:"questionId"`
	QuestionCode string      `json:"questionCode"`
	Value        AnswerValue `json:"value"`
	Comment      string      `json:"comment,omitempty"`
}

// FinalizationProfile carries the identity fields collected before the
// terminal submission. It is never persisted here; it travels once to the
// upstream submit endpoint.
// swagger:model FinalizationProfile
type FinalizationProfile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func (p FinalizationProfile) Complete() bool {
	return p.FirstName != "" && p.LastName != "" && p.Email != "" && p.Department != ""
}
