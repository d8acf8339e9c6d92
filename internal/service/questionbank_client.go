package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"pod360_backend/internal/config"
	"pod360_backend/internal/model"
	"pod360_backend/internal/util"
)

// QuestionBank is the upstream question/response service consumed by the
// session flow. Behind it sits the real HTTP client below; tests substitute
// their own.
type QuestionBank interface {
	FetchQuestions(ctx context.Context, role model.StakeholderRole, token string) ([]model.Question, string, error)
	SubmitResponses(ctx context.Context, token string, answers []model.Answer) error
	SubmitFinalization(ctx context.Context, role model.StakeholderRole, assessmentID, token string, profile model.FinalizationProfile) error
}

// UpstreamError carries the upstream service's own message so it can be
// surfaced to the respondent verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

const genericUpstreamMessage = "the assessment service could not process the request"

type QuestionBankClient struct {
	cfg    config.UpstreamConfig
	client *http.Client
}

func NewQuestionBankClient(cfg config.UpstreamConfig) *QuestionBankClient {
	return &QuestionBankClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.TimeoutSeconds},
	}
}

type questionsResponse struct {
	AssessmentID string           `json:"assessmentId"`
	Questions    []model.Question `json:"questions"`
}

// FetchQuestions loads the ordered question list for a stakeholder role,
// together with the assessment run identifier issued for this session.
func (c *QuestionBankClient) FetchQuestions(ctx context.Context, role model.StakeholderRole, token string) ([]model.Question, string, error) {
	url := fmt.Sprintf("%s/questions?stakeholder=%s", c.cfg.BaseURL, role)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set(util.HeaderInviteToken, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", upstreamError(resp)
	}

	var payload questionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", err
	}
	return payload.Questions, payload.AssessmentID, nil
}

// SubmitResponses posts the accumulated answer set. Not retried on failure;
// the respondent triggers the same action again.
func (c *QuestionBankClient) SubmitResponses(ctx context.Context, token string, answers []model.Answer) error {
	body, err := json.Marshal(map[string]interface{}{"responses": answers})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(util.HeaderInviteToken, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp)
	}
	return nil
}

// SubmitFinalization posts the identity profile to the terminal submit
// endpoint, completing the assessment run.
func (c *QuestionBankClient) SubmitFinalization(ctx context.Context, role model.StakeholderRole, assessmentID, token string, profile model.FinalizationProfile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s-assessment/%s/submit/%s", c.cfg.BaseURL, role, assessmentID, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(util.HeaderInviteToken, token)
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp)
	}
	return nil
}

// upstreamError extracts the server's message when the body carries one,
// falling back to a generic message.
func upstreamError(resp *http.Response) error {
	msg := genericUpstreamMessage

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			if payload.Message != "" {
				msg = payload.Message
			} else if payload.Error != "" {
				msg = payload.Error
			}
		}
	}

	return &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}
