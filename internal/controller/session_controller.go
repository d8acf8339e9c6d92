package controller

import (
	"errors"
	"net/http"

	"pod360_backend/internal/middleware"
	"pod360_backend/internal/model"
	"pod360_backend/internal/service"
	"pod360_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionController exposes the assessment-taking flow to the respondent UI.
// Every route identifies the session by the invite token; no staff auth.
type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// Bootstrap godoc
// @Summary Open or resume an assessment session
// @Description Decodes the invite token, loads the question list and restores any persisted progress
// @Tags session
// @Accept json
// @Produce json
// @Param x-invite-token header string false "Invite token"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 403 {object} util.Response "Invitation revoked"
// @Router /api/assessment/session/bootstrap [post]
func (c *SessionController) Bootstrap(ctx *gin.Context) {
	view, err := c.SessionService.Bootstrap(ctx.Request.Context(), middleware.InviteToken(ctx))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Current godoc
// @Summary Current session snapshot
// @Tags session
// @Produce json
// @Param x-invite-token header string false "Invite token"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/assessment/session [get]
func (c *SessionController) Current(ctx *gin.Context) {
	view, err := c.SessionService.Current(ctx.Request.Context(), middleware.InviteToken(ctx))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// AnswerRequest carries the value for the question under the cursor.
// swagger:model AnswerRequest
type AnswerRequest struct {
	Value   model.AnswerValue `json:"value"`
	Comment string            `json:"comment"`
}

// Answer godoc
// @Summary Answer the current question and advance
// @Description Validates the answer, persists progress and moves forward; from the last question the full answer set is submitted upstream
// @Tags session
// @Accept json
// @Produce json
// @Param x-invite-token header string false "Invite token"
// @Param body body AnswerRequest true "Answer"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "Missing value or missing required comment"
// @Failure 409 {object} util.Response "Session already submitted or a submission is in flight"
// @Failure 502 {object} util.Response "Upstream rejected the answer set"
// @Router /api/assessment/session/answer [post]
func (c *SessionController) Answer(ctx *gin.Context) {
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.SessionService.Answer(ctx.Request.Context(), middleware.InviteToken(ctx), req.Value, req.Comment)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Previous godoc
// @Summary Step back one question
// @Tags session
// @Produce json
// @Param x-invite-token header string false "Invite token"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "Already at the first question"
// @Router /api/assessment/session/previous [post]
func (c *SessionController) Previous(ctx *gin.Context) {
	view, err := c.SessionService.Previous(ctx.Request.Context(), middleware.InviteToken(ctx))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Finalize godoc
// @Summary Submit the identity profile and complete the assessment
// @Description Requires the session to be in the finalization step; on success the persisted progress is cleared
// @Tags session
// @Accept json
// @Produce json
// @Param x-invite-token header string false "Invite token"
// @Param body body model.FinalizationProfile true "Identity profile"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "Incomplete profile or session not in the finalization step"
// @Failure 409 {object} util.Response "Already submitted or a submission is in flight"
// @Failure 502 {object} util.Response "Upstream rejected the finalization"
// @Router /api/assessment/session/finalize [post]
func (c *SessionController) Finalize(ctx *gin.Context) {
	var profile model.FinalizationProfile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.SessionService.Finalize(ctx.Request.Context(), middleware.InviteToken(ctx), profile)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// respondSessionError maps flow errors onto status codes. Upstream rejections
// keep the upstream's own message.
func respondSessionError(ctx *gin.Context, err error) {
	var upstream *service.UpstreamError
	if errors.As(err, &upstream) {
		util.Error(ctx, http.StatusBadGateway, upstream.Message)
		return
	}

	switch {
	case errors.Is(err, util.ErrValueRequired),
		errors.Is(err, util.ErrValueInvalid),
		errors.Is(err, util.ErrCommentRequired),
		errors.Is(err, util.ErrAtFirstQuestion),
		errors.Is(err, util.ErrNotFinalizing),
		errors.Is(err, util.ErrProfileIncomplete),
		errors.Is(err, util.ErrNoQuestions):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSessionSubmitted),
		errors.Is(err, util.ErrSessionBusy):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvitationRevoked):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
