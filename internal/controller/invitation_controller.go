package controller

import (
	"errors"
	"strconv"

	"pod360_backend/internal/repository"
	"pod360_backend/internal/service"
	"pod360_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InvitationController struct {
	InvitationService *service.InvitationService
}

func NewInvitationController(invitationService *service.InvitationService) *InvitationController {
	return &InvitationController{InvitationService: invitationService}
}

// Create godoc
// @Summary Issue an invitation
// @Description Creates the invitation row and signs its invite token
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateInvitationInput true "Invitation"
// @Success 201 {object} util.Response{data=model.Invitation}
// @Failure 400 {object} util.Response "Unknown stakeholder role"
// @Router /api/admin/invitations [post]
func (c *InvitationController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateInvitationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	inv, err := c.InvitationService.Create(input, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrValueInvalid) {
			util.BadRequest(ctx, "stakeholder must be employee, manager or leader")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, inv)
}

// List godoc
// @Summary List invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param stakeholder query string false "Filter by stakeholder role"
// @Param status query string false "Filter by status"
// @Param department query string false "Filter by department"
// @Param search query string false "Match against email or name"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/invitations [get]
func (c *InvitationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.InvitationFilter{
		Stakeholder: ctx.Query("stakeholder"),
		Status:      ctx.Query("status"),
		Department:  ctx.Query("department"),
		Search:      ctx.Query("search"),
	}

	invs, total, err := c.InvitationService.List(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: invs, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Invitation detail
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invitation ID"
// @Success 200 {object} util.Response{data=model.Invitation}
// @Failure 404 {object} util.Response
// @Router /api/admin/invitations/{id} [get]
func (c *InvitationController) Get(ctx *gin.Context) {
	inv, err := c.InvitationService.Get(ctx.Param("id"))
	if err != nil {
		respondInvitationError(ctx, err)
		return
	}
	util.Success(ctx, inv)
}

// Revoke godoc
// @Summary Revoke an invitation
// @Description Blocks the invite token from opening new sessions
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invitation ID"
// @Success 200 {object} util.Response{data=model.Invitation}
// @Failure 409 {object} util.Response "Already completed"
// @Router /api/admin/invitations/{id}/revoke [post]
func (c *InvitationController) Revoke(ctx *gin.Context) {
	inv, err := c.InvitationService.Revoke(ctx.Param("id"), util.GetUserFromContext(ctx))
	if err != nil {
		respondInvitationError(ctx, err)
		return
	}
	util.Success(ctx, inv)
}

// Resend godoc
// @Summary Reissue a pending invitation's token
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invitation ID"
// @Success 200 {object} util.Response{data=model.Invitation}
// @Failure 409 {object} util.Response "Completed or revoked"
// @Router /api/admin/invitations/{id}/resend [post]
func (c *InvitationController) Resend(ctx *gin.Context) {
	inv, err := c.InvitationService.Resend(ctx.Param("id"))
	if err != nil {
		respondInvitationError(ctx, err)
		return
	}
	util.Success(ctx, inv)
}

// Delete godoc
// @Summary Delete an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invitation ID"
// @Success 200 {object} util.Response
// @Router /api/admin/invitations/{id} [delete]
func (c *InvitationController) Delete(ctx *gin.Context) {
	if err := c.InvitationService.Delete(ctx.Param("id")); err != nil {
		respondInvitationError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Stats godoc
// @Summary Invitation completion counts
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.InvitationStats}
// @Router /api/admin/invitations/stats [get]
func (c *InvitationController) Stats(ctx *gin.Context) {
	stats, err := c.InvitationService.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func respondInvitationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvitationNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvitationCompleted),
		errors.Is(err, util.ErrInvitationRevoked):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
