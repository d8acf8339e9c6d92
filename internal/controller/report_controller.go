package controller

import (
	"pod360_backend/internal/service"
	"pod360_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// DepartmentStats godoc
// @Summary Mean scores and comment rates per department and stakeholder
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param department query string false "Filter by department"
// @Param stakeholder query string false "Filter by stakeholder role"
// @Success 200 {object} util.Response{data=[]repository.DepartmentStat}
// @Router /api/admin/reports/departments [get]
func (c *ReportController) DepartmentStats(ctx *gin.Context) {
	stats, err := c.ReportService.DepartmentStats(ctx.Query("department"), ctx.Query("stakeholder"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// QuestionStats godoc
// @Summary Per-question aggregates across the organization
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param stakeholder query string false "Filter by stakeholder role"
// @Success 200 {object} util.Response{data=[]repository.QuestionStat}
// @Router /api/admin/reports/questions [get]
func (c *ReportController) QuestionStats(ctx *gin.Context) {
	stats, err := c.ReportService.QuestionStats(ctx.Query("stakeholder"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Departments godoc
// @Summary Departments with recorded responses
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/admin/reports/departments/list [get]
func (c *ReportController) Departments(ctx *gin.Context) {
	departments, err := c.ReportService.Departments()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, departments)
}

// TrianglePlot godoc
// @Summary Department positions inside the stakeholder triangle
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.TrianglePoint}
// @Router /api/admin/reports/triangle [get]
func (c *ReportController) TrianglePlot(ctx *gin.Context) {
	points, err := c.ReportService.TrianglePlot()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, points)
}

// Export godoc
// @Summary Export the department stat table as CSV
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/reports/export [post]
func (c *ReportController) Export(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.ReportService.ExportCSV(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
