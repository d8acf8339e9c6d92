package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"pod360_backend/internal/model"
	"pod360_backend/internal/repository"
	"pod360_backend/pkg/logger"

	"go.uber.org/zap"
)

type ReportService struct {
	orgstats *repository.OrgStatRepository
	notifs   *repository.NotificationRepository
	storage  *StorageService
}

func NewReportService(orgstats *repository.OrgStatRepository, notifs *repository.NotificationRepository, storage *StorageService) *ReportService {
	return &ReportService{orgstats: orgstats, notifs: notifs, storage: storage}
}

func (s *ReportService) DepartmentStats(department, stakeholder string) ([]repository.DepartmentStat, error) {
	return s.orgstats.DepartmentStats(department, stakeholder)
}

func (s *ReportService) QuestionStats(stakeholder string) ([]repository.QuestionStat, error) {
	return s.orgstats.QuestionStats(stakeholder)
}

func (s *ReportService) Departments() ([]string, error) {
	return s.orgstats.Departments()
}

// TrianglePoint is one department plotted inside the stakeholder triangle.
// X/Y are unit-triangle coordinates; the weights are the per-role mean
// scalar scores the point was derived from.
type TrianglePoint struct {
	Department string  `json:"department"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Employee   float64 `json:"employee"`
	Manager    float64 `json:"manager"`
	Leader     float64 `json:"leader"`
}

// Triangle vertices: employee bottom-left, manager bottom-right, leader top.
var (
	vertexEmployee = [2]float64{0, 0}
	vertexManager  = [2]float64{1, 0}
	vertexLeader   = [2]float64{0.5, math.Sqrt(3) / 2}
)

// BarycentricPoint maps three non-negative role weights onto the unit
// triangle. Equal (or all-zero) weights land on the centroid.
func BarycentricPoint(employee, manager, leader float64) (x, y float64) {
	sum := employee + manager + leader
	if sum <= 0 {
		employee, manager, leader = 1, 1, 1
		sum = 3
	}

	we := employee / sum
	wm := manager / sum
	wl := leader / sum

	x = we*vertexEmployee[0] + wm*vertexManager[0] + wl*vertexLeader[0]
	y = we*vertexEmployee[1] + wm*vertexManager[1] + wl*vertexLeader[1]
	return x, y
}

// TrianglePlot aggregates every department's mean scalar score per
// stakeholder role and places it inside the triangle. Departments skewed
// toward one role's perspective drift toward that vertex.
func (s *ReportService) TrianglePlot() ([]TrianglePoint, error) {
	stats, err := s.orgstats.DepartmentStats("", "")
	if err != nil {
		return nil, err
	}

	type weights struct{ employee, manager, leader float64 }
	byDept := make(map[string]*weights)
	order := make([]string, 0)

	for _, st := range stats {
		w, ok := byDept[st.Department]
		if !ok {
			w = &weights{}
			byDept[st.Department] = w
			order = append(order, st.Department)
		}
		switch model.StakeholderRole(st.Stakeholder) {
		case model.StakeholderEmployee:
			w.employee = st.MeanScalar
		case model.StakeholderManager:
			w.manager = st.MeanScalar
		case model.StakeholderLeader:
			w.leader = st.MeanScalar
		}
	}

	points := make([]TrianglePoint, 0, len(order))
	for _, dept := range order {
		w := byDept[dept]
		x, y := BarycentricPoint(w.employee, w.manager, w.leader)
		points = append(points, TrianglePoint{
			Department: dept,
			X:          x,
			Y:          y,
			Employee:   w.employee,
			Manager:    w.manager,
			Leader:     w.leader,
		})
	}
	return points, nil
}

// ExportCSV writes the department stat table to storage and notifies the
// requesting user when the artifact is ready.
func (s *ReportService) ExportCSV(ctx context.Context, userID uint) (string, error) {
	stats, err := s.orgstats.DepartmentStats("", "")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"department", "stakeholder", "response_count", "mean_scalar", "comment_rate"})
	for _, st := range stats {
		w.Write([]string{
			st.Department,
			st.Stakeholder,
			strconv.FormatInt(st.ResponseCount, 10),
			strconv.FormatFloat(st.MeanScalar, 'f', 2, 64),
			strconv.FormatFloat(st.CommentRate, 'f', 2, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("org-stats-%s.csv", time.Now().Format("20060102-150405"))
	url, err := s.storage.Upload(ctx, filename, &buf, int64(buf.Len()), "text/csv")
	if err != nil {
		return "", err
	}

	if s.notifs != nil && userID != 0 {
		n := &model.Notification{
			UserID: userID,
			Kind:   model.NotificationReportReady,
			Title:  "Report export ready",
			Body:   "Your organization stats export is available at " + url,
		}
		if err := s.notifs.Create(n); err != nil {
			logger.Log.Warn("failed to create report-ready notification", zap.Error(err))
		}
	}

	return url, nil
}
