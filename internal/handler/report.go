package handler

import (
	"fmt"
	"net/http"
	"time"

	"dlc-report/internal/logger"
	"dlc-report/internal/middleware"
	"dlc-report/internal/model"
	"dlc-report/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	store   *service.Store
	reports *service.ReportService
}

func NewReportHandler(store *service.Store, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{store: store, reports: reports}
}

// lgaScope reads the admin LGA filter; leaders ignore it.
func lgaScope(c *gin.Context) string {
	return c.DefaultQuery("lga", service.AllLGAs)
}

// visibleReports is the store's report list filtered for the caller.
func visibleReports(c *gin.Context, store *service.Store) []model.WeeklyReport {
	return service.FilterForUser(store.Reports(), middleware.CurrentUser(c), lgaScope(c))
}

// GET /api/reports?lga=KT
func (h *ReportHandler) List(c *gin.Context) {
	reports := visibleReports(c, h.store)
	if reports == nil {
		reports = []model.WeeklyReport{}
	}
	c.JSON(http.StatusOK, reports)
}

// GET /api/reports/export?lga=KT
func (h *ReportHandler) Export(c *gin.Context) {
	reports := visibleReports(c, h.store)
	data, err := service.ExportReports(reports, h.store.LGAs(), h.store.Teams())
	if err != nil {
		logger.Error("report.export_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := fmt.Sprintf("dlc-reports-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// POST /api/reports  body: model.SubmitReportRequest
func (h *ReportHandler) Submit(c *gin.Context) {
	var req model.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u := middleware.CurrentUser(c)
	team, ok := h.store.Team(u.TeamID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTeamNotFound.Error()})
		return
	}

	r := h.reports.Submit(c.Request.Context(), team, u, service.SubmitInput{
		Week:            req.Week,
		Month:           req.Month,
		Year:            req.Year,
		TraineesTrained: req.TraineesTrained,
		Statuses:        req.Statuses,
	})
	c.JSON(http.StatusCreated, r)
}
