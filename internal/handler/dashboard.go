package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"dlc-report/internal/logger"
	"dlc-report/internal/middleware"
	"dlc-report/internal/model"
	"dlc-report/internal/service"

	"github.com/gin-gonic/gin"
)

const insightNoData = "No reporting data available to analyze."

type DashboardView struct {
	Summary  service.Summary       `json:"summary"`
	Chart    []service.ChartPoint  `json:"chart"`
	Statuses []service.StatusSlice `json:"statuses"`
	Recent   []model.WeeklyReport  `json:"recent"`
}

type DashboardHandler struct {
	store   *service.Store
	insight *service.InsightService
	// pending holds viewer ids with an insight request in flight.
	pending sync.Map
}

func NewDashboardHandler(store *service.Store, insight *service.InsightService) *DashboardHandler {
	return &DashboardHandler{store: store, insight: insight}
}

// GET /api/dashboard?lga=KT
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	u := middleware.CurrentUser(c)
	reports := visibleReports(c, h.store)
	sum := service.ComputeSummary(reports)
	c.JSON(http.StatusOK, DashboardView{
		Summary:  sum,
		Chart:    service.ViewerChart(reports, h.store.LGAs(), u),
		Statuses: service.StatusBreakdown(sum),
		Recent:   service.RecentReports(reports, service.RecentLimit),
	})
}

// POST /api/insight?lga=KT
func (h *DashboardHandler) Insight(c *gin.Context) {
	reports, release, ok := h.begin(c)
	if !ok {
		return
	}
	defer release()

	res := h.insight.Request(c.Request.Context(), reports, h.store.LGAs())
	c.JSON(http.StatusOK, model.InsightResponse{Status: string(res.Status), Text: res.Text})
}

// POST /api/insight/stream?lga=KT
func (h *DashboardHandler) InsightStream(c *gin.Context) {
	reports, release, ok := h.begin(c)
	if !ok {
		return
	}
	defer release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sse := &sseWriter{w: c.Writer, f: c.Writer}
	res := h.insight.Stream(c.Request.Context(), reports, h.store.LGAs(), sse.token)
	sse.event("result", model.InsightResponse{Status: string(res.Status), Text: res.Text})
	sse.done()
}

// begin filters the caller's reports and marks the caller pending. The
// returned release must be called once the generation finishes.
func (h *DashboardHandler) begin(c *gin.Context) ([]model.WeeklyReport, func(), bool) {
	u := middleware.CurrentUser(c)
	reports := visibleReports(c, h.store)
	if len(reports) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": insightNoData})
		return nil, nil, false
	}
	if _, busy := h.pending.LoadOrStore(u.ID, struct{}{}); busy {
		logger.Warn("insight.busy", "uid", u.ID)
		c.JSON(http.StatusConflict, model.InsightResponse{Status: string(service.InsightPending)})
		return nil, nil, false
	}
	logger.Info("insight.request", "uid", u.ID, "scope", lgaScope(c), "reports", len(reports))
	return reports, func() { h.pending.Delete(u.ID) }, true
}

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func (s *sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}

func (s *sseWriter) token(t string) {
	s.event("token", map[string]string{"token": t})
}

func (s *sseWriter) done() {
	s.event("done", map[string]string{})
}
