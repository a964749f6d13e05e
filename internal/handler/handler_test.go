package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dlc-report/internal/middleware"
	"dlc-report/internal/model"
	"dlc-report/internal/service"
	"dlc-report/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("handler-test")

func init() { gin.SetMode(gin.TestMode) }

type stubGenerator struct {
	text    string
	entered chan struct{}
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.text, nil
}

type testServer struct {
	r     *gin.Engine
	store *service.Store
}

func newTestServer(t *testing.T, gen service.Generator) *testServer {
	t.Helper()
	store := service.NewStore(storage.NewMemory(), model.SeedLGAs)
	require.NoError(t, store.Load(context.Background()))

	r := gin.New()
	Register(r, Handlers{
		Auth:      NewAuthHandler(service.NewAuthService(store), secret, 48*time.Hour),
		Roster:    NewRosterHandler(store),
		Report:    NewReportHandler(store, service.NewReportService(store, nil)),
		Dashboard: NewDashboardHandler(store, service.NewInsightService(gen, "")),
	}, secret, 48*time.Hour)
	return &testServer{r: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Username: username})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Username: "ADMIN"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[model.LoginResponse](t, w)
	assert.Equal(t, model.User{ID: "admin-1", Username: "Administrator", Role: model.RoleAdmin}, resp.User)

	w = s.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Username: "user-bat-1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[model.LoginResponse](t, w)
	assert.Equal(t, "Leader (BAT Team Zenith)", resp.User.Username)
	assert.Equal(t, "BAT-T1", resp.User.TeamID)
	assert.Equal(t, "BAT", resp.User.LGAID)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/login", "", model.LoginRequest{Username: "nobody"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/login", "", gin.H{}).Code)
}

func TestSessionRestoreAndLogout(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/session", "", nil).Code)

	token := s.login(t, "user-kt-1")
	w := s.do(t, http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-kt-1", decode[model.LoginResponse](t, w).User.ID)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/logout", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/logout", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/session", "", nil).Code)
}

func TestRosterScoping(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin")
	leader := s.login(t, "user-kt-2")

	lgas := decode[[]model.LGA](t, s.do(t, http.MethodGet, "/api/lgas", leader, nil))
	assert.Len(t, lgas, 6)

	teams := decode[[]model.Team](t, s.do(t, http.MethodGet, "/api/teams", admin, nil))
	assert.Len(t, teams, 4)
	teams = decode[[]model.Team](t, s.do(t, http.MethodGet, "/api/teams?lga=KT", admin, nil))
	assert.Len(t, teams, 2)
	teams = decode[[]model.Team](t, s.do(t, http.MethodGet, "/api/teams?lga=DAU", admin, nil))
	assert.Empty(t, teams)

	teams = decode[[]model.Team](t, s.do(t, http.MethodGet, "/api/teams?lga=BAT", leader, nil))
	require.Len(t, teams, 1)
	assert.Equal(t, "KT-T2", teams[0].ID)

	members := decode[[]model.Member](t, s.do(t, http.MethodGet, "/api/teams/KT-T2/members", leader, nil))
	assert.Len(t, members, 2)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/teams/KT-T1/members", leader, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/teams/NOPE/members", admin, nil).Code)
	members = decode[[]model.Member](t, s.do(t, http.MethodGet, "/api/teams/MAL-T1/members", admin, nil))
	assert.Empty(t, members)
}

func TestAdminRosterMaintenance(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin")
	leader := s.login(t, "user-kt-1")

	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPost, "/api/teams", leader, model.CreateTeamRequest{Name: "X", LGAID: "KT"}).Code)

	w := s.do(t, http.MethodPost, "/api/teams", admin, model.CreateTeamRequest{Name: "Daura Hub", LGAID: "DAU"})
	require.Equal(t, http.StatusCreated, w.Code)
	team := decode[model.Team](t, w)
	assert.Equal(t, "DAU", team.LGAID)
	assert.NotEmpty(t, team.ID)

	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/api/teams", admin, model.CreateTeamRequest{Name: "X", LGAID: "ZZZ"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/api/teams", admin, model.CreateTeamRequest{Name: "   ", LGAID: "KT"}).Code)

	w = s.do(t, http.MethodPost, "/api/members", admin, model.CreateMemberRequest{Name: "Hauwa Idris", TeamID: team.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	m := decode[model.Member](t, w)
	assert.Equal(t, team.ID, m.TeamID)

	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/api/members", admin, model.CreateMemberRequest{Name: "Ghost", TeamID: "NOPE"}).Code)

	w = s.do(t, http.MethodPut, "/api/members/"+m.ID, admin, model.RenameMemberRequest{Name: "Hauwa I."})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hauwa I.", decode[model.Member](t, w).Name)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPut, "/api/members/NOPE", admin, model.RenameMemberRequest{Name: "x"}).Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/members/"+m.ID, admin, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/members/"+m.ID, admin, nil).Code)
	assert.Empty(t, s.store.TeamMembers(team.ID))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/teams/"+team.ID, admin, nil).Code)
	_, ok := s.store.Team(team.ID)
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/teams/"+team.ID, admin, nil).Code)
}

func TestSubmitAndDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login(t, "admin")
	kt := s.login(t, "user-kt-1")
	bat := s.login(t, "user-bat-1")

	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodPost, "/api/reports", admin, model.SubmitReportRequest{Week: 1}).Code)

	w := s.do(t, http.MethodPost, "/api/reports", kt, model.SubmitReportRequest{
		Week: 2, Month: "June", Year: 2024, TraineesTrained: 12,
		Statuses: map[string]model.Status{"M2": model.StatusAbsent},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	r := decode[model.WeeklyReport](t, w)
	assert.Equal(t, "KT-T1", r.TeamID)
	assert.Equal(t, "KT", r.LGAID)
	assert.Equal(t, "Leader (KT Team Alpha)", r.SubmittedBy)
	assert.Equal(t, []model.MemberStatus{
		{MemberID: "M1", Status: model.StatusPresent},
		{MemberID: "M2", Status: model.StatusAbsent},
	}, r.MemberStatuses)

	w = s.do(t, http.MethodPost, "/api/reports", bat, model.SubmitReportRequest{Week: 1, Month: "June", Year: 2024, TraineesTrained: 8})
	require.Equal(t, http.StatusCreated, w.Code)

	// leaders see only their own team
	reports := decode[[]model.WeeklyReport](t, s.do(t, http.MethodGet, "/api/reports?lga=BAT", kt, nil))
	require.Len(t, reports, 1)
	assert.Equal(t, "KT-T1", reports[0].TeamID)

	reports = decode[[]model.WeeklyReport](t, s.do(t, http.MethodGet, "/api/reports", admin, nil))
	require.Len(t, reports, 2)
	assert.Equal(t, "BAT-T1", reports[0].TeamID)

	view := decode[DashboardView](t, s.do(t, http.MethodGet, "/api/dashboard?lga=KT", admin, nil))
	assert.Equal(t, 12, view.Summary.TotalTrainees)
	assert.Equal(t, 1, view.Summary.ReportCount)
	assert.Equal(t, 50, view.Summary.ParticipationRate)
	assert.Len(t, view.Chart, 6)
	require.Len(t, view.Statuses, 4)
	assert.Equal(t, service.StatusSlice{Name: model.StatusPresent, Value: 1}, view.Statuses[3])
	assert.Len(t, view.Recent, 1)

	view = decode[DashboardView](t, s.do(t, http.MethodGet, "/api/dashboard", bat, nil))
	assert.Equal(t, 8, view.Summary.TotalTrainees)
	assert.Equal(t, 100, view.Summary.ParticipationRate)
	require.Len(t, view.Chart, 1)
	assert.Equal(t, "BAT", view.Chart[0].LGAID)
	assert.Equal(t, "BATAGARAWA", view.Chart[0].Label)
}

func TestDashboardEmpty(t *testing.T) {
	s := newTestServer(t, nil)
	view := decode[DashboardView](t, s.do(t, http.MethodGet, "/api/dashboard", s.login(t, "admin"), nil))
	assert.Zero(t, view.Summary.TotalTrainees)
	assert.Zero(t, view.Summary.ParticipationRate)
	assert.Empty(t, view.Recent)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)
	kt := s.login(t, "user-kt-1")
	s.do(t, http.MethodPost, "/api/reports", kt, model.SubmitReportRequest{Week: 1, Month: "May", Year: 2024, TraineesTrained: 3})

	w := s.do(t, http.MethodGet, "/api/reports/export", kt, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestInsight(t *testing.T) {
	s := newTestServer(t, &stubGenerator{text: "Steady growth in KATSINA."})
	admin := s.login(t, "admin")

	w := s.do(t, http.MethodPost, "/api/insight", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.do(t, http.MethodPost, "/api/reports", s.login(t, "user-kt-1"), model.SubmitReportRequest{Week: 1, Month: "May", Year: 2024, TraineesTrained: 3})

	w = s.do(t, http.MethodPost, "/api/insight", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.InsightResponse{Status: "success", Text: "Steady growth in KATSINA."}, decode[model.InsightResponse](t, w))

	// scope with no reports
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/insight?lga=MAS", admin, nil).Code)
}

func TestInsightWithoutGenerator(t *testing.T) {
	s := newTestServer(t, nil)
	kt := s.login(t, "user-kt-1")
	s.do(t, http.MethodPost, "/api/reports", kt, model.SubmitReportRequest{Week: 1, Month: "May", Year: 2024})

	w := s.do(t, http.MethodPost, "/api/insight", kt, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.InsightResponse{Status: "failure", Text: service.InsightFallback}, decode[model.InsightResponse](t, w))
}

func TestInsightRejectsConcurrentRequest(t *testing.T) {
	gen := &stubGenerator{text: "ok", entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestServer(t, gen)
	kt := s.login(t, "user-kt-1")
	s.do(t, http.MethodPost, "/api/reports", kt, model.SubmitReportRequest{Week: 1, Month: "May", Year: 2024})

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = s.do(t, http.MethodPost, "/api/insight", kt, nil)
	}()
	<-gen.entered

	w := s.do(t, http.MethodPost, "/api/insight", kt, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "pending", decode[model.InsightResponse](t, w).Status)

	close(gen.release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)

	// the guard is released once the first request completes
	go func() { <-gen.entered }()
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/insight", kt, nil).Code)
}

func TestInsightStream(t *testing.T) {
	s := newTestServer(t, &stubGenerator{text: "Attendance is strong."})
	kt := s.login(t, "user-kt-1")
	s.do(t, http.MethodPost, "/api/reports", kt, model.SubmitReportRequest{Week: 1, Month: "May", Year: 2024})

	w := s.do(t, http.MethodPost, "/api/insight/stream", kt, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event: token\ndata: {\"token\":\"Attendance is strong.\"}\n\n")
	assert.Contains(t, body, "event: result\ndata: {\"status\":\"success\",\"text\":\"Attendance is strong.\"}\n\n")
	assert.True(t, strings.HasSuffix(body, "event: done\ndata: {}\n\n"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/api/lgas", "/api/teams", "/api/dashboard", "/api/reports"} {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, "", nil).Code, path)
	}

	stale, err := middleware.IssueToken(secret, model.User{ID: "admin-1", Role: model.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/lgas", stale, nil).Code)
}
