package service

import (
	"context"
	"time"

	"dlc-report/internal/logger"
	"dlc-report/internal/model"
)

// SubmitInput is the weekly form as entered by a team leader.
type SubmitInput struct {
	Week            int
	Month           string
	Year            int
	TraineesTrained int
	// Statuses holds explicit choices; roster members not listed default to P.
	Statuses map[string]model.Status
}

type ReportService struct {
	store   *Store
	catalog *CatalogSync
	now     func() time.Time
}

func NewReportService(store *Store, catalog *CatalogSync) *ReportService {
	return &ReportService{store: store, catalog: catalog, now: time.Now}
}

// Submit builds a report for team from the current roster and prepends it to
// the store. Out-of-range input is corrected, never rejected: trainees clamp
// to 0, week into 1..5, an unknown month becomes the current one.
func (s *ReportService) Submit(ctx context.Context, team model.Team, author model.User, in SubmitInput) model.WeeklyReport {
	now := s.now().UTC()

	month, ok := model.NormalizeMonth(in.Month)
	if !ok {
		month = model.Months[now.Month()-1]
	}
	year := in.Year
	if year <= 0 {
		year = now.Year()
	}

	roster := s.store.TeamMembers(team.ID)
	statuses := make([]model.MemberStatus, 0, len(roster))
	for _, m := range roster {
		st, ok := in.Statuses[m.ID]
		if !ok || !st.Valid() {
			st = model.StatusPresent
		}
		statuses = append(statuses, model.MemberStatus{MemberID: m.ID, Status: st})
	}

	r := s.store.AddReport(ctx, model.WeeklyReport{
		TeamID:          team.ID,
		LGAID:           team.LGAID,
		Week:            min(max(in.Week, 1), 5),
		Month:           month,
		Year:            year,
		TraineesTrained: max(in.TraineesTrained, 0),
		MemberStatuses:  statuses,
		SubmittedAt:     now.Format(model.TimestampLayout),
		SubmittedBy:     author.Username,
	})
	logger.Info("report.submit", "report_id", r.ID, "team_id", team.ID, "week", r.Week, "month", r.Month, "trainees", r.TraineesTrained)

	if s.catalog != nil {
		s.catalog.SyncReport(ctx, r, team.Name)
	}
	return r
}
