package service

import (
	"math"
	"strings"

	"dlc-report/internal/model"
)

// AllLGAs is the admin scope that disables LGA filtering.
const AllLGAs = "all"

// RecentLimit is how many reports the recent-submissions view shows.
const RecentLimit = 5

type Summary struct {
	TotalTrainees     int                  `json:"totalTrainees"`
	StatusCounts      map[model.Status]int `json:"statusCounts"`
	ReportCount       int                  `json:"reportCount"`
	ParticipationRate int                  `json:"participationRate"`
}

type ChartPoint struct {
	LGAID    string `json:"lgaId"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Trainees int    `json:"trainees"`
}

type StatusSlice struct {
	Name  model.Status `json:"name"`
	Value int          `json:"value"`
}

// ComputeSummary totals trainees and status codes over reports.
// Participation is P/(P+ABS) as a rounded percentage, 0 when nobody was
// recorded present or absent.
func ComputeSummary(reports []model.WeeklyReport) Summary {
	sum := Summary{
		StatusCounts: make(map[model.Status]int, len(model.StatusOptions)),
		ReportCount:  len(reports),
	}
	for _, s := range model.StatusOptions {
		sum.StatusCounts[s] = 0
	}
	for _, r := range reports {
		sum.TotalTrainees += r.TraineesTrained
		for _, ms := range r.MemberStatuses {
			sum.StatusCounts[ms.Status]++
		}
	}

	present := sum.StatusCounts[model.StatusPresent]
	denom := present + sum.StatusCounts[model.StatusAbsent]
	if denom > 0 {
		sum.ParticipationRate = int(math.Round(100 * float64(present) / float64(denom)))
	}
	return sum
}

// FilterReports narrows reports to what the viewer may see. Team leaders only
// ever get their own team, whatever scope they ask for.
func FilterReports(reports []model.WeeklyReport, role model.Role, scopeTeamID, scopeLGAID string) []model.WeeklyReport {
	var keep func(model.WeeklyReport) bool
	switch {
	case role != model.RoleAdmin:
		keep = func(r model.WeeklyReport) bool { return r.TeamID == scopeTeamID }
	case scopeLGAID == "" || scopeLGAID == AllLGAs:
		out := make([]model.WeeklyReport, len(reports))
		copy(out, reports)
		return out
	default:
		keep = func(r model.WeeklyReport) bool { return r.LGAID == scopeLGAID }
	}

	out := make([]model.WeeklyReport, 0, len(reports))
	for _, r := range reports {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterForUser applies FilterReports with the scope carried by u.
func FilterForUser(reports []model.WeeklyReport, u model.User, lgaScope string) []model.WeeklyReport {
	return FilterReports(reports, u.Role, u.TeamID, lgaScope)
}

// ChartSeriesByLGA sums trainees per LGA, one point per LGA in lgas order.
func ChartSeriesByLGA(reports []model.WeeklyReport, lgas []model.LGA) []ChartPoint {
	totals := make(map[string]int, len(lgas))
	for _, r := range reports {
		totals[r.LGAID] += r.TraineesTrained
	}
	out := make([]ChartPoint, 0, len(lgas))
	for _, l := range lgas {
		out = append(out, ChartPoint{
			LGAID:    l.ID,
			Name:     l.Name,
			Label:    strings.TrimSuffix(l.Name, " LGA"),
			Trainees: totals[l.ID],
		})
	}
	return out
}

// ViewerChart is ChartSeriesByLGA as shown to u: admins get every LGA, other
// viewers only LGAs with trainees plus their own.
func ViewerChart(reports []model.WeeklyReport, lgas []model.LGA, u model.User) []ChartPoint {
	points := ChartSeriesByLGA(reports, lgas)
	if u.IsAdmin() {
		return points
	}
	out := points[:0]
	for _, p := range points {
		if p.Trainees > 0 || p.LGAID == u.LGAID {
			out = append(out, p)
		}
	}
	return out
}

func StatusBreakdown(sum Summary) []StatusSlice {
	out := make([]StatusSlice, 0, len(model.StatusOptions))
	for _, s := range model.StatusOptions {
		out = append(out, StatusSlice{Name: s, Value: sum.StatusCounts[s]})
	}
	return out
}

// RecentReports returns the first n reports of an already newest-first list.
func RecentReports(reports []model.WeeklyReport, n int) []model.WeeklyReport {
	if len(reports) > n {
		reports = reports[:n]
	}
	out := make([]model.WeeklyReport, len(reports))
	copy(out, reports)
	return out
}
