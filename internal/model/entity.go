package model

import "strings"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTeamLeader Role = "TEAM_LEADER"
)

// Status is the attendance code recorded per member per weekly report.
type Status string

const (
	StatusNoData     Status = "NDB"
	StatusNotTrained Status = "NT"
	StatusAbsent     Status = "ABS"
	StatusPresent    Status = "P"
)

// StatusOptions lists the codes in display order.
var StatusOptions = []Status{StatusNoData, StatusNotTrained, StatusAbsent, StatusPresent}

var StatusLegend = map[Status]string{
	StatusNoData:     "No Data Brought",
	StatusNotTrained: "Not Trained",
	StatusAbsent:     "Absent",
	StatusPresent:    "Present",
}

func (s Status) Valid() bool {
	switch s {
	case StatusNoData, StatusNotTrained, StatusAbsent, StatusPresent:
		return true
	}
	return false
}

var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NormalizeMonth returns the canonical month name for s, matched case-insensitively.
func NormalizeMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Months {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

type LGA struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LGAID    string `json:"lgaId"`
	LeaderID string `json:"leaderId"`
}

type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	TeamID   string `json:"teamId,omitempty"`
	LGAID    string `json:"lgaId,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type MemberStatus struct {
	MemberID string `json:"memberId"`
	Status   Status `json:"status"`
}

type WeeklyReport struct {
	ID              string         `json:"id"`
	TeamID          string         `json:"teamId"`
	LGAID           string         `json:"lgaId"`
	Week            int            `json:"week"`
	Month           string         `json:"month"`
	Year            int            `json:"year"`
	TraineesTrained int            `json:"traineesTrained"`
	MemberStatuses  []MemberStatus `json:"memberStatuses"`
	SubmittedAt     string         `json:"submittedAt"`
	SubmittedBy     string         `json:"submittedBy"`
}

// TimestampLayout is the ISO-8601 form used for SubmittedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
