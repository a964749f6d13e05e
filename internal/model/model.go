package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SubmitReportRequest struct {
	Week            int               `json:"week"`
	Month           string            `json:"month"`
	Year            int               `json:"year"`
	TraineesTrained int               `json:"traineesTrained"`
	Statuses        map[string]Status `json:"statuses,omitempty"`
}

type CreateTeamRequest struct {
	Name  string `json:"name" binding:"required"`
	LGAID string `json:"lgaId" binding:"required"`
}

type CreateMemberRequest struct {
	Name   string `json:"name" binding:"required"`
	TeamID string `json:"teamId" binding:"required"`
}

type RenameMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

type InsightResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}
