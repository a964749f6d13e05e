package handler

import (
	"time"

	"dlc-report/internal/middleware"
	"dlc-report/internal/model"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *AuthHandler
	Roster    *RosterHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
}

// Register mounts the /api routes on r. Everything except login and session
// restore requires a bearer token signed with secret.
func Register(r gin.IRouter, h Handlers, secret []byte, ttl time.Duration) {
	r.POST("/api/login", h.Auth.Login)
	r.GET("/api/session", h.Auth.Session)

	api := r.Group("/api", middleware.JWTAuth(secret, ttl))
	api.POST("/logout", h.Auth.Logout)
	api.GET("/lgas", h.Roster.LGAs)
	api.GET("/teams", h.Roster.Teams)
	api.GET("/teams/:id/members", h.Roster.TeamMembers)
	api.GET("/dashboard", h.Dashboard.Dashboard)
	api.GET("/reports", h.Report.List)
	api.GET("/reports/export", h.Report.Export)
	api.POST("/reports", middleware.RequireRole(model.RoleTeamLeader), h.Report.Submit)
	api.POST("/insight", h.Dashboard.Insight)
	api.POST("/insight/stream", h.Dashboard.InsightStream)

	admin := api.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/teams", h.Roster.CreateTeam)
	admin.DELETE("/teams/:id", h.Roster.DeleteTeam)
	admin.POST("/members", h.Roster.CreateMember)
	admin.PUT("/members/:id", h.Roster.RenameMember)
	admin.DELETE("/members/:id", h.Roster.DeleteMember)
}
