package handler

import (
	"errors"
	"net/http"

	"dlc-report/internal/middleware"
	"dlc-report/internal/model"
	"dlc-report/internal/service"

	"github.com/gin-gonic/gin"
)

type RosterHandler struct{ store *service.Store }

func NewRosterHandler(store *service.Store) *RosterHandler { return &RosterHandler{store: store} }

// GET /api/lgas
func (h *RosterHandler) LGAs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.LGAs())
}

// GET /api/teams?lga=KT
func (h *RosterHandler) Teams(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var teams []model.Team
	switch lga := c.Query("lga"); {
	case !u.IsAdmin():
		if t, ok := h.store.Team(u.TeamID); ok {
			teams = []model.Team{t}
		}
	case lga == "" || lga == service.AllLGAs:
		teams = h.store.Teams()
	default:
		teams = h.store.TeamsByLGA(lga)
	}
	if teams == nil {
		teams = []model.Team{}
	}
	c.JSON(http.StatusOK, teams)
}

// GET /api/teams/:id/members
func (h *RosterHandler) TeamMembers(c *gin.Context) {
	id := c.Param("id")
	u := middleware.CurrentUser(c)
	if !u.IsAdmin() && id != u.TeamID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if _, ok := h.store.Team(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTeamNotFound.Error()})
		return
	}
	members := h.store.TeamMembers(id)
	if members == nil {
		members = []model.Member{}
	}
	c.JSON(http.StatusOK, members)
}

// POST /api/teams  body: {"name":"...","lgaId":"KT"}
func (h *RosterHandler) CreateTeam(c *gin.Context) {
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.store.AddTeam(c.Request.Context(), req.Name, req.LGAID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// DELETE /api/teams/:id
func (h *RosterHandler) DeleteTeam(c *gin.Context) {
	if err := h.store.RemoveTeam(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/members  body: {"name":"...","teamId":"KT-T1"}
func (h *RosterHandler) CreateMember(c *gin.Context) {
	var req model.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m, err := h.store.AddMember(c.Request.Context(), req.Name, req.TeamID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// PUT /api/members/:id  body: {"name":"..."}
func (h *RosterHandler) RenameMember(c *gin.Context) {
	var req model.RenameMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m, err := h.store.RenameMember(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /api/members/:id
func (h *RosterHandler) DeleteMember(c *gin.Context) {
	h.store.RemoveMember(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyName):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrLGANotFound),
		errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrMemberNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
