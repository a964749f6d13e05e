package handler

import (
	"errors"
	"net/http"
	"time"

	"dlc-report/internal/logger"
	"dlc-report/internal/middleware"
	"dlc-report/internal/model"
	"dlc-report/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(auth *service.AuthService, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret, ttl: ttl}
}

// POST /api/login  body: {"username":"..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Username)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username, "err", err)
		status := http.StatusUnauthorized
		if errors.Is(err, service.ErrEmptyIdentity) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logger.Info("login.ok", "uid", u.ID, "role", u.Role, "team_id", u.TeamID)
	h.respondSession(c, u)
}

// GET /api/session
func (h *AuthHandler) Session(c *gin.Context) {
	u, ok, err := h.auth.CurrentSession(c.Request.Context())
	if err != nil {
		logger.Error("session.restore_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	h.respondSession(c, u)
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context())
	logger.Info("logout", "uid", middleware.CurrentUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) respondSession(c *gin.Context, u model.User) {
	token, err := middleware.IssueToken(h.secret, u, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: u})
}
