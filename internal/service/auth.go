package service

import (
	"context"
	"fmt"
	"strings"

	"dlc-report/internal/model"
)

type AuthService struct{ store *Store }

func NewAuthService(store *Store) *AuthService { return &AuthService{store: store} }

// Login resolves identifier to a session. "admin" in any case is the
// administrator; anything else must equal a team's leaderId. Unmatched
// identifiers are rejected rather than handed the first team.
func (s *AuthService) Login(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.User{}, ErrEmptyIdentity
	}

	var u model.User
	if strings.EqualFold(identifier, "admin") {
		u = model.User{ID: "admin-1", Username: "Administrator", Role: model.RoleAdmin}
	} else {
		team, ok := s.leaderTeam(identifier)
		if !ok {
			return model.User{}, fmt.Errorf("login %q: %w", identifier, ErrUnknownIdentity)
		}
		u = model.User{
			ID:       identifier,
			Username: fmt.Sprintf("Leader (%s)", team.Name),
			Role:     model.RoleTeamLeader,
			TeamID:   team.ID,
			LGAID:    team.LGAID,
		}
	}

	s.store.SaveSession(ctx, u)
	return u, nil
}

func (s *AuthService) leaderTeam(leaderID string) (model.Team, bool) {
	for _, t := range s.store.Teams() {
		if t.LeaderID == leaderID {
			return t, true
		}
	}
	return model.Team{}, false
}

func (s *AuthService) Logout(ctx context.Context) {
	s.store.ClearSession(ctx)
}

// CurrentSession returns the persisted session, if any. A leader whose team
// has since been removed no longer has a session.
func (s *AuthService) CurrentSession(ctx context.Context) (model.User, bool, error) {
	u, ok, err := s.store.LoadSession(ctx)
	if err != nil || !ok {
		return u, false, err
	}
	if u.Role == model.RoleTeamLeader {
		if _, exists := s.store.Team(u.TeamID); !exists {
			return model.User{}, false, nil
		}
	}
	return u, true, nil
}
