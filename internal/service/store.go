package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"dlc-report/internal/logger"
	"dlc-report/internal/model"
	"dlc-report/internal/storage"

	"github.com/google/uuid"
)

// Store owns the roster and report collections. Every mutation goes through
// it and is followed by a best-effort write of the affected collection; a
// failed write is logged and the in-memory change is kept.
type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	lgas    []model.LGA
	teams   []model.Team
	members []model.Member
	reports []model.WeeklyReport
}

func NewStore(kv storage.KV, lgas []model.LGA) *Store {
	return &Store{
		kv:      kv,
		lgas:    slices.Clone(lgas),
		teams:   slices.Clone(model.SeedTeams),
		members: slices.Clone(model.SeedMembers),
	}
}

// Load reads the persisted collections once. Missing keys keep the seed
// roster and an empty report list.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadKey(ctx, storage.KeyTeams, &s.teams); err != nil {
		return err
	}
	if err := s.loadKey(ctx, storage.KeyMembers, &s.members); err != nil {
		return err
	}
	if err := s.loadKey(ctx, storage.KeyReports, &s.reports); err != nil {
		return err
	}
	logger.Info("store.loaded", "teams", len(s.teams), "members", len(s.members), "reports", len(s.reports))
	return nil
}

func (s *Store) loadKey(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("store.encode_failed", "key", key, "err", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		logger.Warn("store.persist_failed", "key", key, "err", err)
	}
}

func (s *Store) LGAs() []model.LGA {
	return slices.Clone(s.lgas)
}

func (s *Store) LGA(id string) (model.LGA, bool) {
	for _, l := range s.lgas {
		if l.ID == id {
			return l, true
		}
	}
	return model.LGA{}, false
}

func (s *Store) Teams() []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.teams)
}

func (s *Store) TeamsByLGA(lgaID string) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Team
	for _, t := range s.teams {
		if t.LGAID == lgaID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Team(id string) (model.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.teamIndex(id)
	if i < 0 {
		return model.Team{}, false
	}
	return s.teams[i], true
}

func (s *Store) teamIndex(id string) int {
	return slices.IndexFunc(s.teams, func(t model.Team) bool { return t.ID == id })
}

func (s *Store) Members() []model.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.members)
}

// TeamMembers returns the roster of teamID in insertion order.
func (s *Store) TeamMembers(teamID string) []model.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Member
	for _, m := range s.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out
}

// Reports returns every report, newest first.
func (s *Store) Reports() []model.WeeklyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}

func (s *Store) AddTeam(ctx context.Context, name, lgaID string) (model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Team{}, ErrEmptyName
	}
	if _, ok := s.LGA(lgaID); !ok {
		return model.Team{}, fmt.Errorf("add team %q: %w", name, ErrLGANotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := newID("team", func(id string) bool { return s.teamIndex(id) >= 0 })
	t := model.Team{
		ID:       id,
		Name:     name,
		LGAID:    lgaID,
		LeaderID: "leader-" + strings.TrimPrefix(id, "team-"),
	}
	s.teams = append(s.teams, t)
	s.persist(ctx, storage.KeyTeams, s.teams)
	logger.Info("roster.team_added", "team_id", t.ID, "lga_id", lgaID)
	return t, nil
}

// RemoveTeam deletes the team and its members. Reports filed by the team are
// kept: they are immutable and carry their own LGA copy.
func (s *Store) RemoveTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.teamIndex(id)
	if i < 0 {
		return fmt.Errorf("remove team %s: %w", id, ErrTeamNotFound)
	}
	s.teams = slices.Delete(s.teams, i, i+1)
	before := len(s.members)
	s.members = slices.DeleteFunc(s.members, func(m model.Member) bool { return m.TeamID == id })

	s.persist(ctx, storage.KeyTeams, s.teams)
	if len(s.members) != before {
		s.persist(ctx, storage.KeyMembers, s.members)
	}
	logger.Info("roster.team_removed", "team_id", id, "members_removed", before-len(s.members))
	return nil
}

func (s *Store) AddMember(ctx context.Context, name, teamID string) (model.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Member{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamIndex(teamID) < 0 {
		return model.Member{}, fmt.Errorf("add member %q: %w", name, ErrTeamNotFound)
	}
	m := model.Member{
		ID: newID("member", func(id string) bool {
			return slices.ContainsFunc(s.members, func(m model.Member) bool { return m.ID == id })
		}),
		Name:   name,
		TeamID: teamID,
	}
	s.members = append(s.members, m)
	s.persist(ctx, storage.KeyMembers, s.members)
	logger.Info("roster.member_added", "member_id", m.ID, "team_id", teamID)
	return m, nil
}

func (s *Store) RenameMember(ctx context.Context, id, name string) (model.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Member{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.members, func(m model.Member) bool { return m.ID == id })
	if i < 0 {
		return model.Member{}, fmt.Errorf("rename member %s: %w", id, ErrMemberNotFound)
	}
	s.members[i].Name = name
	s.persist(ctx, storage.KeyMembers, s.members)
	return s.members[i], nil
}

// RemoveMember is a no-op when id is absent.
func (s *Store) RemoveMember(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.members)
	s.members = slices.DeleteFunc(s.members, func(m model.Member) bool { return m.ID == id })
	if len(s.members) == before {
		return
	}
	s.persist(ctx, storage.KeyMembers, s.members)
	logger.Info("roster.member_removed", "member_id", id)
}

// AddReport prepends r, assigning a fresh id if r.ID is empty or taken.
func (s *Store) AddReport(ctx context.Context, r model.WeeklyReport) model.WeeklyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := func(id string) bool {
		return slices.ContainsFunc(s.reports, func(x model.WeeklyReport) bool { return x.ID == id })
	}
	if r.ID == "" || taken(r.ID) {
		r.ID = newID("report", taken)
	}
	s.reports = slices.Insert(s.reports, 0, r)
	s.persist(ctx, storage.KeyReports, s.reports)
	return r
}

func (s *Store) SaveSession(ctx context.Context, u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(ctx, storage.KeyUser, u)
}

func (s *Store) LoadSession(ctx context.Context) (model.User, bool, error) {
	var u model.User
	raw, ok, err := s.kv.Get(ctx, storage.KeyUser)
	if err != nil || !ok {
		return u, false, err
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return u, false, fmt.Errorf("decode session: %w", err)
	}
	return u, true, nil
}

func (s *Store) ClearSession(ctx context.Context) {
	if err := s.kv.Delete(ctx, storage.KeyUser); err != nil {
		logger.Warn("store.persist_failed", "key", storage.KeyUser, "err", err)
	}
}

// newID returns prefix-<uuidv7>, retrying while taken reports a collision.
func newID(prefix string, taken func(string) bool) string {
	for {
		id := prefix + "-" + uuid.Must(uuid.NewV7()).String()
		if !taken(id) {
			return id
		}
	}
}
