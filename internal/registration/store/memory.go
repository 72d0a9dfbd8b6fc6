package store

import (
	"context"
	"sort"
	"sync"

	"hackreg/internal/registration/models"
)

// InMemory keeps registrations in process memory. A single mutex covers every
// write path, so the check-then-insert sequences are trivially atomic. It
// intentionally favors clarity over performance.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[string]*models.Registration
	byRoll map[models.RollNumber]string // roll -> registration ID
	byUser map[string]string            // user ID -> registration ID
	teams  map[string]*teamRecord
	order  []string // insertion order of registration IDs
}

type teamRecord struct {
	size    int
	members []string // registration IDs
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[string]*models.Registration),
		byRoll: make(map[models.RollNumber]string),
		byUser: make(map[string]string),
		teams:  make(map[string]*teamRecord),
	}
}

func (s *InMemory) CreateSolo(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(reg); err != nil {
		return err
	}
	r := *reg
	r.TeamName = ""
	r.TeamSize = 1
	s.insert(&r)
	*reg = r
	return nil
}

func (s *InMemory) CreateTeam(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.teams[reg.TeamName]; exists {
		return ErrTeamNameTaken
	}
	if err := s.checkUnique(reg); err != nil {
		return err
	}
	s.teams[reg.TeamName] = &teamRecord{size: reg.TeamSize, members: []string{reg.ID}}
	r := *reg
	s.insert(&r)
	return nil
}

func (s *InMemory) JoinTeam(_ context.Context, reg *models.Registration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, exists := s.teams[reg.TeamName]
	if !exists {
		return false, ErrTeamNotFound
	}
	if len(team.members) >= team.size {
		return false, ErrTeamFull
	}
	if err := s.checkUnique(reg); err != nil {
		return false, err
	}
	// The joiner inherits the team's declared size.
	reg.TeamSize = team.size
	team.members = append(team.members, reg.ID)
	r := *reg
	s.insert(&r)
	return len(team.members) == team.size, nil
}

// checkUnique and insert run under s.mu.
func (s *InMemory) checkUnique(reg *models.Registration) error {
	if _, taken := s.byUser[reg.UserID]; taken {
		return ErrDuplicateUser
	}
	if _, taken := s.byRoll[reg.RollNumber]; taken {
		return ErrRollNumberUsed
	}
	return nil
}

func (s *InMemory) insert(reg *models.Registration) {
	s.byID[reg.ID] = reg
	s.byRoll[reg.RollNumber] = reg.ID
	s.byUser[reg.UserID] = reg.ID
	s.order = append(s.order, reg.ID)
}

func (s *InMemory) FindByUserID(_ context.Context, userID string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byUser[userID]; ok {
		r := *s.byID[id]
		return &r, nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) FindByRollNumber(_ context.Context, roll models.RollNumber) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byRoll[roll]; ok {
		r := *s.byID[id]
		return &r, nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Registration, 0, len(s.order))
	for _, id := range s.order {
		r := *s.byID[id]
		out = append(out, &r)
	}
	return out, nil
}

func (s *InMemory) ListOpenTeams(_ context.Context) ([]models.TeamAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TeamAvailability, 0, len(s.teams))
	for name, team := range s.teams {
		if len(team.members) < team.size {
			out = append(out, models.TeamAvailability{
				TeamName:    name,
				TeamSize:    team.size,
				MemberCount: len(team.members),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out, nil
}
