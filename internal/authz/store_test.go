package authz

import (
	"context"
	"sync"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory MembershipStore and TeamFinder for tests.
type memStore struct {
	mu      sync.Mutex
	teams   map[primitive.ObjectID]bool
	members map[primitive.ObjectID]map[primitive.ObjectID]models.Role
	err     error

	// locks serializes mutations per team, like a team transaction.
	locks sync.Map
}

func newMemStore() *memStore {
	return &memStore{
		teams:   make(map[primitive.ObjectID]bool),
		members: make(map[primitive.ObjectID]map[primitive.ObjectID]models.Role),
	}
}

func (s *memStore) addTeam() primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.teams[id] = true
	s.members[id] = make(map[primitive.ObjectID]models.Role)
	return id
}

func (s *memStore) addMember(teamID primitive.ObjectID, role models.Role) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.members[teamID][id] = role
	return id
}

func (s *memStore) FindByTeamAndUser(_ context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	role, ok := s.members[teamID][userID]
	if !ok {
		return nil, apperrors.ErrNotTeamMember
	}
	return &models.TeamMember{TeamID: teamID, UserID: userID, Role: role}, nil
}

func (s *memStore) CountByRole(_ context.Context, teamID primitive.ObjectID, role models.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.members[teamID] {
		if r == role {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Exists(_ context.Context, teamID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams[teamID], nil
}

func (s *memStore) updateRole(teamID, userID primitive.ObjectID, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[teamID][userID] = role
}

func (s *memStore) remove(teamID, userID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members[teamID], userID)
}

func (s *memStore) withTeamLock(teamID primitive.ObjectID, fn func() error) error {
	l, _ := s.locks.LoadOrStore(teamID, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// fixedAdminCount reports a set admin count, standing in for a count read
// after a concurrent demotion committed.
type fixedAdminCount struct {
	*memStore
	admins int64
}

func (f fixedAdminCount) CountByRole(ctx context.Context, teamID primitive.ObjectID, role models.Role) (int64, error) {
	if role == RoleAdmin {
		return f.admins, nil
	}
	return f.memStore.CountByRole(ctx, teamID, role)
}
