package service

import (
	"context"
	"sync"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberStore is an in-memory TeamMemberRepository, TeamFinder and
// Transactor. WithTeamLock serializes callbacks per team the way the
// membership version bump does in MongoDB.
type memberStore struct {
	mu      sync.Mutex
	members map[primitive.ObjectID]map[primitive.ObjectID]models.Role
	locks   sync.Map
}

func newMemberStore() *memberStore {
	return &memberStore{members: make(map[primitive.ObjectID]map[primitive.ObjectID]models.Role)}
}

func (s *memberStore) addTeam() primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.members[id] = make(map[primitive.ObjectID]models.Role)
	return id
}

func (s *memberStore) add(teamID primitive.ObjectID, role models.Role) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.members[teamID][id] = role
	return id
}

func (s *memberStore) Exists(_ context.Context, teamID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[teamID]
	return ok, nil
}

func (s *memberStore) Create(_ context.Context, member *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.TeamID][member.UserID]; ok {
		return apperrors.ErrAlreadyMember
	}
	s.members[member.TeamID][member.UserID] = member.Role
	return nil
}

func (s *memberStore) FindByTeamID(_ context.Context, teamID primitive.ObjectID) ([]models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TeamMember
	for userID, role := range s.members[teamID] {
		out = append(out, models.TeamMember{TeamID: teamID, UserID: userID, Role: role})
	}
	return out, nil
}

func (s *memberStore) FindByTeamAndUser(_ context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.members[teamID][userID]
	if !ok {
		return nil, apperrors.ErrNotTeamMember
	}
	return &models.TeamMember{TeamID: teamID, UserID: userID, Role: role}, nil
}

func (s *memberStore) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]models.TeamMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TeamMember
	for teamID, members := range s.members {
		if role, ok := members[userID]; ok {
			out = append(out, models.TeamMember{TeamID: teamID, UserID: userID, Role: role})
		}
	}
	return out, nil
}

func (s *memberStore) CountByRole(_ context.Context, teamID primitive.ObjectID, role models.Role) (int64, error) {
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

func (s *memberStore) UpdateRole(_ context.Context, teamID, userID primitive.ObjectID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[teamID][userID]; !ok {
		return apperrors.ErrNotTeamMember
	}
	s.members[teamID][userID] = role
	return nil
}

func (s *memberStore) Delete(_ context.Context, teamID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[teamID][userID]; !ok {
		return apperrors.ErrNotTeamMember
	}
	delete(s.members[teamID], userID)
	return nil
}

func (s *memberStore) DeleteAllByTeamID(_ context.Context, teamID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[teamID] = make(map[primitive.ObjectID]models.Role)
	return nil
}

func (s *memberStore) DeleteAllByUserID(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, members := range s.members {
		delete(members, userID)
	}
	return nil
}

func (s *memberStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *memberStore) WithTeamLock(ctx context.Context, teamID primitive.ObjectID, fn func(ctx context.Context) error) error {
	if ok, _ := s.Exists(ctx, teamID); !ok {
		return apperrors.ErrTeamNotFound
	}
	lock, _ := s.locks.LoadOrStore(teamID, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
	defer lock.(*sync.Mutex).Unlock()
	return fn(ctx)
}

// streamLog records which streams a service asked to close.
type streamLog struct {
	mu       sync.Mutex
	members  [][2]primitive.ObjectID
	users    []primitive.ObjectID
	channels []primitive.ObjectID
	teams    []primitive.ObjectID
}

func (l *streamLog) DisconnectMember(teamID, userID primitive.ObjectID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.members = append(l.members, [2]primitive.ObjectID{teamID, userID})
	return 1
}

func (l *streamLog) DisconnectUser(userID primitive.ObjectID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = append(l.users, userID)
	return 1
}

func (l *streamLog) DisconnectChannel(channelID primitive.ObjectID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels = append(l.channels, channelID)
	return 1
}

func (l *streamLog) DisconnectTeam(teamID primitive.ObjectID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.teams = append(l.teams, teamID)
	return 1
}
