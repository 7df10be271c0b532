// Package memory is an in-process implementation of every store the
// services use. It backs the test suites and STORE=memory runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"leetcoders/model"
	"leetcoders/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu sync.RWMutex

	users          map[primitive.ObjectID]*model.User
	challenges     map[primitive.ObjectID]*model.Challenge
	selfChallenges map[primitive.ObjectID]*model.SelfChallenge
	requests       map[primitive.ObjectID]*model.FriendRequest
	daily          map[string]*model.DailyChallenge
	chats          map[primitive.ObjectID]*model.Chat
	messages       []model.Message
	sheet          []model.SheetQuestion
}

func NewStore() *Store {
	return &Store{
		users:          make(map[primitive.ObjectID]*model.User),
		challenges:     make(map[primitive.ObjectID]*model.Challenge),
		selfChallenges: make(map[primitive.ObjectID]*model.SelfChallenge),
		requests:       make(map[primitive.ObjectID]*model.FriendRequest),
		daily:          make(map[string]*model.DailyChallenge),
		chats:          make(map[primitive.ObjectID]*model.Chat),
	}
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Friends = append([]primitive.ObjectID(nil), u.Friends...)
	c.SheetSolved = append([]string(nil), u.SheetSolved...)
	c.Badges = append([]model.Badge(nil), u.Badges...)
	c.LanguageStats = append([]model.LanguageStat(nil), u.LanguageStats...)
	c.ContestRankingHistory = append([]model.ContestHistory(nil), u.ContestRankingHistory...)
	return &c
}

// Users

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || (u.Email != "" && existing.Email == u.Email) {
			return repository.ErrDuplicate
		}
	}
	ensureID(&u.ID)
	if u.Friends == nil {
		u.Friends = []primitive.ObjectID{}
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (s *Store) ListUserRefs(_ context.Context) ([]model.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.UserRef, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, model.UserRef{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) UpdateSnapshot(_ context.Context, id primitive.ObjectID, snap model.Snapshot, score int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	username := u.Username
	u.Snapshot = snap
	u.Username = username
	u.Score = score
	u.UpdatedAt = at
	return nil
}

func (s *Store) SearchUsers(_ context.Context, query string, limit int) ([]model.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var out []model.UserSummary
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.RealName), q) {
			out = append(out, u.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListLeaderboard(_ context.Context, sortField string, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asc := model.SortAscending(sortField)
	out := make([]model.LeaderboardEntry, 0, len(s.users))
	for _, u := range s.users {
		e := u.Entry(sortField)
		if asc && e.Value <= 0 {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			if asc {
				return out[i].Value < out[j].Value
			}
			return out[i].Value > out[j].Value
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
	}
	return nil
}

func (s *Store) RemoveFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := u.Friends[:0]
	for _, f := range u.Friends {
		if f != friendID {
			kept = append(kept, f)
		}
	}
	u.Friends = kept
	return nil
}

func (s *Store) AddSheetSolved(_ context.Context, userID primitive.ObjectID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, q := range u.SheetSolved {
		if q == questionID {
			return nil
		}
	}
	u.SheetSolved = append(u.SheetSolved, questionID)
	return nil
}
