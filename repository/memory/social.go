package memory

import (
	"context"
	"sort"
	"time"

	"leetcoders/model"
	"leetcoders/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend requests

func (s *Store) InsertFriendRequest(_ context.Context, r *model.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.Sender == r.Sender && existing.Receiver == r.Receiver {
			return repository.ErrDuplicate
		}
	}
	ensureID(&r.ID)
	c := *r
	s.requests[r.ID] = &c
	return nil
}

func (s *Store) GetFriendRequest(_ context.Context, id primitive.ObjectID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (s *Store) FindFriendRequest(_ context.Context, sender, receiver primitive.ObjectID) (*model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.Sender == sender && r.Receiver == receiver {
			c := *r
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListPendingRequests(_ context.Context, receiver primitive.ObjectID) ([]model.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.FriendRequest
	for _, r := range s.requests {
		if r.Receiver == receiver && r.Status == model.RequestPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SetRequestStatus(_ context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

// Daily challenges

func copyDaily(d *model.DailyChallenge) *model.DailyChallenge {
	c := *d
	c.UnsolvedUsers = append([]string{}, d.UnsolvedUsers...)
	c.CompletedUsers = append([]model.CompletedUser{}, d.CompletedUsers...)
	return &c
}

func (s *Store) InsertDailyChallenge(_ context.Context, d *model.DailyChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.daily[d.Date]; ok {
		return repository.ErrDuplicate
	}
	s.daily[d.Date] = copyDaily(d)
	return nil
}

func (s *Store) GetDailyChallenge(_ context.Context, date string) (*model.DailyChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.daily[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDaily(d), nil
}

func (s *Store) MarkDailyCompleted(_ context.Context, date string, cu model.CompletedUser) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.daily[date]
	if !ok || !d.IsUnsolved(cu.Username) {
		return false, nil
	}
	kept := make([]string, 0, len(d.UnsolvedUsers))
	for _, u := range d.UnsolvedUsers {
		if u != cu.Username {
			kept = append(kept, u)
		}
	}
	d.UnsolvedUsers = kept
	d.CompletedUsers = append(d.CompletedUsers, cu)
	return true, nil
}

// Chats

func copyChat(c *model.Chat) *model.Chat {
	out := *c
	out.Users = append([]primitive.ObjectID(nil), c.Users...)
	if c.LatestMessage != nil {
		lm := *c.LatestMessage
		out.LatestMessage = &lm
	}
	return &out
}

func (s *Store) FindDirectChat(_ context.Context, a, b primitive.ObjectID) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chats {
		if !c.IsGroup && len(c.Users) == 2 && c.HasMember(a) && c.HasMember(b) {
			return copyChat(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) InsertChat(_ context.Context, c *model.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	s.chats[c.ID] = copyChat(c)
	return nil
}

func (s *Store) GetChat(_ context.Context, id primitive.ObjectID) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyChat(c), nil
}

func (s *Store) ListChatsForUser(_ context.Context, userID primitive.ObjectID) ([]model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Chat
	for _, c := range s.chats {
		if c.HasMember(userID) {
			out = append(out, *copyChat(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) RenameChat(_ context.Context, id primitive.ObjectID, name string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.ChatName = name
	c.UpdatedAt = at
	return nil
}

func (s *Store) AddChatMember(_ context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if c.HasMember(userID) {
		return false, nil
	}
	c.Users = append(c.Users, userID)
	c.UpdatedAt = at
	return true, nil
}

func (s *Store) RemoveChatMember(_ context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !c.HasMember(userID) {
		return false, nil
	}
	kept := make([]primitive.ObjectID, 0, len(c.Users))
	for _, u := range c.Users {
		if u != userID {
			kept = append(kept, u)
		}
	}
	c.Users = kept
	c.UpdatedAt = at
	return true, nil
}

func (s *Store) InsertMessage(_ context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&m.ID)
	s.messages = append(s.messages, *m)
	return nil
}

func (s *Store) SetLatestMessage(_ context.Context, chatID primitive.ObjectID, lm model.LatestMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[chatID]
	if !ok {
		return repository.ErrNotFound
	}
	c.LatestMessage = &lm
	c.UpdatedAt = lm.Timestamp
	return nil
}

func (s *Store) ListMessages(_ context.Context, chatID primitive.ObjectID) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Message{}
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// Sheet

// SeedSheet replaces the curated question list.
func (s *Store) SeedSheet(questions []model.SheetQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet = append([]model.SheetQuestion(nil), questions...)
}

func (s *Store) ListSheetQuestions(_ context.Context) ([]model.SheetQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SheetQuestion{}, s.sheet...), nil
}

func (s *Store) GetSheetQuestion(_ context.Context, id string) (*model.SheetQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.sheet {
		if q.ID == id {
			c := q
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}
