package memory

import (
	"context"
	"sort"
	"time"

	"leetcoders/model"
	"leetcoders/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func copyChallenge(c *model.Challenge) *model.Challenge {
	out := *c
	if c.EndValueChallenger != nil {
		v := *c.EndValueChallenger
		out.EndValueChallenger = &v
	}
	if c.EndValueOpponent != nil {
		v := *c.EndValueOpponent
		out.EndValueOpponent = &v
	}
	return &out
}

func copySelfChallenge(c *model.SelfChallenge) *model.SelfChallenge {
	out := *c
	if c.EndValueChallenger != nil {
		v := *c.EndValueChallenger
		out.EndValueChallenger = &v
	}
	return &out
}

func (s *Store) InsertChallenge(_ context.Context, c *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	s.challenges[c.ID] = copyChallenge(c)
	return nil
}

func (s *Store) GetChallenge(_ context.Context, id primitive.ObjectID) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyChallenge(c), nil
}

func (s *Store) ListChallenges(_ context.Context, userID primitive.ObjectID, status string) ([]model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Challenge
	for _, c := range s.challenges {
		if (c.Challenger == userID || c.Opponent == userID) && c.Status == status {
			out = append(out, *copyChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return out, nil
}

func (s *Store) ListDueChallenges(_ context.Context, cutoff time.Time) ([]model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Challenge
	for _, c := range s.challenges {
		if c.Status == model.StatusActive && !c.EndDate.After(cutoff) {
			out = append(out, *copyChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (s *Store) CompleteChallenge(_ context.Context, id primitive.ObjectID, endChallenger, endOpponent float64, result string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok || c.Status != model.StatusActive {
		return false, nil
	}
	c.EndValueChallenger = &endChallenger
	c.EndValueOpponent = &endOpponent
	c.Result = result
	c.Status = model.StatusCompleted
	return true, nil
}

func (s *Store) InsertSelfChallenge(_ context.Context, c *model.SelfChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	s.selfChallenges[c.ID] = copySelfChallenge(c)
	return nil
}

func (s *Store) GetSelfChallenge(_ context.Context, id primitive.ObjectID) (*model.SelfChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.selfChallenges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copySelfChallenge(c), nil
}

func (s *Store) ListSelfChallenges(_ context.Context, userID primitive.ObjectID) ([]model.SelfChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SelfChallenge
	for _, c := range s.selfChallenges {
		if c.Challenger == userID {
			out = append(out, *copySelfChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return out, nil
}

func (s *Store) ListDueSelfChallenges(_ context.Context, cutoff time.Time) ([]model.SelfChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SelfChallenge
	for _, c := range s.selfChallenges {
		if c.Status == model.StatusActive && !c.EndDate.After(cutoff) {
			out = append(out, *copySelfChallenge(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func (s *Store) CompleteSelfChallenge(_ context.Context, id primitive.ObjectID, end float64, result string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.selfChallenges[id]
	if !ok || c.Status != model.StatusActive {
		return false, nil
	}
	c.EndValueChallenger = &end
	c.Result = result
	c.Status = model.StatusCompleted
	return true, nil
}
