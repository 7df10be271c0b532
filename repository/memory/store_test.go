package memory

import (
	"context"
	"testing"
	"time"

	"leetcoders/model"
	"leetcoders/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, s *Store, username string, score int) *model.User {
	t.Helper()
	u := &model.User{
		Email:    username + "@example.com",
		Password: "hash",
		RealName: "Real " + username,
		Snapshot: model.Snapshot{Username: username},
		Score:    score,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		test func(*testing.T, *Store)
	}{
		{"duplicate username", func(t *testing.T, s *Store) {
			seedUser(t, s, "alice", 0)
			err := s.CreateUser(ctx, &model.User{Snapshot: model.Snapshot{Username: "alice"}, Email: "other@example.com"})
			assert.ErrorIs(t, err, repository.ErrDuplicate)
		}},
		{"lookup miss", func(t *testing.T, s *Store) {
			_, err := s.GetUserByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, repository.ErrNotFound)
			_, err = s.GetUserByID(ctx, primitive.NewObjectID())
			assert.ErrorIs(t, err, repository.ErrNotFound)
		}},
		{"returned copies are detached", func(t *testing.T, s *Store) {
			u := seedUser(t, s, "alice", 0)
			got, err := s.GetUserByID(ctx, u.ID)
			require.NoError(t, err)
			got.Friends = append(got.Friends, primitive.NewObjectID())
			again, _ := s.GetUserByID(ctx, u.ID)
			assert.Empty(t, again.Friends)
		}},
		{"friend set semantics", func(t *testing.T, s *Store) {
			a := seedUser(t, s, "alice", 0)
			b := seedUser(t, s, "bob", 0)
			require.NoError(t, s.AddFriend(ctx, a.ID, b.ID))
			require.NoError(t, s.AddFriend(ctx, a.ID, b.ID))
			got, _ := s.GetUserByID(ctx, a.ID)
			assert.Equal(t, []primitive.ObjectID{b.ID}, got.Friends)

			require.NoError(t, s.RemoveFriend(ctx, a.ID, b.ID))
			got, _ = s.GetUserByID(ctx, a.ID)
			assert.Empty(t, got.Friends)
		}},
		{"snapshot update keeps username", func(t *testing.T, s *Store) {
			u := seedUser(t, s, "alice", 0)
			at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
			require.NoError(t, s.UpdateSnapshot(ctx, u.ID, model.Snapshot{Username: "Alice", ProblemCount: 12}, 33, at))
			got, _ := s.GetUserByID(ctx, u.ID)
			assert.Equal(t, "alice", got.Username)
			assert.Equal(t, 12, got.ProblemCount)
			assert.Equal(t, 33, got.Score)
			assert.Equal(t, at, got.UpdatedAt)
		}},
		{"leaderboard by score", func(t *testing.T, s *Store) {
			seedUser(t, s, "a", 10)
			seedUser(t, s, "b", 50)
			seedUser(t, s, "c", 30)
			board, err := s.ListLeaderboard(ctx, "score", 2)
			require.NoError(t, err)
			require.Len(t, board, 2)
			assert.Equal(t, "b", board[0].Username)
			assert.Equal(t, "c", board[1].Username)
		}},
		{"leaderboard by ranking skips unranked", func(t *testing.T, s *Store) {
			for name, rank := range map[string]int{"a": 5000, "b": 0, "c": 120} {
				u := seedUser(t, s, name, 0)
				require.NoError(t, s.UpdateSnapshot(ctx, u.ID, model.Snapshot{Ranking: rank}, 0, time.Now()))
			}
			board, err := s.ListLeaderboard(ctx, "ranking", 10)
			require.NoError(t, err)
			require.Len(t, board, 2)
			assert.Equal(t, "c", board[0].Username)
			assert.Equal(t, float64(120), board[0].Value)
		}},
		{"search is case insensitive and capped", func(t *testing.T, s *Store) {
			seedUser(t, s, "Alice", 5)
			seedUser(t, s, "malice", 9)
			seedUser(t, s, "bob", 1)
			got, err := s.SearchUsers(ctx, "ALI", 1)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "malice", got[0].Username)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.test(t, NewStore())
		})
	}
}

func TestChallengeCompletionIsConditional(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &model.Challenge{Criterion: model.CriterionProblemCount, Status: model.StatusActive, Result: model.ResultPending, EndDate: end}
	require.NoError(t, s.InsertChallenge(ctx, c))

	due, err := s.ListDueChallenges(ctx, end)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	ok, err := s.CompleteChallenge(ctx, c.ID, 40, 35, model.ResultChallenger)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompleteChallenge(ctx, c.ID, 1, 2, model.ResultOpponent)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := s.GetChallenge(ctx, c.ID)
	assert.Equal(t, 40.0, *got.EndValueChallenger)
	assert.Equal(t, model.ResultChallenger, got.Result)

	due, _ = s.ListDueChallenges(ctx, end)
	assert.Empty(t, due)
}

func TestDailyChallengeMarkCompleted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.InsertDailyChallenge(ctx, &model.DailyChallenge{Date: "2024-03-01", UnsolvedUsers: []string{"a", "b"}}))
	assert.ErrorIs(t, s.InsertDailyChallenge(ctx, &model.DailyChallenge{Date: "2024-03-01"}), repository.ErrDuplicate)

	ok, err := s.MarkDailyCompleted(ctx, "2024-03-01", model.CompletedUser{Username: "a", SubmissionID: "1"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.MarkDailyCompleted(ctx, "2024-03-01", model.CompletedUser{Username: "a", SubmissionID: "2"})
	assert.False(t, ok)

	d, _ := s.GetDailyChallenge(ctx, "2024-03-01")
	assert.Equal(t, []string{"b"}, d.UnsolvedUsers)
	require.Len(t, d.CompletedUsers, 1)
	assert.Equal(t, "1", d.CompletedUsers[0].SubmissionID)
}

func TestFriendRequestUniquePair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, s.InsertFriendRequest(ctx, &model.FriendRequest{Sender: a, Receiver: b, Status: model.RequestPending}))
	assert.ErrorIs(t, s.InsertFriendRequest(ctx, &model.FriendRequest{Sender: a, Receiver: b, Status: model.RequestPending}), repository.ErrDuplicate)
	assert.NoError(t, s.InsertFriendRequest(ctx, &model.FriendRequest{Sender: b, Receiver: a, Status: model.RequestPending}))
}

func TestChatMembership(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	chat := &model.Chat{ChatName: "sender", Users: []primitive.ObjectID{a, b}}
	require.NoError(t, s.InsertChat(ctx, chat))

	found, err := s.FindDirectChat(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)

	added, err := s.AddChatMember(ctx, chat.ID, c, time.Now())
	require.NoError(t, err)
	assert.True(t, added)
	added, _ = s.AddChatMember(ctx, chat.ID, c, time.Now())
	assert.False(t, added)

	removed, _ := s.RemoveChatMember(ctx, chat.ID, c, time.Now())
	assert.True(t, removed)
	removed, _ = s.RemoveChatMember(ctx, chat.ID, c, time.Now())
	assert.False(t, removed)
}
