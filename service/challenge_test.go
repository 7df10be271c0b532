package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/natsclient"
	"leetcoders/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newChallengeService wires the service to the memory store. A nil pub runs
// it without a broker.
func newChallengeService(store *memory.Store, pub *fakePublisher) *ChallengeService {
	var events EventPublisher
	if pub != nil {
		events = pub
	}
	s := NewChallengeService(store, store, events, logger.NewNop())
	s.now = fixedClock
	return s
}

func setProblemCount(t *testing.T, store *memory.Store, u *model.User, count int) {
	t.Helper()
	snap := u.Snapshot
	snap.ProblemCount = count
	require.NoError(t, store.UpdateSnapshot(context.Background(), u.ID, snap, u.Score, fixedNow))
}

func TestChallengeService_PairwiseResolution(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		startA, startB int
		endA, endB     int
		want           string
	}{
		{"challenger ahead", 10, 15, 40, 35, model.ResultChallenger},
		{"opponent ahead", 10, 15, 20, 35, model.ResultOpponent},
		{"equal end values tie", 10, 15, 30, 30, model.ResultTie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			pub := &fakePublisher{}
			svc := newChallengeService(store, pub)

			a := seedUser(t, store, model.Snapshot{Username: "alice", ProblemCount: tt.startA}, 0)
			b := seedUser(t, store, model.Snapshot{Username: "bob", ProblemCount: tt.startB}, 0)

			c, err := svc.CreateChallenge(ctx, "alice", "bob", "problemCount", fixedNow.Add(-24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, float64(tt.startA), c.StartValueChallenger)
			assert.Equal(t, float64(tt.startB), c.StartValueOpponent)
			assert.Equal(t, model.StatusActive, c.Status)
			assert.Equal(t, model.ResultPending, c.Result)

			setProblemCount(t, store, a, tt.endA)
			setProblemCount(t, store, b, tt.endB)

			summary, err := svc.ResolveDueChallenges(ctx, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Challenges)

			got, err := store.GetChallenge(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCompleted, got.Status)
			assert.Equal(t, tt.want, got.Result)
			require.NotNil(t, got.EndValueChallenger)
			require.NotNil(t, got.EndValueOpponent)
			assert.Equal(t, float64(tt.endA), *got.EndValueChallenger)
			assert.Equal(t, float64(tt.endB), *got.EndValueOpponent)

			require.Len(t, pub.events, 1)
			assert.Equal(t, natsclient.SubjectChallengeCompleted, pub.events[0].Subject)
			var ev model.ChallengeEvent
			require.NoError(t, json.Unmarshal(pub.events[0].Payload, &ev))
			assert.Equal(t, tt.want, ev.Result)
			assert.Equal(t, []float64{float64(tt.endA), float64(tt.endB)}, ev.EndValues)
		})
	}
}

func TestChallengeService_ResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	pub := &fakePublisher{}
	svc := newChallengeService(store, pub)

	a := seedUser(t, store, model.Snapshot{Username: "alice", ProblemCount: 10}, 0)
	seedUser(t, store, model.Snapshot{Username: "bob", ProblemCount: 15}, 0)
	c, err := svc.CreateChallenge(ctx, "alice", "bob", "problemCount", fixedNow.Add(-time.Hour*48))
	require.NoError(t, err)
	setProblemCount(t, store, a, 40)

	first, err := svc.ResolveDueChallenges(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Challenges)

	setProblemCount(t, store, a, 5)
	second, err := svc.ResolveDueChallenges(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, ResolveSummary{}, second)

	got, err := store.GetChallenge(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResultChallenger, got.Result)
	assert.Equal(t, 40.0, *got.EndValueChallenger)
	assert.Len(t, pub.events, 1)

	_, err = svc.EndChallenge(ctx, "", c.ID.Hex())
	requireAppError(t, err, ErrTypeConflict, http.StatusConflict)
}

func TestChallengeService_DueCutoff(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newChallengeService(store, nil)

	seedUser(t, store, model.Snapshot{Username: "alice"}, 0)
	seedUser(t, store, model.Snapshot{Username: "bob"}, 0)

	midnight := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	atMidnight, err := svc.CreateChallenge(ctx, "alice", "bob", "ranking", midnight)
	require.NoError(t, err)
	laterToday, err := svc.CreateChallenge(ctx, "alice", "bob", "ranking", midnight.Add(20*time.Hour))
	require.NoError(t, err)

	summary, err := svc.ResolveDueChallenges(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Challenges)

	got, err := store.GetChallenge(ctx, atMidnight.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, model.ResultTie, got.Result)

	got, err = store.GetChallenge(ctx, laterToday.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestChallengeService_SelfChallenge(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		start   int
		target  float64
		current int
		want    string
	}{
		{"grew short of target", 5, 30, 20, model.ResultWon},
		{"unchanged", 5, 30, 5, model.ResultLost},
		{"past target", 5, 30, 31, model.ResultWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			pub := &fakePublisher{}
			svc := newChallengeService(store, pub)

			u := seedUser(t, store, model.Snapshot{Username: "alice", TotalActiveDays: tt.start}, 0)
			c, err := svc.CreateSelfChallenge(ctx, u.ID.Hex(), "totalActiveDays", tt.target, fixedNow.Add(-time.Minute))
			require.NoError(t, err)
			assert.Equal(t, float64(tt.start), c.StartValueChallenger)
			assert.Equal(t, tt.target, c.TargetValueChallenger)

			snap := u.Snapshot
			snap.TotalActiveDays = tt.current
			require.NoError(t, store.UpdateSnapshot(ctx, u.ID, snap, 0, fixedNow))

			summary, err := svc.ResolveDueChallenges(ctx, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.SelfChallenges)

			got, err := store.GetSelfChallenge(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCompleted, got.Status)
			assert.Equal(t, tt.want, got.Result)
			require.NotNil(t, got.EndValueChallenger)
			assert.Equal(t, float64(tt.current), *got.EndValueChallenger)
			assert.Equal(t, []string{natsclient.SubjectSelfChallengeCompleted}, pub.subjects())
		})
	}
}

func TestChallengeService_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newChallengeService(store, nil)
	alice := seedUser(t, store, model.Snapshot{Username: "alice", Ranking: 1200}, 0)
	seedUser(t, store, model.Snapshot{Username: "bob", Ranking: 900}, 0)

	tests := []struct {
		name       string
		challenger string
		opponent   string
		criterion  string
		errType    string
		code       int
	}{
		{"unknown criterion", "alice", "bob", "reputation", ErrTypeValidation, http.StatusBadRequest},
		{"unknown opponent", "alice", "carol", "ranking", ErrTypeNotFound, http.StatusNotFound},
		{"unknown challenger", "carol", "bob", "ranking", ErrTypeNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateChallenge(ctx, tt.challenger, tt.opponent, tt.criterion, fixedNow.Add(time.Hour))
			requireAppError(t, err, tt.errType, tt.code)
		})
	}

	t.Run("self pairing is allowed", func(t *testing.T) {
		c, err := svc.CreateChallenge(ctx, "alice", "alice", "ranking", fixedNow.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, alice.ID, c.Challenger)
		assert.Equal(t, alice.ID, c.Opponent)
	})

	t.Run("self challenge rejects bad criterion", func(t *testing.T) {
		_, err := svc.CreateSelfChallenge(ctx, alice.ID.Hex(), "score", 10, fixedNow.Add(time.Hour))
		requireAppError(t, err, ErrTypeValidation, http.StatusBadRequest)
	})
}

func TestChallengeService_EndChallenge(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newChallengeService(store, nil)
	seedUser(t, store, model.Snapshot{Username: "alice", ContestRating: 1500}, 0)
	bob := seedUser(t, store, model.Snapshot{Username: "bob", ContestRating: 1600}, 0)

	c, err := svc.CreateChallenge(ctx, "alice", "bob", "contestRating", fixedNow.Add(72*time.Hour))
	require.NoError(t, err)

	_, err = svc.EndChallenge(ctx, primitive.NewObjectID().Hex(), c.ID.Hex())
	requireAppError(t, err, ErrTypeForbidden, http.StatusForbidden)

	_, err = svc.EndChallenge(ctx, bob.ID.Hex(), primitive.NewObjectID().Hex())
	requireAppError(t, err, ErrTypeNotFound, http.StatusNotFound)

	ended, err := svc.EndChallenge(ctx, bob.ID.Hex(), c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, ended.Status)
	assert.Equal(t, model.ResultOpponent, ended.Result)

	_, err = svc.EndChallenge(ctx, bob.ID.Hex(), c.ID.Hex())
	requireAppError(t, err, ErrTypeConflict, http.StatusConflict)
}

func TestChallengeService_Listing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newChallengeService(store, nil)
	alice := seedUser(t, store, model.Snapshot{Username: "alice", ProblemCount: 10}, 0)
	seedUser(t, store, model.Snapshot{Username: "bob", ProblemCount: 15}, 0)

	soon, err := svc.CreateChallenge(ctx, "alice", "bob", "problemCount", fixedNow.Add(24*time.Hour))
	require.NoError(t, err)
	later, err := svc.CreateChallenge(ctx, "bob", "alice", "problemCount", fixedNow.Add(48*time.Hour))
	require.NoError(t, err)
	done, err := svc.CreateChallenge(ctx, "alice", "bob", "problemCount", fixedNow.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = svc.ResolveDueChallenges(ctx, fixedNow)
	require.NoError(t, err)

	setProblemCount(t, store, alice, 25)

	active, err := svc.GetActiveChallenges(ctx, alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, later.ID, active[0].ID)
	assert.Equal(t, soon.ID, active[1].ID)
	assert.Equal(t, "alice", active[1].Challenger.Username)
	assert.Equal(t, "bob", active[1].Opponent.Username)
	require.NotNil(t, active[1].CurrentValueChallenger)
	assert.Equal(t, 25.0, *active[1].CurrentValueChallenger)
	assert.Equal(t, 15.0, *active[1].CurrentValueOpponent)

	completed, err := svc.GetCompletedChallenges(ctx, alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)
	assert.Nil(t, completed[0].CurrentValueChallenger)
	assert.Equal(t, model.ResultOpponent, completed[0].Result)

	_, err = svc.CreateSelfChallenge(ctx, alice.ID.Hex(), "problemCount", 50, fixedNow.Add(24*time.Hour))
	require.NoError(t, err)
	self, err := svc.GetSelfChallenges(ctx, alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, 25.0, self[0].CurrentValueChallenger)
	assert.Equal(t, 25.0, self[0].StartValueChallenger)
	assert.Equal(t, "alice", self[0].Challenger.Username)

	_, err = svc.GetActiveChallenges(ctx, "not-an-id")
	requireAppError(t, err, ErrTypeValidation, http.StatusBadRequest)
}

func TestChallengeService_ResolvesWithoutBroker(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		events EventPublisher
	}{
		{"no publisher", nil},
		{"nil publisher pointer", (*fakePublisher)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			svc := NewChallengeService(store, store, tt.events, logger.NewNop())
			svc.now = fixedClock
			a := seedUser(t, store, model.Snapshot{Username: "alice", ProblemCount: 10}, 0)
			seedUser(t, store, model.Snapshot{Username: "bob", ProblemCount: 15}, 0)

			c, err := svc.CreateChallenge(ctx, "alice", "bob", "problemCount", fixedNow.Add(-24*time.Hour))
			require.NoError(t, err)
			setProblemCount(t, store, a, 40)

			summary, err := svc.ResolveDueChallenges(ctx, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Challenges)
			assert.Zero(t, summary.Failed)

			got, err := store.GetChallenge(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCompleted, got.Status)
			assert.Equal(t, model.ResultChallenger, got.Result)
		})
	}
}

func TestOptionalDependencies(t *testing.T) {
	var nilPub *fakePublisher
	var nilBoard *fakeRankBoard

	// interface comparisons: a nil pointer stored in the interface is not == nil
	assert.True(t, optionalPublisher(nil) == nil)
	assert.True(t, optionalPublisher(nilPub) == nil)
	assert.False(t, optionalPublisher(&fakePublisher{}) == nil)
	assert.True(t, optionalRankBoard(nilBoard) == nil)
	assert.False(t, optionalRankBoard(newFakeRankBoard()) == nil)

	store := memory.NewStore()
	chat := NewChatService(store, store, nilPub, logger.NewNop())
	assert.True(t, chat.events == nil)
	daily := NewDailyChallengeService(store, store, &fakeDailySource{}, &fakeMailer{}, nilPub, nil, time.Minute, 1, logger.NewNop())
	assert.True(t, daily.events == nil)
}
