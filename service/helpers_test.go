package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"leetcoders/leetcode"
	"leetcoders/model"
	"leetcoders/repository/memory"

	redisboard "github.com/lijuuu/RedisBoard"
	"github.com/stretchr/testify/require"
)

var (
	_ UserStore           = (*memory.Store)(nil)
	_ ChallengeStore      = (*memory.Store)(nil)
	_ FriendRequestStore  = (*memory.Store)(nil)
	_ DailyChallengeStore = (*memory.Store)(nil)
	_ ChatStore           = (*memory.Store)(nil)
	_ SheetStore          = (*memory.Store)(nil)
	_ DailySource         = (*leetcode.Client)(nil)
	_ StatsFetcher        = (*leetcode.Client)(nil)
	_ RankBoard           = (*redisboard.Leaderboard)(nil)
	_ RankBoard           = (*fakeRankBoard)(nil)
)

var fixedNow = time.Date(2025, time.March, 11, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeFetcher serves snapshots by username; a username mapped to an error
// fails with it.
type fakeFetcher struct {
	mu    sync.Mutex
	snaps map[string]model.Snapshot
	errs  map[string]error
	calls int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{snaps: map[string]model.Snapshot{}, errs: map[string]error{}}
}

func (f *fakeFetcher) set(snap model.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[snap.Username] = snap
}

func (f *fakeFetcher) FetchUser(_ context.Context, username string) (*model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[username]; ok {
		return nil, err
	}
	snap, ok := f.snaps[username]
	if !ok {
		return nil, leetcode.ErrUserNotFound
	}
	return &snap, nil
}

type fakeDailySource struct {
	question    *leetcode.DailyQuestion
	questionErr error
	progress    map[string]int
	progressErr map[string]error
	submissions map[string][]leetcode.Submission
}

func (f *fakeDailySource) FetchDailyQuestion(context.Context) (*leetcode.DailyQuestion, error) {
	if f.questionErr != nil {
		return nil, f.questionErr
	}
	q := *f.question
	return &q, nil
}

func (f *fakeDailySource) FetchUserProgress(_ context.Context, username string) (int, error) {
	if err, ok := f.progressErr[username]; ok {
		return 0, err
	}
	return f.progress[username], nil
}

func (f *fakeDailySource) FetchRecentSubmissions(_ context.Context, username string, limit int) ([]leetcode.Submission, error) {
	subs := f.submissions[username]
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

type sentMail struct {
	To, Title, Link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendDailyReminder(_ context.Context, to, title, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Title: title, Link: link})
	return nil
}

type published struct {
	Subject string
	Payload []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) PublishJSON(subject string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Subject: subject, Payload: raw})
	return nil
}

func (p *fakePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Subject)
	}
	return out
}

// fakeRankBoard keeps the global ranking in memory. Ties order by id, and
// the top list is capped at k when k is positive.
type fakeRankBoard struct {
	mu       sync.Mutex
	scores   map[string]float64
	entities map[string]string
	k        int
	err      error
}

func newFakeRankBoard() *fakeRankBoard {
	return &fakeRankBoard{scores: map[string]float64{}, entities: map[string]string{}}
}

func (b *fakeRankBoard) AddUser(u redisboard.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.scores[u.ID] = u.Score
	b.entities[u.ID] = u.Entity
	return nil
}

func (b *fakeRankBoard) sorted() []redisboard.User {
	out := make([]redisboard.User, 0, len(b.scores))
	for id, score := range b.scores {
		out = append(out, redisboard.User{ID: id, Entity: b.entities[id], Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (b *fakeRankBoard) GetTopKGlobal() ([]redisboard.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	top := b.sorted()
	if len(top) == 0 {
		return nil, errors.New("no users in global leaderboard")
	}
	if b.k > 0 && len(top) > b.k {
		top = top[:b.k]
	}
	return top, nil
}

func (b *fakeRankBoard) GetRankGlobal(userID string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return -1, b.err
	}
	for i, u := range b.sorted() {
		if u.ID == userID {
			return i, nil
		}
	}
	return -1, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) { return "token-" + userID, nil }

// seedUser stores a user straight into the memory store.
func seedUser(t *testing.T, store *memory.Store, snap model.Snapshot, score int) *model.User {
	t.Helper()
	u := &model.User{
		Email:     snap.Username + "@example.com",
		Password:  "$2a$12$notarealhashnotarealhashnotarealhashnotarealhashnot",
		RealName:  "Real " + snap.Username,
		Snapshot:  snap,
		Score:     score,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func requireAppError(t *testing.T, err error, errType string, code int) {
	t.Helper()
	require.Error(t, err)
	var ae *AppError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, errType, ae.Type)
	require.Equal(t, code, ae.Code)
}
