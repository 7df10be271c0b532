package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"leetcoders/cache"
	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/score"

	"github.com/google/uuid"
	redisboard "github.com/lijuuu/RedisBoard"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSortField        = "score"
	DefaultLeaderboardLimit = 100
	maxLeaderboardLimit     = 1000

	// RankBoardSize is how many users the rank board lists at the top.
	RankBoardSize = DefaultLeaderboardLimit

	leaderboardVersionKey = "leaderboard:version"
)

// RefreshSummary reports one leaderboard refresh.
type RefreshSummary struct {
	Users   int `json:"users"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// LeaderboardService ranks users and keeps their snapshots fresh.
type LeaderboardService struct {
	users       UserStore
	fetcher     StatsFetcher
	ranks       RankBoard
	rankSize    int
	cache       cache.Cache
	cacheTTL    time.Duration
	concurrency int
	logger      *logger.Logger
	now         Clock
}

// NewLeaderboardService builds the service. ranks may be nil, in which case
// every board is read from the user store.
func NewLeaderboardService(users UserStore, fetcher StatsFetcher, ranks RankBoard, c cache.Cache, cacheTTL time.Duration, concurrency int, log *logger.Logger) *LeaderboardService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &LeaderboardService{
		users:       users,
		fetcher:     fetcher,
		ranks:       optionalRankBoard(ranks),
		rankSize:    RankBoardSize,
		cache:       c,
		cacheTTL:    cacheTTL,
		concurrency: concurrency,
		logger:      log,
		now:         time.Now,
	}
}

// GetLeaderboard returns at most limit users ordered by sortField. Ranking
// sorts ascending and leaves unranked users out; every other field sorts
// descending.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, sortField string, limit int) ([]model.LeaderboardEntry, error) {
	traceID := uuid.New().String()
	if sortField == "" {
		sortField = DefaultSortField
	}
	if _, ok := model.SortFields[sortField]; !ok {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Invalid sort field", map[string]any{
			"method":    "GetLeaderboard",
			"sortField": sortField,
			"errorType": ErrTypeValidation,
		}, "SERVICE", nil)
		return nil, validationError(fmt.Sprintf("Invalid sort field %q", sortField))
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	key := s.cacheKey(ctx, sortField, limit)
	if key != "" {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var entries []model.LeaderboardEntry
			if err := json.Unmarshal(raw, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, ok := s.fromRankBoard(ctx, traceID, sortField, limit)
	if !ok {
		var err error
		entries, err = s.users.ListLeaderboard(ctx, sortField, limit)
		if err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to load leaderboard", map[string]any{
				"method":    "GetLeaderboard",
				"sortField": sortField,
				"errorType": ErrTypeDB,
			}, "SERVICE", err)
			return nil, dbError("Failed to load leaderboard", err)
		}
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}

	if key != "" {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				s.logger.Log(zapcore.WarnLevel, traceID, "Cache write failed", map[string]any{
					"method":    "GetLeaderboard",
					"key":       key,
					"errorType": "CACHE_ERROR",
				}, "SERVICE", err)
			}
		}
	}
	return entries, nil
}

// RefreshAll refetches every user's snapshot and recomputes the score.
// A failure for one user is logged and skipped.
func (s *LeaderboardService) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting leaderboard refresh", map[string]any{
		"method":      "RefreshAll",
		"concurrency": s.concurrency,
	}, "SERVICE", nil)

	refs, err := s.users.ListUserRefs(ctx)
	if err != nil {
		return RefreshSummary{}, dbError("Failed to list users", err)
	}

	var updated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			snap, err := s.fetcher.FetchUser(gctx, ref.Username)
			if err != nil {
				failed.Add(1)
				s.logger.Log(zapcore.WarnLevel, traceID, "Failed to fetch user stats", map[string]any{
					"method":    "RefreshAll",
					"username":  ref.Username,
					"errorType": fetchError(err).Type,
				}, "SERVICE", err)
				return nil
			}
			points := score.Calculate(*snap)
			if err := s.users.UpdateSnapshot(gctx, ref.ID, *snap, points, s.now().UTC()); err != nil {
				failed.Add(1)
				s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to update user stats", map[string]any{
					"method":    "RefreshAll",
					"username":  ref.Username,
					"errorType": ErrTypeDB,
				}, "SERVICE", err)
				return nil
			}
			addToRankBoard(s.ranks, s.logger, traceID, "RefreshAll", ref.ID, snap.Country, points)
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	s.invalidate(ctx)

	summary := RefreshSummary{Users: len(refs), Updated: int(updated.Load()), Failed: int(failed.Load())}
	s.logger.Log(zapcore.InfoLevel, traceID, "Leaderboard refresh finished", map[string]any{
		"method":  "RefreshAll",
		"users":   summary.Users,
		"updated": summary.Updated,
		"failed":  summary.Failed,
	}, "SERVICE", nil)
	return summary, nil
}

// fromRankBoard serves the score board from the rank board. It reports
// false when the board is unavailable, cannot cover limit, or lists a user
// the store does not know, and the caller then reads the store instead.
func (s *LeaderboardService) fromRankBoard(ctx context.Context, traceID, sortField string, limit int) ([]model.LeaderboardEntry, bool) {
	if s.ranks == nil || sortField != DefaultSortField {
		return nil, false
	}
	start := time.Now()
	top, err := s.ranks.GetTopKGlobal()
	// a board shorter than its size holds every user
	if err != nil || len(top) == 0 || (len(top) < limit && len(top) >= s.rankSize) {
		s.logger.Log(zapcore.WarnLevel, traceID, "Rank board miss", map[string]any{
			"method":   "GetLeaderboard",
			"listed":   len(top),
			"limit":    limit,
			"duration": time.Since(start).String(),
		}, "SERVICE", err)
		return nil, false
	}
	if len(top) > limit {
		top = top[:limit]
	}

	ids := make([]primitive.ObjectID, 0, len(top))
	for _, u := range top {
		id, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil || len(users) != len(ids) {
		return nil, false
	}
	byID := make(map[primitive.ObjectID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	entries := make([]model.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, false
		}
		entries = append(entries, u.Entry(sortField))
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Retrieved leaderboard from rank board", map[string]any{
		"method":   "GetLeaderboard",
		"count":    len(entries),
		"duration": time.Since(start).String(),
	}, "SERVICE", nil)
	return entries, true
}

// addToRankBoard records the user's score on the board, grouped by country.
// Failures are logged; the user store stays the source of truth.
func addToRankBoard(ranks RankBoard, log *logger.Logger, traceID, method string, id primitive.ObjectID, country string, points int) {
	if ranks == nil {
		return
	}
	if err := ranks.AddUser(redisboard.User{ID: id.Hex(), Entity: country, Score: float64(points)}); err != nil {
		log.Log(zapcore.WarnLevel, traceID, "Failed to update rank board", map[string]any{
			"method":    method,
			"userId":    id.Hex(),
			"errorType": "RANKBOARD_ERROR",
		}, "SERVICE", err)
	}
}

// cacheKey namespaces entries under the current version so a single write
// to the version key invalidates every cached board.
func (s *LeaderboardService) cacheKey(ctx context.Context, sortField string, limit int) string {
	if s.cache == nil {
		return ""
	}
	version := "0"
	if raw, err := s.cache.Get(ctx, leaderboardVersionKey); err == nil && raw != nil {
		version = string(raw)
	}
	return fmt.Sprintf("leaderboard:%s:%s:%d", version, sortField, limit)
}

func (s *LeaderboardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	version := uuid.New().String()
	if err := s.cache.Set(ctx, leaderboardVersionKey, []byte(version), 0); err != nil {
		s.logger.Log(zapcore.WarnLevel, uuid.New().String(), "Failed to invalidate leaderboard cache", map[string]any{
			"method":    "invalidate",
			"errorType": "CACHE_ERROR",
		}, "SERVICE", err)
	}
}
