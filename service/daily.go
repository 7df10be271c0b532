package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"leetcoders/cache"
	"leetcoders/leetcode"
	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/natsclient"
	"leetcoders/repository"
	"leetcoders/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const dailyCachePrefix = "dailychallenge:"

// RequiredProgress is the monthly-progress percentage a user must sit at to
// be tracked for today: the share of the month elapsed daysBack days ago,
// floored, or 0 early in the month.
func RequiredProgress(now time.Time, daysBack int) int {
	elapsed := now.UTC().Day() - daysBack
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(float64(elapsed) / float64(utils.DaysInMonth(now)) * 100))
}

// ShouldTrack selects users whose progress matches the requirement exactly.
// Users ahead of or behind the pace are not tracked.
func ShouldTrack(progress, required int) bool {
	return progress == required
}

// DailyInitSummary reports one Init run.
type DailyInitSummary struct {
	Date    string `json:"date"`
	Created bool   `json:"created"`
	Tracked int    `json:"tracked"`
	Failed  int    `json:"failed"`
}

// DailyPollSummary reports one Poll run.
type DailyPollSummary struct {
	Date      string `json:"date"`
	Checked   int    `json:"checked"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// DailyChallengeService tracks which users solved the platform's daily
// problem.
type DailyChallengeService struct {
	users       UserStore
	daily       DailyChallengeStore
	source      DailySource
	mailer      ReminderSender
	events      EventPublisher
	cache       cache.Cache
	cacheTTL    time.Duration
	concurrency int
	logger      *logger.Logger
	now         Clock
}

func NewDailyChallengeService(users UserStore, daily DailyChallengeStore, source DailySource, mailer ReminderSender, events EventPublisher, c cache.Cache, cacheTTL time.Duration, concurrency int, log *logger.Logger) *DailyChallengeService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &DailyChallengeService{
		users:       users,
		daily:       daily,
		source:      source,
		mailer:      mailer,
		events:      optionalPublisher(events),
		cache:       c,
		cacheTTL:    cacheTTL,
		concurrency: concurrency,
		logger:      log,
		now:         time.Now,
	}
}

// Init creates today's record from the daily question and the users whose
// monthly progress matches the required pace. An existing record is left
// untouched.
func (s *DailyChallengeService) Init(ctx context.Context) (DailyInitSummary, error) {
	traceID := uuid.New().String()
	now := s.now()
	date := utils.DateKey(now)
	summary := DailyInitSummary{Date: date}

	s.logger.Log(zapcore.InfoLevel, traceID, "Starting daily challenge init", map[string]any{
		"method": "Init",
		"date":   date,
	}, "SERVICE", nil)

	if _, err := s.daily.GetDailyChallenge(ctx, date); err == nil {
		s.logger.Log(zapcore.InfoLevel, traceID, "Daily challenge already initialized", map[string]any{
			"method": "Init",
			"date":   date,
		}, "SERVICE", nil)
		return summary, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return summary, dbError("Failed to look up daily challenge", err)
	}

	question, err := s.source.FetchDailyQuestion(ctx)
	if err != nil {
		ae := fetchError(err)
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to fetch daily question", map[string]any{
			"method":    "Init",
			"errorType": ae.Type,
		}, "SERVICE", err)
		return summary, ae
	}

	refs, err := s.users.ListUserRefs(ctx)
	if err != nil {
		return summary, dbError("Failed to list users", err)
	}

	required := RequiredProgress(now, 1)
	tracked := make([]bool, len(refs))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			progress, err := s.source.FetchUserProgress(gctx, ref.Username)
			if err != nil {
				failed.Add(1)
				s.logger.Log(zapcore.WarnLevel, traceID, "Failed to fetch user progress", map[string]any{
					"method":    "Init",
					"username":  ref.Username,
					"errorType": ErrTypeUpstream,
				}, "SERVICE", err)
				return nil
			}
			tracked[i] = ShouldTrack(progress, required)
			return nil
		})
	}
	_ = g.Wait()

	record := &model.DailyChallenge{
		Date:           date,
		Title:          question.Title,
		Link:           question.Link,
		UnsolvedUsers:  []string{},
		CompletedUsers: []model.CompletedUser{},
	}
	for i, ref := range refs {
		if tracked[i] {
			record.UnsolvedUsers = append(record.UnsolvedUsers, ref.Username)
		}
	}

	if err := s.daily.InsertDailyChallenge(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return summary, nil
		}
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to save daily challenge", map[string]any{
			"method":    "Init",
			"date":      date,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return summary, dbError("Failed to save daily challenge", err)
	}
	s.invalidate(ctx, date)

	summary.Created = true
	summary.Tracked = len(record.UnsolvedUsers)
	summary.Failed = int(failed.Load())
	s.logger.Log(zapcore.InfoLevel, traceID, "Daily challenge initialized", map[string]any{
		"method":   "Init",
		"date":     date,
		"title":    record.Title,
		"required": required,
		"tracked":  summary.Tracked,
		"failed":   summary.Failed,
	}, "SERVICE", nil)
	return summary, nil
}

// Poll checks each unsolved user's recent accepted submissions for the
// daily problem and moves matches to the completed list.
func (s *DailyChallengeService) Poll(ctx context.Context) (DailyPollSummary, error) {
	traceID := uuid.New().String()
	date := utils.DateKey(s.now())
	summary := DailyPollSummary{Date: date}

	record, err := s.daily.GetDailyChallenge(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Log(zapcore.InfoLevel, traceID, "No daily challenge found for today", map[string]any{
				"method": "Poll",
				"date":   date,
			}, "SERVICE", nil)
			return summary, nil
		}
		return summary, dbError("Failed to load daily challenge", err)
	}

	var (
		mu        sync.Mutex
		completed []model.CompletedUser
		failed    atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, username := range record.UnsolvedUsers {
		g.Go(func() error {
			subs, err := s.source.FetchRecentSubmissions(gctx, username, leetcode.DefaultSubmissionLimit)
			if err != nil {
				failed.Add(1)
				s.logger.Log(zapcore.WarnLevel, traceID, "Failed to fetch recent submissions", map[string]any{
					"method":    "Poll",
					"username":  username,
					"errorType": ErrTypeUpstream,
				}, "SERVICE", err)
				return nil
			}
			match, ok := matchSubmission(subs, record.Title)
			if !ok {
				return nil
			}
			cu := model.CompletedUser{
				Username:            username,
				SubmissionID:        match.ID,
				SubmissionTimestamp: submissionTime(match.Timestamp),
			}
			moved, err := s.daily.MarkDailyCompleted(gctx, date, cu)
			if err != nil {
				failed.Add(1)
				s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to mark daily challenge completed", map[string]any{
					"method":    "Poll",
					"username":  username,
					"errorType": ErrTypeDB,
				}, "SERVICE", err)
				return nil
			}
			if moved {
				mu.Lock()
				completed = append(completed, cu)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, cu := range completed {
		s.publish(traceID, date, cu)
	}
	if len(completed) > 0 {
		s.invalidate(ctx, date)
	}

	summary.Checked = len(record.UnsolvedUsers)
	summary.Completed = len(completed)
	summary.Failed = int(failed.Load())
	s.logger.Log(zapcore.InfoLevel, traceID, "Daily challenge poll finished", map[string]any{
		"method":    "Poll",
		"date":      date,
		"checked":   summary.Checked,
		"completed": summary.Completed,
		"failed":    summary.Failed,
	}, "SERVICE", nil)
	return summary, nil
}

// SendReminders emails every user still unsolved today. It returns the
// number of reminders sent.
func (s *DailyChallengeService) SendReminders(ctx context.Context) (int, error) {
	traceID := uuid.New().String()
	date := utils.DateKey(s.now())

	record, err := s.daily.GetDailyChallenge(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, dbError("Failed to load daily challenge", err)
	}
	if len(record.UnsolvedUsers) == 0 {
		return 0, nil
	}

	refs, err := s.users.ListUserRefs(ctx)
	if err != nil {
		return 0, dbError("Failed to list users", err)
	}
	emails := make(map[string]string, len(refs))
	for _, r := range refs {
		emails[r.Username] = r.Email
	}

	sent := 0
	for _, username := range record.UnsolvedUsers {
		to := emails[username]
		if to == "" {
			continue
		}
		if err := s.mailer.SendDailyReminder(ctx, to, record.Title, record.Link); err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Failed to send reminder", map[string]any{
				"method":    "SendReminders",
				"username":  username,
				"errorType": "MAIL_ERROR",
			}, "SERVICE", err)
			continue
		}
		sent++
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Reminders sent", map[string]any{
		"method": "SendReminders",
		"date":   date,
		"sent":   sent,
	}, "SERVICE", nil)
	return sent, nil
}

// GetToday returns today's record, served from the cache when warm.
func (s *DailyChallengeService) GetToday(ctx context.Context) (*model.DailyChallenge, error) {
	traceID := uuid.New().String()
	date := utils.DateKey(s.now())
	key := dailyCachePrefix + date

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var cached model.DailyChallenge
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Cache read failed", map[string]any{
				"method":    "GetToday",
				"key":       key,
				"errorType": "CACHE_ERROR",
			}, "SERVICE", err)
		}
	}

	record, err := s.daily.GetDailyChallenge(ctx, date)
	if err != nil {
		return nil, storeError(err, "No daily challenge found for today")
	}

	if s.cache != nil {
		if raw, err := json.Marshal(record); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				s.logger.Log(zapcore.WarnLevel, traceID, "Cache write failed", map[string]any{
					"method":    "GetToday",
					"key":       key,
					"errorType": "CACHE_ERROR",
				}, "SERVICE", err)
			}
		}
	}
	return record, nil
}

func (s *DailyChallengeService) invalidate(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, dailyCachePrefix+date)
}

func (s *DailyChallengeService) publish(traceID, date string, cu model.CompletedUser) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"type":     natsclient.SubjectDailyCompleted,
		"date":     date,
		"username": cu.Username,
	}
	if err := s.events.PublishJSON(natsclient.SubjectDailyCompleted, payload); err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish daily completion", map[string]any{
			"method":    "publish",
			"username":  cu.Username,
			"errorType": "PUBLISH_ERROR",
		}, "SERVICE", err)
	}
}

func matchSubmission(subs []leetcode.Submission, title string) (leetcode.Submission, bool) {
	for _, sub := range subs {
		if sub.Title == title {
			return sub, true
		}
	}
	return leetcode.Submission{}, false
}

// submissionTime renders the platform's epoch-seconds timestamp as RFC 3339.
// Unparseable values are kept verbatim.
func submissionTime(ts string) string {
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ts
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339)
}
