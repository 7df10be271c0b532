package scheduler

import (
	"context"
	"time"

	"leetcoders/service"
)

const (
	JobDailyInit          = "daily-challenge-init"
	JobDailyPoll          = "daily-challenge-poll"
	JobDailyReminder      = "daily-challenge-reminder"
	JobLeaderboardRefresh = "leaderboard-refresh"
	JobResolveChallenges  = "challenge-resolution"
)

// Specs holds the cron expression of every default job.
type Specs struct {
	DailyInit     string
	DailyPoll     string
	DailyReminder string
	Leaderboard   string
	Resolve       string
}

type DailyTracker interface {
	Init(ctx context.Context) (service.DailyInitSummary, error)
	Poll(ctx context.Context) (service.DailyPollSummary, error)
	SendReminders(ctx context.Context) (int, error)
}

type LeaderboardRefresher interface {
	RefreshAll(ctx context.Context) (service.RefreshSummary, error)
}

type ChallengeResolver interface {
	ResolveDueChallenges(ctx context.Context, now time.Time) (service.ResolveSummary, error)
}

// DefaultJobs wires the services into the five periodic jobs.
func DefaultJobs(specs Specs, daily DailyTracker, board LeaderboardRefresher, challenges ChallengeResolver, now func() time.Time) []Job {
	if now == nil {
		now = time.Now
	}
	return []Job{
		{Name: JobDailyInit, Spec: specs.DailyInit, Run: func(ctx context.Context) error {
			_, err := daily.Init(ctx)
			return err
		}},
		{Name: JobDailyPoll, Spec: specs.DailyPoll, Run: func(ctx context.Context) error {
			_, err := daily.Poll(ctx)
			return err
		}},
		{Name: JobDailyReminder, Spec: specs.DailyReminder, Run: func(ctx context.Context) error {
			_, err := daily.SendReminders(ctx)
			return err
		}},
		{Name: JobLeaderboardRefresh, Spec: specs.Leaderboard, Run: func(ctx context.Context) error {
			_, err := board.RefreshAll(ctx)
			return err
		}},
		{Name: JobResolveChallenges, Spec: specs.Resolve, Run: func(ctx context.Context) error {
			_, err := challenges.ResolveDueChallenges(ctx, now())
			return err
		}},
	}
}

// RegisterAll registers jobs in order and stops at the first bad one.
func (s *Scheduler) RegisterAll(jobs []Job) error {
	for _, j := range jobs {
		if err := s.Register(j); err != nil {
			return err
		}
	}
	return nil
}
