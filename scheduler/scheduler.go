// Package scheduler runs the periodic jobs on robfig/cron. Jobs are plain
// values so they can be registered, listed and run on demand.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"leetcoders/logger"

	"github.com/google/uuid"
	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

// Job is one named unit of periodic work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu   sync.Mutex
	jobs map[string]Job
	ids  map[string]cron.EntryID
	ctx  context.Context
}

// New builds a scheduler evaluating specs in UTC. A job still running when
// its next tick fires is skipped; a panicking job is recovered and logged.
func New(log *logger.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
		jobs:   make(map[string]Job),
		ids:    make(map[string]cron.EntryID),
		ctx:    context.Background(),
	}
}

// Register validates the job's spec and schedules it. Names are unique.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run func")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}
	id, err := s.cron.AddFunc(job.Spec, func() { s.execute(s.baseContext(), job) })
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", job.Name, err)
	}
	s.jobs[job.Name] = job
	s.ids[job.Name] = id
	return nil
}

// Start begins ticking. Scheduled runs use ctx as their parent.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.cron.Start()
	s.logger.Log(zapcore.InfoLevel, "", "Scheduler started", map[string]any{
		"method": "Start",
		"jobs":   s.Names(),
	}, "SCHEDULER", nil)
}

// Stop halts ticking and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow invokes a registered job immediately in the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", name)
	}
	return s.execute(ctx, job)
}

// Names lists registered jobs in name order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Next reports when a job fires next; the zero time if it is not scheduled.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.ids[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	traceID := uuid.New().String()
	start := time.Now()
	s.logger.Log(zapcore.InfoLevel, traceID, "Job started", map[string]any{
		"method": "execute",
		"job":    job.Name,
	}, "SCHEDULER", nil)

	err := job.Run(ctx)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Job failed", map[string]any{
			"method":     "execute",
			"job":        job.Name,
			"durationMs": time.Since(start).Milliseconds(),
			"errorType":  "JOB_ERROR",
		}, "SCHEDULER", err)
		return err
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Job finished", map[string]any{
		"method":     "execute",
		"job":        job.Name,
		"durationMs": time.Since(start).Milliseconds(),
	}, "SCHEDULER", nil)
	return nil
}

// cronLogger feeds cron's own messages into the structured logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Log(zapcore.DebugLevel, "", "cron: "+msg, pairs(keysAndValues), "SCHEDULER", nil)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Log(zapcore.ErrorLevel, "", "cron: "+msg, pairs(keysAndValues), "SCHEDULER", err)
}

func pairs(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
