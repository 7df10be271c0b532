package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leetcoders/auth"
	"leetcoders/cache"
	configs "leetcoders/config"
	"leetcoders/handler"
	"leetcoders/leetcode"
	"leetcoders/logger"
	"leetcoders/mailer"
	"leetcoders/mongoconn"
	"leetcoders/natsclient"
	"leetcoders/repository"
	"leetcoders/repository/memory"
	"leetcoders/scheduler"
	"leetcoders/service"

	"github.com/gin-gonic/gin"
	redisboard "github.com/lijuuu/RedisBoard"
	"go.uber.org/zap/zapcore"
)

// store is everything the services persist through.
type store interface {
	service.UserStore
	service.ChallengeStore
	service.FriendRequestStore
	service.DailyChallengeStore
	service.ChatStore
	service.SheetStore
}

var (
	_ store = (*repository.Repository)(nil)
	_ store = (*memory.Store)(nil)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the services and serves until a shutdown signal arrives.
func run() error {
	cfg := configs.LoadConfig()

	log, err := logger.New(cfg.Environment, "leetcoders", cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db store
	switch cfg.Store {
	case "memory":
		db = memory.NewStore()
		log.Log(zapcore.WarnLevel, "", "Using in-memory store, data will not survive a restart", nil, "MAIN", nil)
	default:
		client, err := mongoconn.ConnectDB(ctx, cfg.MongoDBURL)
		if err != nil {
			log.Log(zapcore.ErrorLevel, "", "Failed to connect to MongoDB", nil, "MAIN", err)
			return fmt.Errorf("connect mongodb: %w", err)
		}
		repo := repository.NewRepository(client, cfg.MongoDBName)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Log(zapcore.ErrorLevel, "", "Failed to create indexes", nil, "MAIN", err)
			_ = repo.Disconnect(context.Background())
			return fmt.Errorf("ensure indexes: %w", err)
		}
		defer func() { _ = repo.Disconnect(context.Background()) }()
		db = repo
	}

	var (
		readCache cache.Cache = cache.NewMemoryCache()
		ranks     service.RankBoard
	)
	if cfg.RedisURL != "" {
		rc := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, log)
		if err := rc.Ping(ctx); err != nil {
			log.Log(zapcore.WarnLevel, "", "Redis unavailable, falling back to in-process cache", map[string]any{
				"addr": cfg.RedisURL,
			}, "MAIN", err)
			_ = rc.Close()
		} else {
			readCache = rc
			defer func() { _ = rc.Close() }()

			lb, err := redisboard.New(redisboard.Config{
				Namespace: "leetcoders",
				K:         service.RankBoardSize,
				RedisAddr: cfg.RedisURL,
				RedisPass: cfg.RedisPassword,
			})
			if err != nil {
				log.Log(zapcore.WarnLevel, "", "Rank board unavailable, leaderboard reads the store", map[string]any{
					"addr": cfg.RedisURL,
				}, "MAIN", err)
			} else {
				ranks = lb
				defer func() { _ = lb.Close() }()
			}
		}
	}

	var (
		events     service.EventPublisher
		subscriber handler.Subscriber
	)
	if cfg.NATSURL != "" {
		nc, err := natsclient.NewNatsClient(cfg.NATSURL)
		if err != nil {
			log.Log(zapcore.WarnLevel, "", "NATS unavailable, events and chat streaming disabled", map[string]any{
				"url": cfg.NATSURL,
			}, "MAIN", err)
		} else {
			events, subscriber = nc, nc
			defer nc.Close()
		}
	}

	var reminders service.ReminderSender
	smtp := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	if err := smtp.ValidateConfiguration(); err != nil {
		log.Log(zapcore.WarnLevel, "", "SMTP not configured, reminders will only be logged", nil, "MAIN", err)
		reminders = mailer.LogMailer{Logf: log.Zap().Sugar().Infof}
	} else {
		reminders = smtp
	}

	lc := leetcode.NewClient(cfg.LeetCodeURL, cfg.LeetCodeTimeout)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	users := service.NewUserService(db, db, lc, tokens, ranks, log)
	friends := service.NewFriendService(db, db, log)
	challenges := service.NewChallengeService(db, db, events, log)
	daily := service.NewDailyChallengeService(db, db, lc, reminders, events, readCache, cfg.CacheTTL, cfg.RefreshConcurrency, log)
	board := service.NewLeaderboardService(db, lc, ranks, readCache, cfg.CacheTTL, cfg.RefreshConcurrency, log)
	sheet := service.NewSheetService(db, db, log)
	chats := service.NewChatService(db, db, events, log)

	sched := scheduler.New(log)
	jobs := scheduler.DefaultJobs(scheduler.Specs{
		DailyInit:     cfg.DailyInitSpec,
		DailyPoll:     cfg.DailyPollSpec,
		DailyReminder: cfg.DailyReminderSpec,
		Leaderboard:   cfg.LeaderboardSpec,
		Resolve:       cfg.ResolveSpec,
	}, daily, board, challenges, time.Now)
	if err := sched.RegisterAll(jobs); err != nil {
		log.Log(zapcore.ErrorLevel, "", "Invalid job schedule", nil, "MAIN", err)
		return fmt.Errorf("register jobs: %w", err)
	}
	sched.Start(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	var origins []string
	if cfg.FrontendOrigin != "" {
		origins = []string{cfg.FrontendOrigin}
	}
	router := handler.NewRouter(&handler.Handler{
		Users:       users,
		Friends:     friends,
		Challenges:  challenges,
		Daily:       daily,
		Leaderboard: board,
		Sheet:       sheet,
		Chats:       chats,
		Tokens:      tokens,
		Subscriber:  subscriber,
		Logger:      log,
	}, handler.Options{AllowedOrigins: origins})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Log(zapcore.InfoLevel, "", "HTTP server listening", map[string]any{"port": cfg.Port}, "MAIN", nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Log(zapcore.ErrorLevel, "", "HTTP server failed", nil, "MAIN", err)
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	log.Log(zapcore.InfoLevel, "", "Shutting down", nil, "MAIN", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Log(zapcore.ErrorLevel, "", "HTTP shutdown incomplete", nil, "MAIN", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Log(zapcore.WarnLevel, "", "Jobs still running at shutdown", nil, "MAIN", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve http: %w", err)
	default:
		return nil
	}
}
