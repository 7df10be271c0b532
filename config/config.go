package configs

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string
	Port        string

	Store       string
	MongoDBURL  string
	MongoDBName string

	RedisURL      string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	NATSURL string

	JWTSecret string
	JWTTTL    time.Duration

	LeetCodeURL     string
	LeetCodeTimeout time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	FrontendOrigin string

	DailyInitSpec      string
	DailyPollSpec      string
	DailyReminderSpec  string
	LeaderboardSpec    string
	ResolveSpec        string
	RefreshConcurrency int
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}
	config := Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOGLEVEL", "info"),
		Port:        getEnv("PORT", "5000"),

		Store:       getEnv("STORE", "mongo"),
		MongoDBURL:  getEnv("MONGODBURL", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGODBNAME", "leetcoders"),

		RedisURL:      getEnv("REDISURL", "localhost:6379"),
		RedisPassword: getEnv("REDISPASSWORD", ""),
		RedisDB:       getEnvInt("REDISDB", 0),
		CacheTTL:      getEnvDuration("CACHETTL", 30*time.Second),

		NATSURL: getEnv("NATSURL", "nats://localhost:4222"),

		JWTSecret: getEnv("JWTSECRET", "change-me"),
		JWTTTL:    getEnvDuration("JWTTTL", time.Hour),

		LeetCodeURL:     getEnv("LEETCODEURL", "https://leetcode.com/graphql"),
		LeetCodeTimeout: getEnvDuration("LEETCODETIMEOUT", 15*time.Second),

		SMTPHost:     getEnv("SMTPHOST", ""),
		SMTPPort:     getEnv("SMTPPORT", "587"),
		SMTPUser:     getEnv("SMTPUSER", ""),
		SMTPPassword: getEnv("SMTPPASSWORD", ""),
		MailFrom:     getEnv("MAILFROM", "no-reply@leetcoders.local"),

		FrontendOrigin: getEnv("FRONTENDORIGIN", "http://localhost:5173"),

		DailyInitSpec:      getEnv("DAILYINITSPEC", "5 0 * * *"),
		DailyPollSpec:      getEnv("DAILYPOLLSPEC", "*/30 * * * *"),
		DailyReminderSpec:  getEnv("DAILYREMINDERSPEC", "0 16 * * *"),
		LeaderboardSpec:    getEnv("LEADERBOARDSPEC", "15 0 * * *"),
		ResolveSpec:        getEnv("RESOLVESPEC", "0 0 * * *"),
		RefreshConcurrency: getEnvInt("REFRESHCONCURRENCY", 4),
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
