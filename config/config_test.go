package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, "leetcoders", cfg.MongoDBName)
	assert.Equal(t, "5 0 * * *", cfg.DailyInitSpec)
	assert.Equal(t, "*/30 * * * *", cfg.DailyPollSpec)
	assert.Equal(t, "0 16 * * *", cfg.DailyReminderSpec)
	assert.Equal(t, "15 0 * * *", cfg.LeaderboardSpec)
	assert.Equal(t, "0 0 * * *", cfg.ResolveSpec)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE", "memory")
	t.Setenv("JWTTTL", "30m")
	t.Setenv("REFRESHCONCURRENCY", "8")
	t.Setenv("REDISDB", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 8, cfg.RefreshConcurrency)
	assert.Equal(t, 0, cfg.RedisDB)
}
