package score

import (
	"math/rand"
	"testing"

	"leetcoders/model"

	"github.com/stretchr/testify/assert"
)

func maxedSnapshot() model.Snapshot {
	return model.Snapshot{
		ProblemStats:              model.ProblemStats{Easy: 200, Medium: 200, Hard: 200},
		AcceptanceRate:            100,
		Reputation:                MaxReputation,
		Ranking:                   1,
		ContestRating:             MaxContestRating,
		TotalContestsParticipated: MaxContests,
		CurrentStreak:             MaxStreak,
		TotalActiveDays:           MaxActiveDays,
		Badges:                    make([]model.Badge, MaxBadges),
	}
}

func TestCalculateExtremes(t *testing.T) {
	tests := []struct {
		name string
		snap model.Snapshot
		want int
	}{
		{"all zero", model.Snapshot{}, 0},
		{"all at max", maxedSnapshot(), 100},
		{"negative values clamp to zero", model.Snapshot{
			AcceptanceRate: -5, Reputation: -10, ContestRating: -1, Ranking: -3,
			ProblemStats: model.ProblemStats{Easy: -4},
		}, 0},
		{"only problems at ceiling", model.Snapshot{
			ProblemStats: model.ProblemStats{Hard: 1000},
		}, 20},
		{"only contest rating half", model.Snapshot{ContestRating: 1500}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.snap))
		})
	}
}

func TestCalculateAboveMaxStillHundred(t *testing.T) {
	s := maxedSnapshot()
	s.Reputation *= 10
	s.ContestRating *= 10
	s.Badges = make([]model.Badge, 500)
	assert.Equal(t, 100, Calculate(s))
}

func TestCalculateBounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		s := randomSnapshot(r)
		got := Calculate(s)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestCalculateMonotonic(t *testing.T) {
	bumps := map[string]func(*model.Snapshot){
		"easy":          func(s *model.Snapshot) { s.ProblemStats.Easy += 7 },
		"medium":        func(s *model.Snapshot) { s.ProblemStats.Medium += 7 },
		"hard":          func(s *model.Snapshot) { s.ProblemStats.Hard += 7 },
		"acceptance":    func(s *model.Snapshot) { s.AcceptanceRate += 3 },
		"reputation":    func(s *model.Snapshot) { s.Reputation += 2500 },
		"contestRating": func(s *model.Snapshot) { s.ContestRating += 90 },
		"contests":      func(s *model.Snapshot) { s.TotalContestsParticipated += 4 },
		"streak":        func(s *model.Snapshot) { s.CurrentStreak += 2 },
		"activeDays":    func(s *model.Snapshot) { s.TotalActiveDays += 20 },
		"badges":        func(s *model.Snapshot) { s.Badges = append(s.Badges, model.Badge{}, model.Badge{}) },
		// a better rank is a smaller number
		"ranking": func(s *model.Snapshot) {
			if s.Ranking > 1 {
				s.Ranking = max(1, s.Ranking-50_000)
			}
		},
	}

	r := rand.New(rand.NewSource(7))
	for name, bump := range bumps {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 300; i++ {
				s := randomSnapshot(r)
				before := Calculate(s)
				bump(&s)
				assert.GreaterOrEqual(t, Calculate(s), before)
			}
		})
	}
}

func TestProblemScore(t *testing.T) {
	assert.Equal(t, 1.5*10+2.5*4+3.5*2, ProblemScore(model.ProblemStats{Easy: 10, Medium: 4, Hard: 2}))
}

func randomSnapshot(r *rand.Rand) model.Snapshot {
	return model.Snapshot{
		ProblemStats: model.ProblemStats{
			Easy:   r.Intn(400),
			Medium: r.Intn(400),
			Hard:   r.Intn(200),
		},
		AcceptanceRate:            r.Float64() * 120,
		Reputation:                r.Intn(150_000),
		Ranking:                   1 + r.Intn(2_000_000),
		ContestRating:             r.Float64() * 3500,
		TotalContestsParticipated: r.Intn(150),
		CurrentStreak:             r.Intn(60),
		TotalActiveDays:           r.Intn(500),
		Badges:                    make([]model.Badge, r.Intn(60)),
	}
}
