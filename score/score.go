// Package score turns a stats snapshot into the 0-100 composite used for
// ranking users.
package score

import (
	"math"

	"leetcoders/model"
)

// Normalization ceilings. Values at or above a ceiling count as full marks.
const (
	MaxRanking       = 1_000_000
	MaxAcceptance    = 100
	MaxContestRating = 3000
	MaxReputation    = 100_000
	MaxProblemScore  = 500
	MaxContests      = 100
	MaxStreak        = 30
	MaxActiveDays    = 365
	MaxBadges        = 50
)

const (
	weightProblems      = 0.20
	weightAcceptance    = 0.15
	weightReputation    = 0.10
	weightRanking       = 0.15
	weightContestRating = 0.20
	weightContests      = 0.10
	weightStreak        = 0.05
	weightActiveDays    = 0.025
	weightBadges        = 0.025
)

// ProblemScore weighs solved problems by difficulty.
func ProblemScore(p model.ProblemStats) float64 {
	return 1.5*float64(p.Easy) + 2.5*float64(p.Medium) + 3.5*float64(p.Hard)
}

// Calculate never fails: missing fields are zero and every metric is clamped,
// so the result is always within [0, 100].
func Calculate(s model.Snapshot) int {
	total := weightProblems*normalize(ProblemScore(s.ProblemStats), MaxProblemScore) +
		weightAcceptance*normalize(s.AcceptanceRate, MaxAcceptance) +
		weightReputation*normalize(float64(s.Reputation), MaxReputation) +
		weightRanking*normalizeRanking(s.Ranking) +
		weightContestRating*normalize(s.ContestRating, MaxContestRating) +
		weightContests*normalize(float64(s.TotalContestsParticipated), MaxContests) +
		weightStreak*normalize(float64(s.CurrentStreak), MaxStreak) +
		weightActiveDays*normalize(float64(s.TotalActiveDays), MaxActiveDays) +
		weightBadges*normalize(float64(len(s.Badges)), MaxBadges)

	return int(math.Min(100, math.Round(total*100)))
}

func normalize(v, max float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= max {
		return 1
	}
	return v / max
}

// Lower ranks are better. A rank of zero or less means the user is unranked
// and earns nothing for this metric.
func normalizeRanking(rank int) float64 {
	if rank <= 0 {
		return 0
	}
	return 1 - float64(min(rank, MaxRanking))/MaxRanking
}
