package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Criterion is the numeric user metric a challenge compares.
type Criterion string

const (
	CriterionRanking         Criterion = "ranking"
	CriterionProblemCount    Criterion = "problemCount"
	CriterionContestRating   Criterion = "contestRating"
	CriterionTotalActiveDays Criterion = "totalActiveDays"
)

var criterionAccessors = map[Criterion]func(*User) float64{
	CriterionRanking:         func(u *User) float64 { return float64(u.Ranking) },
	CriterionProblemCount:    func(u *User) float64 { return float64(u.ProblemCount) },
	CriterionContestRating:   func(u *User) float64 { return u.ContestRating },
	CriterionTotalActiveDays: func(u *User) float64 { return float64(u.TotalActiveDays) },
}

// ParseCriterion rejects anything outside the four supported metrics.
func ParseCriterion(s string) (Criterion, error) {
	c := Criterion(s)
	if _, ok := criterionAccessors[c]; !ok {
		return "", fmt.Errorf("unsupported criterion %q", s)
	}
	return c, nil
}

// Value reads the criterion off a user record. Unknown criteria read as 0;
// they cannot be constructed through ParseCriterion.
func (c Criterion) Value(u *User) float64 {
	if fn, ok := criterionAccessors[c]; ok && u != nil {
		return fn(u)
	}
	return 0
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	ResultPending    = "pending"
	ResultChallenger = "challenger"
	ResultOpponent   = "opponent"
	ResultTie        = "tie"
	ResultWon        = "won"
	ResultLost       = "lost"
)

// Challenge is a time-boxed comparison between two users.
type Challenge struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Challenger           primitive.ObjectID `bson:"challenger" json:"challenger"`
	Opponent             primitive.ObjectID `bson:"opponent" json:"opponent"`
	Criterion            Criterion          `bson:"criterion" json:"criterion"`
	StartValueChallenger float64            `bson:"startValueChallenger" json:"startValueChallenger"`
	StartValueOpponent   float64            `bson:"startValueOpponent" json:"startValueOpponent"`
	EndValueChallenger   *float64           `bson:"endValueChallenger,omitempty" json:"endValueChallenger,omitempty"`
	EndValueOpponent     *float64           `bson:"endValueOpponent,omitempty" json:"endValueOpponent,omitempty"`
	StartDate            time.Time          `bson:"startDate" json:"startDate"`
	EndDate              time.Time          `bson:"endDate" json:"endDate"`
	Status               string             `bson:"status" json:"status"`
	Result               string             `bson:"result" json:"result"`
}

// SelfChallenge is a solo goal against the user's own starting value.
type SelfChallenge struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Challenger            primitive.ObjectID `bson:"challenger" json:"challenger"`
	Criterion             Criterion          `bson:"criterion" json:"criterion"`
	StartValueChallenger  float64            `bson:"startValueChallenger" json:"startValueChallenger"`
	TargetValueChallenger float64            `bson:"targetValueChallenger" json:"targetValueChallenger"`
	EndValueChallenger    *float64           `bson:"endValueChallenger,omitempty" json:"endValueChallenger,omitempty"`
	StartDate             time.Time          `bson:"startDate" json:"startDate"`
	EndDate               time.Time          `bson:"endDate" json:"endDate"`
	Status                string             `bson:"status" json:"status"`
	Result                string             `bson:"result" json:"result"`
}

// PairResult compares end values: greater wins, equal ties.
func PairResult(challenger, opponent float64) string {
	switch {
	case challenger > opponent:
		return ResultChallenger
	case opponent > challenger:
		return ResultOpponent
	default:
		return ResultTie
	}
}

// SelfResult marks a self challenge won whenever the value grew, whatever the
// target and whatever the criterion's direction.
func SelfResult(start, current float64) string {
	if current > start {
		return ResultWon
	}
	return ResultLost
}

// ChallengeView is a challenge enriched with participant cards and, while
// active, the participants' current values.
type ChallengeView struct {
	ID                     primitive.ObjectID `json:"id"`
	Criterion              Criterion          `json:"criterion"`
	StartValueChallenger   float64            `json:"startValueChallenger"`
	StartValueOpponent     float64            `json:"startValueOpponent"`
	CurrentValueChallenger *float64           `json:"currentValueChallenger,omitempty"`
	CurrentValueOpponent   *float64           `json:"currentValueOpponent,omitempty"`
	EndValueChallenger     *float64           `json:"endValueChallenger,omitempty"`
	EndValueOpponent       *float64           `json:"endValueOpponent,omitempty"`
	Challenger             UserSummary        `json:"challenger"`
	Opponent               UserSummary        `json:"opponent"`
	Status                 string             `json:"status"`
	Result                 string             `json:"result"`
	StartDate              time.Time          `json:"startDate"`
	EndDate                time.Time          `json:"endDate"`
}

type SelfChallengeView struct {
	ID                     primitive.ObjectID `json:"id"`
	Criterion              Criterion          `json:"criterion"`
	StartValueChallenger   float64            `json:"startValueChallenger"`
	CurrentValueChallenger float64            `json:"currentValueChallenger"`
	TargetValueChallenger  float64            `json:"targetValueChallenger"`
	EndValueChallenger     *float64           `json:"endValueChallenger,omitempty"`
	Challenger             UserSummary        `json:"challenger"`
	Status                 string             `json:"status"`
	Result                 string             `json:"result"`
	StartDate              time.Time          `json:"startDate"`
	EndDate                time.Time          `json:"endDate"`
}

// ChallengeEvent is published once a challenge reaches a terminal result.
type ChallengeEvent struct {
	Type         string               `json:"type"`
	ChallengeID  string               `json:"challengeId"`
	Participants []primitive.ObjectID `json:"participants"`
	Criterion    Criterion            `json:"criterion"`
	Result       string               `json:"result"`
	EndValues    []float64            `json:"endValues"`
}
