package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persisted user record: account fields, the latest snapshot
// and the score derived from it.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email,omitempty"`
	Password    string             `bson:"password" json:"-"`
	RealName    string             `bson:"realName" json:"realName"`
	Snapshot    `bson:",inline"`
	Score       int                  `bson:"score" json:"score"`
	Friends     []primitive.ObjectID `bson:"friends" json:"friends"`
	SheetSolved []string             `bson:"sheetSolved" json:"sheetSolved,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the minimal projection the scheduled jobs iterate over.
type UserRef struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"-"`
}

// UserSummary is the public card shown next to challenges, friends and chats.
type UserSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	RealName     string             `bson:"realName" json:"realName"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	Score        int                `bson:"score" json:"score"`
}

// LeaderboardEntry never carries credentials; Value holds the sort field.
type LeaderboardEntry struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	RealName     string             `bson:"realName" json:"realName"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	Score        int                `bson:"score" json:"score"`
	Value        float64            `bson:"value" json:"value"`
}

// Summary projects the public card out of a full record.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		RealName:     u.RealName,
		ProfileImage: u.ProfileImage,
		Score:        u.Score,
	}
}

// HasFriend reports whether id is already in the friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// SortFields whitelists the fields the leaderboard may be ordered by.
var SortFields = map[string]func(*User) float64{
	"score":                     func(u *User) float64 { return float64(u.Score) },
	"ranking":                   func(u *User) float64 { return float64(u.Ranking) },
	"problemCount":              func(u *User) float64 { return float64(u.ProblemCount) },
	"contestRating":             func(u *User) float64 { return u.ContestRating },
	"totalActiveDays":           func(u *User) float64 { return float64(u.TotalActiveDays) },
	"reputation":                func(u *User) float64 { return float64(u.Reputation) },
	"totalContestsParticipated": func(u *User) float64 { return float64(u.TotalContestsParticipated) },
}

// SortAscending reports whether smaller values rank higher for field.
// Only ranking works that way; unranked users (0) are left out of it.
func SortAscending(field string) bool {
	return field == "ranking"
}

// Entry projects the public leaderboard row for field.
func (u *User) Entry(field string) LeaderboardEntry {
	e := LeaderboardEntry{
		ID:           u.ID,
		Username:     u.Username,
		RealName:     u.RealName,
		ProfileImage: u.ProfileImage,
		Score:        u.Score,
	}
	if fn, ok := SortFields[field]; ok {
		e.Value = fn(u)
	}
	return e
}
