package service

import (
	"context"
	"reflect"
	"time"

	"leetcoders/leetcode"
	"leetcoders/model"

	redisboard "github.com/lijuuu/RedisBoard"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces are satisfied by the Mongo repository and by the
// in-memory repository. Lookups return repository.ErrNotFound on a miss and
// inserts return repository.ErrDuplicate on a unique-key clash.

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	ListUserRefs(ctx context.Context) ([]model.UserRef, error)
	UpdateSnapshot(ctx context.Context, id primitive.ObjectID, snap model.Snapshot, score int, at time.Time) error
	SearchUsers(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	ListLeaderboard(ctx context.Context, sortField string, limit int) ([]model.LeaderboardEntry, error)
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	AddSheetSolved(ctx context.Context, userID primitive.ObjectID, questionID string) error
}

type ChallengeStore interface {
	InsertChallenge(ctx context.Context, c *model.Challenge) error
	GetChallenge(ctx context.Context, id primitive.ObjectID) (*model.Challenge, error)
	ListChallenges(ctx context.Context, userID primitive.ObjectID, status string) ([]model.Challenge, error)
	ListDueChallenges(ctx context.Context, cutoff time.Time) ([]model.Challenge, error)
	// CompleteChallenge only transitions a challenge that is still active and
	// reports whether it did.
	CompleteChallenge(ctx context.Context, id primitive.ObjectID, endChallenger, endOpponent float64, result string) (bool, error)

	InsertSelfChallenge(ctx context.Context, c *model.SelfChallenge) error
	GetSelfChallenge(ctx context.Context, id primitive.ObjectID) (*model.SelfChallenge, error)
	ListSelfChallenges(ctx context.Context, userID primitive.ObjectID) ([]model.SelfChallenge, error)
	ListDueSelfChallenges(ctx context.Context, cutoff time.Time) ([]model.SelfChallenge, error)
	CompleteSelfChallenge(ctx context.Context, id primitive.ObjectID, end float64, result string) (bool, error)
}

type FriendRequestStore interface {
	InsertFriendRequest(ctx context.Context, r *model.FriendRequest) error
	GetFriendRequest(ctx context.Context, id primitive.ObjectID) (*model.FriendRequest, error)
	FindFriendRequest(ctx context.Context, sender, receiver primitive.ObjectID) (*model.FriendRequest, error)
	ListPendingRequests(ctx context.Context, receiver primitive.ObjectID) ([]model.FriendRequest, error)
	// SetRequestStatus moves a request from one status to another and reports
	// whether the request was still in the from status.
	SetRequestStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error)
}

type DailyChallengeStore interface {
	InsertDailyChallenge(ctx context.Context, d *model.DailyChallenge) error
	GetDailyChallenge(ctx context.Context, date string) (*model.DailyChallenge, error)
	// MarkDailyCompleted moves the user from unsolved to completed in one
	// update, only while the user is still unsolved.
	MarkDailyCompleted(ctx context.Context, date string, cu model.CompletedUser) (bool, error)
}

type ChatStore interface {
	FindDirectChat(ctx context.Context, a, b primitive.ObjectID) (*model.Chat, error)
	InsertChat(ctx context.Context, c *model.Chat) error
	GetChat(ctx context.Context, id primitive.ObjectID) (*model.Chat, error)
	ListChatsForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Chat, error)
	RenameChat(ctx context.Context, id primitive.ObjectID, name string, at time.Time) error
	AddChatMember(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error)
	RemoveChatMember(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error)
	InsertMessage(ctx context.Context, m *model.Message) error
	SetLatestMessage(ctx context.Context, chatID primitive.ObjectID, lm model.LatestMessage) error
	ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]model.Message, error)
}

type SheetStore interface {
	ListSheetQuestions(ctx context.Context) ([]model.SheetQuestion, error)
	GetSheetQuestion(ctx context.Context, id string) (*model.SheetQuestion, error)
}

// StatsFetcher is the part of the leetcode client the user and leaderboard
// services need.
type StatsFetcher interface {
	FetchUser(ctx context.Context, username string) (*model.Snapshot, error)
}

type DailySource interface {
	FetchDailyQuestion(ctx context.Context) (*leetcode.DailyQuestion, error)
	FetchUserProgress(ctx context.Context, username string) (int, error)
	FetchRecentSubmissions(ctx context.Context, username string, limit int) ([]leetcode.Submission, error)
}

type ReminderSender interface {
	SendDailyReminder(ctx context.Context, to, title, link string) error
}

// EventPublisher fans events out; a nil publisher disables publishing.
type EventPublisher interface {
	PublishJSON(subject string, v any) error
}

// RankBoard is the Redis sorted-set ranking kept next to each user's score.
// Members are user ids in hex, grouped by country. Ranks are 0-based and -1
// means the user is not on the board.
type RankBoard interface {
	AddUser(user redisboard.User) error
	GetTopKGlobal() ([]redisboard.User, error)
	GetRankGlobal(userID string) (int, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Clock is injected so tests can pin "now".
type Clock func() time.Time

// isNil reports whether v is nil, including a nil pointer stored in an
// interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func optionalPublisher(p EventPublisher) EventPublisher {
	if isNil(p) {
		return nil
	}
	return p
}

func optionalRankBoard(b RankBoard) RankBoard {
	if isNil(b) {
		return nil
	}
	return b
}
