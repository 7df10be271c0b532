package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection          = "users"
	challengesCollection     = "challenges"
	selfChallengesCollection = "selfchallenges"
	friendRequestsCollection = "friendrequests"
	dailyCollection          = "dailychallenges"
	chatsCollection          = "chats"
	messagesCollection       = "messages"
	sheetCollection          = "striversheet"
)

// Repository is the MongoDB-backed store. Every state transition it offers
// is a single-document update, conditional where the caller needs it to be.
type Repository struct {
	mongoclientInstance *mongo.Client

	users          *mongo.Collection
	challenges     *mongo.Collection
	selfChallenges *mongo.Collection
	friendRequests *mongo.Collection
	daily          *mongo.Collection
	chats          *mongo.Collection
	messages       *mongo.Collection
	sheet          *mongo.Collection
}

func NewRepository(client *mongo.Client, dbName string) *Repository {
	db := client.Database(dbName)
	return &Repository{
		mongoclientInstance: client,
		users:               db.Collection(usersCollection),
		challenges:          db.Collection(challengesCollection),
		selfChallenges:      db.Collection(selfChallengesCollection),
		friendRequests:      db.Collection(friendRequestsCollection),
		daily:               db.Collection(dailyCollection),
		chats:               db.Collection(chatsCollection),
		messages:            db.Collection(messagesCollection),
		sheet:               db.Collection(sheetCollection),
	}
}

// EnsureIndexes creates the unique keys the services rely on for duplicate
// detection plus the indexes behind the hot queries.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[*mongo.Collection][]mongo.IndexModel{
		r.users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "score", Value: -1}}},
		},
		r.challenges: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}}},
			{Keys: bson.D{{Key: "challenger", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "opponent", Value: 1}, {Key: "status", Value: 1}}},
		},
		r.selfChallenges: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}}},
			{Keys: bson.D{{Key: "challenger", Value: 1}}},
		},
		r.friendRequests: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "status", Value: 1}}},
		},
		r.daily: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: unique},
		},
		r.chats: {
			{Keys: bson.D{{Key: "users", Value: 1}, {Key: "updatedAt", Value: -1}}},
		},
		r.messages: {
			{Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (r *Repository) Disconnect(ctx context.Context) error {
	return r.mongoclientInstance.Disconnect(ctx)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
