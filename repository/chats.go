package repository

import (
	"context"
	"time"

	"leetcoders/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *Repository) FindDirectChat(ctx context.Context, a, b primitive.ObjectID) (*model.Chat, error) {
	filter := bson.M{
		"isGroup": false,
		"users":   bson.M{"$all": []primitive.ObjectID{a, b}, "$size": 2},
	}
	var c model.Chat
	if err := r.chats.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Repository) InsertChat(ctx context.Context, c *model.Chat) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.chats.InsertOne(ctx, c)
	return translate(err)
}

func (r *Repository) GetChat(ctx context.Context, id primitive.ObjectID) (*model.Chat, error) {
	var c model.Chat
	if err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Repository) ListChatsForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.chats.Find(ctx, bson.M{"users": userID}, opts)
	if err != nil {
		return nil, err
	}
	out := []model.Chat{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) RenameChat(ctx context.Context, id primitive.ObjectID, name string, at time.Time) error {
	res, err := r.chats.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"chatName": name, "updatedAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) AddChatMember(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": id, "users": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"users": userID}, "$set": bson.M{"updatedAt": at}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, r.chatExists(ctx, id)
	}
	return true, nil
}

func (r *Repository) RemoveChatMember(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (bool, error) {
	res, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": id, "users": userID},
		bson.M{"$pull": bson.M{"users": userID}, "$set": bson.M{"updatedAt": at}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, r.chatExists(ctx, id)
	}
	return true, nil
}

// chatExists returns ErrNotFound when no chat has id.
func (r *Repository) chatExists(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.chats.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) InsertMessage(ctx context.Context, m *model.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.messages.InsertOne(ctx, m)
	return translate(err)
}

func (r *Repository) SetLatestMessage(ctx context.Context, chatID primitive.ObjectID, lm model.LatestMessage) error {
	res, err := r.chats.UpdateOne(ctx, bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"latestMessage": lm, "updatedAt": lm.Timestamp}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, chatID primitive.ObjectID) ([]model.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		return nil, err
	}
	out := []model.Message{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
