package repository

import (
	"context"
	"time"

	"leetcoders/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var byEndDateDesc = options.Find().SetSort(bson.D{{Key: "endDate", Value: -1}})

func (r *Repository) InsertChallenge(ctx context.Context, c *model.Challenge) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.challenges.InsertOne(ctx, c)
	return translate(err)
}

func (r *Repository) GetChallenge(ctx context.Context, id primitive.ObjectID) (*model.Challenge, error) {
	var c model.Challenge
	if err := r.challenges.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Repository) ListChallenges(ctx context.Context, userID primitive.ObjectID, status string) ([]model.Challenge, error) {
	filter := bson.M{
		"$or":    []bson.M{{"challenger": userID}, {"opponent": userID}},
		"status": status,
	}
	cursor, err := r.challenges.Find(ctx, filter, byEndDateDesc)
	if err != nil {
		return nil, err
	}
	out := []model.Challenge{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListDueChallenges(ctx context.Context, cutoff time.Time) ([]model.Challenge, error) {
	filter := bson.M{"status": model.StatusActive, "endDate": bson.M{"$lte": cutoff}}
	cursor, err := r.challenges.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Challenge{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) CompleteChallenge(ctx context.Context, id primitive.ObjectID, endChallenger, endOpponent float64, result string) (bool, error) {
	filter := bson.M{"_id": id, "status": model.StatusActive}
	update := bson.M{"$set": bson.M{
		"endValueChallenger": endChallenger,
		"endValueOpponent":   endOpponent,
		"result":             result,
		"status":             model.StatusCompleted,
	}}
	res, err := r.challenges.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *Repository) InsertSelfChallenge(ctx context.Context, c *model.SelfChallenge) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.selfChallenges.InsertOne(ctx, c)
	return translate(err)
}

func (r *Repository) GetSelfChallenge(ctx context.Context, id primitive.ObjectID) (*model.SelfChallenge, error) {
	var c model.SelfChallenge
	if err := r.selfChallenges.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Repository) ListSelfChallenges(ctx context.Context, userID primitive.ObjectID) ([]model.SelfChallenge, error) {
	cursor, err := r.selfChallenges.Find(ctx, bson.M{"challenger": userID}, byEndDateDesc)
	if err != nil {
		return nil, err
	}
	out := []model.SelfChallenge{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListDueSelfChallenges(ctx context.Context, cutoff time.Time) ([]model.SelfChallenge, error) {
	filter := bson.M{"status": model.StatusActive, "endDate": bson.M{"$lte": cutoff}}
	cursor, err := r.selfChallenges.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []model.SelfChallenge{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) CompleteSelfChallenge(ctx context.Context, id primitive.ObjectID, end float64, result string) (bool, error) {
	filter := bson.M{"_id": id, "status": model.StatusActive}
	update := bson.M{"$set": bson.M{
		"endValueChallenger": end,
		"result":             result,
		"status":             model.StatusCompleted,
	}}
	res, err := r.selfChallenges.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
