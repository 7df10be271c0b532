package repository

import (
	"context"

	"leetcoders/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *Repository) InsertFriendRequest(ctx context.Context, fr *model.FriendRequest) error {
	if fr.ID.IsZero() {
		fr.ID = primitive.NewObjectID()
	}
	_, err := r.friendRequests.InsertOne(ctx, fr)
	return translate(err)
}

func (r *Repository) GetFriendRequest(ctx context.Context, id primitive.ObjectID) (*model.FriendRequest, error) {
	var fr model.FriendRequest
	if err := r.friendRequests.FindOne(ctx, bson.M{"_id": id}).Decode(&fr); err != nil {
		return nil, translate(err)
	}
	return &fr, nil
}

func (r *Repository) FindFriendRequest(ctx context.Context, sender, receiver primitive.ObjectID) (*model.FriendRequest, error) {
	var fr model.FriendRequest
	if err := r.friendRequests.FindOne(ctx, bson.M{"sender": sender, "receiver": receiver}).Decode(&fr); err != nil {
		return nil, translate(err)
	}
	return &fr, nil
}

func (r *Repository) ListPendingRequests(ctx context.Context, receiver primitive.ObjectID) ([]model.FriendRequest, error) {
	filter := bson.M{"receiver": receiver, "status": model.RequestPending}
	cursor, err := r.friendRequests.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []model.FriendRequest{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) SetRequestStatus(ctx context.Context, id primitive.ObjectID, from, to string) (bool, error) {
	res, err := r.friendRequests.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *Repository) InsertDailyChallenge(ctx context.Context, d *model.DailyChallenge) error {
	if d.UnsolvedUsers == nil {
		d.UnsolvedUsers = []string{}
	}
	if d.CompletedUsers == nil {
		d.CompletedUsers = []model.CompletedUser{}
	}
	_, err := r.daily.InsertOne(ctx, d)
	return translate(err)
}

func (r *Repository) GetDailyChallenge(ctx context.Context, date string) (*model.DailyChallenge, error) {
	var d model.DailyChallenge
	if err := r.daily.FindOne(ctx, bson.M{"date": date}).Decode(&d); err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// MarkDailyCompleted filters on membership in unsolvedUsers so the pull and
// push happen together or not at all.
func (r *Repository) MarkDailyCompleted(ctx context.Context, date string, cu model.CompletedUser) (bool, error) {
	filter := bson.M{"date": date, "unsolvedUsers": cu.Username}
	update := bson.M{
		"$pull": bson.M{"unsolvedUsers": cu.Username},
		"$push": bson.M{"completedUsers": cu},
	}
	res, err := r.daily.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *Repository) ListSheetQuestions(ctx context.Context) ([]model.SheetQuestion, error) {
	cursor, err := r.sheet.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []model.SheetQuestion{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) GetSheetQuestion(ctx context.Context, id string) (*model.SheetQuestion, error) {
	var q model.SheetQuestion
	if err := r.sheet.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}
