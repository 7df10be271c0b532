package repository

import (
	"context"
	"regexp"
	"time"

	"leetcoders/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var summaryProjection = bson.M{"username": 1, "realName": 1, "profileImage": 1, "score": 1}

func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Friends == nil {
		u.Friends = []primitive.ObjectID{}
	}
	_, err := r.users.InsertOne(ctx, u)
	return translate(err)
}

func (r *Repository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var u model.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) ListUserRefs(ctx context.Context) ([]model.UserRef, error) {
	opts := options.Find().
		SetProjection(bson.M{"username": 1, "email": 1}).
		SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	refs := []model.UserRef{}
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// UpdateSnapshot overwrites every snapshot field except the username, which
// stays the key the user signed up with.
func (r *Repository) UpdateSnapshot(ctx context.Context, id primitive.ObjectID, snap model.Snapshot, score int, at time.Time) error {
	raw, err := bson.Marshal(snap)
	if err != nil {
		return err
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return err
	}
	delete(set, "username")
	set["score"] = score
	set["updatedAt"] = at

	result, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SearchUsers(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{"$or": []bson.M{
		{"username": bson.M{"$regex": pattern, "$options": "i"}},
		{"realName": bson.M{"$regex": pattern, "$options": "i"}},
	}}
	opts := options.Find().
		SetProjection(summaryProjection).
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "username", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	users := []model.UserSummary{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) ListLeaderboard(ctx context.Context, sortField string, limit int) ([]model.LeaderboardEntry, error) {
	direction := -1
	filter := bson.M{}
	if model.SortAscending(sortField) {
		direction = 1
		filter[sortField] = bson.M{"$gt": 0}
	}
	projection := bson.M{"username": 1, "realName": 1, "profileImage": 1, "score": 1, sortField: 1}
	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: sortField, Value: direction}, {Key: "username", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, users[i].Entry(sortField))
	}
	return entries, nil
}

func (r *Repository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"friends": friendID}})
}

func (r *Repository) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$pull": bson.M{"friends": friendID}})
}

func (r *Repository) AddSheetSolved(ctx context.Context, userID primitive.ObjectID, questionID string) error {
	return r.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"sheetSolved": questionID}})
}

func (r *Repository) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
