package service

import (
	"context"
	"errors"
	"time"

	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
)

// FriendService manages friend requests and the symmetric friend sets they
// produce on user records.
type FriendService struct {
	users    UserStore
	requests FriendRequestStore
	logger   *logger.Logger
	now      Clock
}

func NewFriendService(users UserStore, requests FriendRequestStore, log *logger.Logger) *FriendService {
	return &FriendService{users: users, requests: requests, logger: log, now: time.Now}
}

// SendRequest records a pending request. A second send for the same ordered
// pair is a conflict while the first is pending or the two are friends; a
// rejected or stale record is reopened instead of duplicated.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID string) (*model.FriendRequest, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting SendRequest", map[string]any{
		"method":     "SendRequest",
		"senderId":   senderID,
		"receiverId": receiverID,
	}, "SERVICE", nil)

	sender, aerr := parseObjectID(senderID, "sender")
	if aerr != nil {
		return nil, aerr
	}
	receiver, aerr := parseObjectID(receiverID, "receiver")
	if aerr != nil {
		return nil, aerr
	}
	if sender == receiver {
		return nil, validationError("Cannot send a friend request to yourself")
	}

	senderUser, err := s.users.GetUserByID(ctx, sender)
	if err != nil {
		return nil, storeError(err, "Sender not found")
	}
	if _, err := s.users.GetUserByID(ctx, receiver); err != nil {
		return nil, storeError(err, "Receiver not found")
	}
	if senderUser.HasFriend(receiver) {
		return nil, conflictError("Already friends")
	}

	if reverse, err := s.requests.FindFriendRequest(ctx, receiver, sender); err == nil && reverse.Status == model.RequestPending {
		return nil, conflictError("This user has already sent you a friend request")
	}

	existing, err := s.requests.FindFriendRequest(ctx, sender, receiver)
	switch {
	case err == nil:
		if existing.Status == model.RequestPending {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Duplicate friend request", map[string]any{
				"method":    "SendRequest",
				"requestId": existing.ID.Hex(),
				"errorType": ErrTypeConflict,
			}, "SERVICE", nil)
			return nil, conflictError("Friend request already sent")
		}
		ok, err := s.requests.SetRequestStatus(ctx, existing.ID, existing.Status, model.RequestPending)
		if err != nil {
			return nil, dbError("Failed to reopen friend request", err)
		}
		if !ok {
			return nil, conflictError("Friend request changed concurrently")
		}
		existing.Status = model.RequestPending
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, dbError("Failed to look up friend request", err)
	}

	fr := &model.FriendRequest{
		Sender:    sender,
		Receiver:  receiver,
		Status:    model.RequestPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.requests.InsertFriendRequest(ctx, fr); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Friend request already sent")
		}
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to insert friend request", map[string]any{
			"method":    "SendRequest",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to send friend request", err)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Friend request sent", map[string]any{
		"method":    "SendRequest",
		"requestId": fr.ID.Hex(),
	}, "SERVICE", nil)
	return fr, nil
}

// ListPending returns requests waiting on userID, newest first.
func (s *FriendService) ListPending(ctx context.Context, userID string) ([]model.PendingRequest, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	reqs, err := s.requests.ListPendingRequests(ctx, id)
	if err != nil {
		return nil, dbError("Failed to list friend requests", err)
	}
	senderIDs := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.Sender)
	}
	cards, err := s.summaries(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	out := make([]model.PendingRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, model.PendingRequest{
			ID:        r.ID,
			Sender:    cards[r.Sender],
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Accept adds each user to the other's friend set before flipping the
// request, so a retry after a partial failure converges.
func (s *FriendService) Accept(ctx context.Context, actorID, requestID string) error {
	traceID := uuid.New().String()
	fr, err := s.pendingFor(ctx, actorID, requestID)
	if err != nil {
		return err
	}

	if err := s.users.AddFriend(ctx, fr.Receiver, fr.Sender); err != nil {
		return storeError(err, "User not found")
	}
	if err := s.users.AddFriend(ctx, fr.Sender, fr.Receiver); err != nil {
		return storeError(err, "User not found")
	}
	if _, err := s.requests.SetRequestStatus(ctx, fr.ID, model.RequestPending, model.RequestAccepted); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to mark request accepted", map[string]any{
			"method":    "Accept",
			"requestId": requestID,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return dbError("Failed to accept friend request", err)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Friend request accepted", map[string]any{
		"method":    "Accept",
		"requestId": requestID,
	}, "SERVICE", nil)
	return nil
}

func (s *FriendService) Reject(ctx context.Context, actorID, requestID string) error {
	fr, err := s.pendingFor(ctx, actorID, requestID)
	if err != nil {
		return err
	}
	ok, err := s.requests.SetRequestStatus(ctx, fr.ID, model.RequestPending, model.RequestRejected)
	if err != nil {
		return dbError("Failed to reject friend request", err)
	}
	if !ok {
		return conflictError("Friend request is no longer pending")
	}
	s.logger.Log(zapcore.InfoLevel, uuid.New().String(), "Friend request rejected", map[string]any{
		"method":    "Reject",
		"requestId": requestID,
	}, "SERVICE", nil)
	return nil
}

// RemoveFriend drops the link on both sides. Removing a non-friend is a no-op.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return aerr
	}
	friend, aerr := parseObjectID(friendID, "friend")
	if aerr != nil {
		return aerr
	}
	if err := s.users.RemoveFriend(ctx, id, friend); err != nil {
		return storeError(err, "User not found")
	}
	if err := s.users.RemoveFriend(ctx, friend, id); err != nil {
		return storeError(err, "Friend not found")
	}
	s.logger.Log(zapcore.InfoLevel, uuid.New().String(), "Friend removed", map[string]any{
		"method":   "RemoveFriend",
		"userId":   userID,
		"friendId": friendID,
	}, "SERVICE", nil)
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]model.UserSummary, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	friends, err := s.users.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, dbError("Failed to load friends", err)
	}
	out := make([]model.UserSummary, 0, len(friends))
	for i := range friends {
		out = append(out, friends[i].Summary())
	}
	return out, nil
}

// pendingFor loads a request the actor is allowed to answer.
func (s *FriendService) pendingFor(ctx context.Context, actorID, requestID string) (*model.FriendRequest, error) {
	actor, aerr := parseObjectID(actorID, "user")
	if aerr != nil {
		return nil, aerr
	}
	id, aerr := parseObjectID(requestID, "request")
	if aerr != nil {
		return nil, aerr
	}
	fr, err := s.requests.GetFriendRequest(ctx, id)
	if err != nil {
		return nil, storeError(err, "Friend request not found")
	}
	if fr.Receiver != actor {
		return nil, forbiddenError("Only the receiver can answer a friend request")
	}
	if fr.Status != model.RequestPending {
		return nil, conflictError("Friend request is no longer pending")
	}
	return fr, nil
}

func (s *FriendService) summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	return loadSummaries(ctx, s.users, ids)
}

// loadSummaries resolves ids to user cards; unknown ids are left out.
func loadSummaries(ctx context.Context, users UserStore, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	out := make(map[primitive.ObjectID]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, dbError("Failed to load users", err)
	}
	for i := range found {
		out[found[i].ID] = found[i].Summary()
	}
	return out, nil
}
