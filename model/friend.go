package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// FriendRequest records are never deleted so a repeated send can be detected.
type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver" json:"receiver"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PendingRequest is an incoming request with the sender's card attached.
type PendingRequest struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    UserSummary        `json:"sender"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// UserProfile is another user's public record as seen by the viewer.
type UserProfile struct {
	User         *User  `json:"user"`
	IsFriend     bool   `json:"isFriend"`
	RequestState string `json:"requestState,omitempty"`
	// GlobalRank is 1-based; 0 when the user is not ranked yet.
	GlobalRank int `json:"globalRank,omitempty"`
}
