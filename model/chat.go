package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LatestMessage struct {
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Message   string             `bson:"message" json:"message"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Chat is either a direct conversation between two users or a named group
// owned by GroupAdmin.
type Chat struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ChatName      string               `bson:"chatName" json:"chatName"`
	IsGroup       bool                 `bson:"isGroup" json:"isGroup"`
	Users         []primitive.ObjectID `bson:"users" json:"users"`
	GroupAdmin    *primitive.ObjectID  `bson:"groupAdmin,omitempty" json:"groupAdmin,omitempty"`
	LatestMessage *LatestMessage       `bson:"latestMessage,omitempty" json:"latestMessage,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (c *Chat) HasMember(id primitive.ObjectID) bool {
	for _, u := range c.Users {
		if u == id {
			return true
		}
	}
	return false
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    primitive.ObjectID `bson:"chatId" json:"chatId"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Message   string             `bson:"message" json:"message"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ChatView resolves member ids to user cards.
type ChatView struct {
	Chat
	Members []UserSummary `json:"members"`
}

// ChatEvent is the payload fanned out to every member's subject.
type ChatEvent struct {
	Type    string   `json:"type"`
	ChatID  string   `json:"chatId"`
	Message *Message `json:"message,omitempty"`
	Chat    *Chat    `json:"chat,omitempty"`
}
