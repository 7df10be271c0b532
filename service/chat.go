package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/natsclient"
	"leetcoders/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
)

const (
	ChatEventMessage = "message"
	ChatEventUpdated = "chat.updated"

	minGroupInvitees = 2
)

// ChatService serves direct and group conversations. New messages and
// membership changes are fanned out to each member's subject.
type ChatService struct {
	users  UserStore
	chats  ChatStore
	events EventPublisher
	logger *logger.Logger
	now    Clock
}

func NewChatService(users UserStore, chats ChatStore, events EventPublisher, log *logger.Logger) *ChatService {
	return &ChatService{users: users, chats: chats, events: optionalPublisher(events), logger: log, now: time.Now}
}

// AccessChat returns the direct chat between the two users, creating it on
// first access.
func (s *ChatService) AccessChat(ctx context.Context, userID, otherID string) (*model.ChatView, error) {
	traceID := uuid.New().String()
	me, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	other, aerr := parseObjectID(otherID, "user")
	if aerr != nil {
		return nil, aerr
	}
	if me == other {
		return nil, validationError("Cannot open a chat with yourself")
	}

	chat, err := s.chats.FindDirectChat(ctx, me, other)
	switch {
	case err == nil:
		return s.view(ctx, chat)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, dbError("Failed to look up chat", err)
	}

	if _, err := s.users.GetUserByID(ctx, other); err != nil {
		return nil, storeError(err, "User not found")
	}
	now := s.now().UTC()
	chat = &model.Chat{
		ChatName:  "sender",
		Users:     []primitive.ObjectID{me, other},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chats.InsertChat(ctx, chat); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to create chat", map[string]any{
			"method":    "AccessChat",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to create chat", err)
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Direct chat created", map[string]any{
		"method": "AccessChat",
		"chatId": chat.ID.Hex(),
	}, "SERVICE", nil)
	return s.view(ctx, chat)
}

// ListChats returns the user's chats, most recently active first.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]model.ChatView, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	chats, err := s.chats.ListChatsForUser(ctx, id)
	if err != nil {
		return nil, dbError("Failed to list chats", err)
	}

	var ids []primitive.ObjectID
	for _, c := range chats {
		ids = append(ids, c.Users...)
	}
	cards, err := loadSummaries(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.ChatView, 0, len(chats))
	for _, c := range chats {
		out = append(out, model.ChatView{Chat: c, Members: members(c.Users, cards)})
	}
	return out, nil
}

// CreateGroup makes the caller admin of a new group with at least two other
// members.
func (s *ChatService) CreateGroup(ctx context.Context, adminID, name string, memberIDs []string) (*model.ChatView, error) {
	traceID := uuid.New().String()
	admin, aerr := parseObjectID(adminID, "user")
	if aerr != nil {
		return nil, aerr
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Group name is required")
	}

	users := []primitive.ObjectID{admin}
	seen := map[primitive.ObjectID]bool{admin: true}
	for _, m := range memberIDs {
		id, aerr := parseObjectID(m, "member")
		if aerr != nil {
			return nil, aerr
		}
		if !seen[id] {
			seen[id] = true
			users = append(users, id)
		}
	}
	if len(users)-1 < minGroupInvitees {
		return nil, validationError("A group needs at least two other members")
	}

	found, err := s.users.GetUsersByIDs(ctx, users)
	if err != nil {
		return nil, dbError("Failed to load members", err)
	}
	if len(found) != len(users) {
		return nil, notFoundError("One or more members not found")
	}

	now := s.now().UTC()
	chat := &model.Chat{
		ChatName:   name,
		IsGroup:    true,
		Users:      users,
		GroupAdmin: &admin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.chats.InsertChat(ctx, chat); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to create group", map[string]any{
			"method":    "CreateGroup",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to create group", err)
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Group created", map[string]any{
		"method":  "CreateGroup",
		"chatId":  chat.ID.Hex(),
		"members": len(users),
	}, "SERVICE", nil)
	s.fanOut(traceID, chat.Users, model.ChatEvent{Type: ChatEventUpdated, ChatID: chat.ID.Hex(), Chat: chat})
	return s.view(ctx, chat)
}

func (s *ChatService) RenameGroup(ctx context.Context, actorID, chatID, name string) (*model.ChatView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Group name is required")
	}
	chat, err := s.adminGroup(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.chats.RenameChat(ctx, chat.ID, name, s.now().UTC()); err != nil {
		return nil, storeError(err, "Chat not found")
	}
	return s.reload(ctx, chat.ID)
}

// AddToGroup adds a member; adding an existing member is a conflict.
func (s *ChatService) AddToGroup(ctx context.Context, actorID, chatID, userID string) (*model.ChatView, error) {
	chat, err := s.adminGroup(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}
	member, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	if _, err := s.users.GetUserByID(ctx, member); err != nil {
		return nil, storeError(err, "User not found")
	}
	added, err := s.chats.AddChatMember(ctx, chat.ID, member, s.now().UTC())
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	if !added {
		return nil, conflictError("User is already a member")
	}
	return s.reload(ctx, chat.ID)
}

// RemoveFromGroup lets the admin remove anyone and any member remove
// themselves. Removing a non-member is a conflict.
func (s *ChatService) RemoveFromGroup(ctx context.Context, actorID, chatID, userID string) (*model.ChatView, error) {
	actor, aerr := parseObjectID(actorID, "user")
	if aerr != nil {
		return nil, aerr
	}
	member, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	chat, err := s.group(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isAdmin(chat, actor) && actor != member {
		return nil, forbiddenError("Only the group admin can remove other members")
	}
	removed, err := s.chats.RemoveChatMember(ctx, chat.ID, member, s.now().UTC())
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	if !removed {
		return nil, conflictError("User is not a member")
	}
	return s.reload(ctx, chat.ID, member)
}

// SendMessage stores the message, updates the chat's latest message and
// notifies every member, the sender included.
func (s *ChatService) SendMessage(ctx context.Context, senderID, chatID, content string) (*model.Message, error) {
	traceID := uuid.New().String()
	sender, aerr := parseObjectID(senderID, "user")
	if aerr != nil {
		return nil, aerr
	}
	if strings.TrimSpace(content) == "" {
		return nil, validationError("Message content is required")
	}
	chat, err := s.member(ctx, sender, chatID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ChatID:    chat.ID,
		Sender:    sender,
		Message:   content,
		Timestamp: s.now().UTC(),
	}
	if err := s.chats.InsertMessage(ctx, msg); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to store message", map[string]any{
			"method":    "SendMessage",
			"chatId":    chatID,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to send message", err)
	}
	if err := s.chats.SetLatestMessage(ctx, chat.ID, model.LatestMessage{
		Sender:    sender,
		Message:   content,
		Timestamp: msg.Timestamp,
	}); err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Failed to update latest message", map[string]any{
			"method":    "SendMessage",
			"chatId":    chatID,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
	}

	s.fanOut(traceID, chat.Users, model.ChatEvent{Type: ChatEventMessage, ChatID: chat.ID.Hex(), Message: msg})
	return msg, nil
}

func (s *ChatService) GetMessages(ctx context.Context, userID, chatID string) ([]model.Message, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	chat, err := s.member(ctx, id, chatID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.chats.ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, dbError("Failed to list messages", err)
	}
	return msgs, nil
}

func (s *ChatService) member(ctx context.Context, userID primitive.ObjectID, chatID string) (*model.Chat, error) {
	id, aerr := parseObjectID(chatID, "chat")
	if aerr != nil {
		return nil, aerr
	}
	chat, err := s.chats.GetChat(ctx, id)
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	if !chat.HasMember(userID) {
		return nil, forbiddenError("Not a member of this chat")
	}
	return chat, nil
}

func (s *ChatService) group(ctx context.Context, chatID string) (*model.Chat, error) {
	id, aerr := parseObjectID(chatID, "chat")
	if aerr != nil {
		return nil, aerr
	}
	chat, err := s.chats.GetChat(ctx, id)
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	if !chat.IsGroup {
		return nil, validationError("Chat is not a group")
	}
	return chat, nil
}

func (s *ChatService) adminGroup(ctx context.Context, actorID, chatID string) (*model.Chat, error) {
	actor, aerr := parseObjectID(actorID, "user")
	if aerr != nil {
		return nil, aerr
	}
	chat, err := s.group(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !isAdmin(chat, actor) {
		return nil, forbiddenError("Only the group admin can change the group")
	}
	return chat, nil
}

// reload reads the chat back and sends chat.updated to its members and to
// any former members passed in.
func (s *ChatService) reload(ctx context.Context, id primitive.ObjectID, former ...primitive.ObjectID) (*model.ChatView, error) {
	chat, err := s.chats.GetChat(ctx, id)
	if err != nil {
		return nil, storeError(err, "Chat not found")
	}
	recipients := append([]primitive.ObjectID(nil), chat.Users...)
	for _, u := range former {
		if !chat.HasMember(u) {
			recipients = append(recipients, u)
		}
	}
	s.fanOut(uuid.New().String(), recipients, model.ChatEvent{Type: ChatEventUpdated, ChatID: chat.ID.Hex(), Chat: chat})
	return s.view(ctx, chat)
}

func (s *ChatService) view(ctx context.Context, chat *model.Chat) (*model.ChatView, error) {
	cards, err := loadSummaries(ctx, s.users, chat.Users)
	if err != nil {
		return nil, err
	}
	return &model.ChatView{Chat: *chat, Members: members(chat.Users, cards)}, nil
}

func (s *ChatService) fanOut(traceID string, users []primitive.ObjectID, event model.ChatEvent) {
	if s.events == nil {
		return
	}
	for _, u := range users {
		if err := s.events.PublishJSON(natsclient.UserSubject(u.Hex()), event); err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish chat event", map[string]any{
				"method":    "fanOut",
				"chatId":    event.ChatID,
				"userId":    u.Hex(),
				"errorType": "PUBLISH_ERROR",
			}, "SERVICE", err)
		}
	}
}

func isAdmin(chat *model.Chat, id primitive.ObjectID) bool {
	return chat.GroupAdmin != nil && *chat.GroupAdmin == id
}

// members keeps the chat's member order; unknown ids are skipped.
func members(ids []primitive.ObjectID, cards map[primitive.ObjectID]model.UserSummary) []model.UserSummary {
	out := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if c, ok := cards[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
