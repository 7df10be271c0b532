package handler

import (
	"io"
	"net/http"

	"leetcoders/natsclient"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap/zapcore"
)

type accessChatRequest struct {
	UserID string `json:"userId"`
}

type createGroupRequest struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

type renameGroupRequest struct {
	ChatID   string `json:"chatId"`
	ChatName string `json:"chatName"`
}

type groupMemberRequest struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

func (h *Handler) accessChat(c *gin.Context) {
	var req accessChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	chat, err := h.Chats.AccessChat(c.Request.Context(), userID(c), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, chat)
}

func (h *Handler) listChats(c *gin.Context) {
	list, err := h.Chats.ListChats(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	chat, err := h.Chats.CreateGroup(c.Request.Context(), userID(c), req.Name, req.Users)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, chat)
}

func (h *Handler) renameGroup(c *gin.Context) {
	var req renameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	chat, err := h.Chats.RenameGroup(c.Request.Context(), userID(c), req.ChatID, req.ChatName)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, chat)
}

func (h *Handler) addToGroup(c *gin.Context) {
	var req groupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	chat, err := h.Chats.AddToGroup(c.Request.Context(), userID(c), req.ChatID, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, chat)
}

func (h *Handler) removeFromGroup(c *gin.Context) {
	var req groupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	chat, err := h.Chats.RemoveFromGroup(c.Request.Context(), userID(c), req.ChatID, req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, chat)
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	msg, err := h.Chats.SendMessage(c.Request.Context(), userID(c), req.ChatID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, msg)
}

func (h *Handler) getMessages(c *gin.Context) {
	msgs, err := h.Chats.GetMessages(c.Request.Context(), userID(c), c.Param("chatId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, msgs)
}

// streamChats relays the caller's chat events as server-sent events until
// the client goes away.
func (h *Handler) streamChats(c *gin.Context) {
	if h.Subscriber == nil {
		failWith(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Real-time updates are not enabled")
		return
	}
	uid := userID(c)
	ch := make(chan *nats.Msg, 64)
	sub, err := h.Subscriber.ChanSubscribe(natsclient.UserSubject(uid), ch)
	if err != nil {
		h.Logger.Log(zapcore.ErrorLevel, c.GetString(ctxTraceID), "Failed to subscribe to chat events", map[string]any{
			"method":    "streamChats",
			"userId":    uid,
			"errorType": "SUBSCRIBE_ERROR",
		}, "HANDLER", err)
		failWith(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Real-time updates are not available")
		return
	}
	defer func() { _ = sub.Unsubscribe() }()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg := <-ch:
			c.SSEvent("message", string(msg.Data))
			return true
		}
	})
}
