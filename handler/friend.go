package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendRequestBody struct {
	ReceiverID string `json:"receiverId"`
}

func (h *Handler) sendFriendRequest(c *gin.Context) {
	var req sendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	fr, err := h.Friends.SendRequest(c.Request.Context(), userID(c), req.ReceiverID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, fr)
}

func (h *Handler) pendingRequests(c *gin.Context) {
	list, err := h.Friends.ListPending(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) acceptRequest(c *gin.Context) {
	if err := h.Friends.Accept(c.Request.Context(), userID(c), c.Param("requestId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Friend request accepted"})
}

func (h *Handler) rejectRequest(c *gin.Context) {
	if err := h.Friends.Reject(c.Request.Context(), userID(c), c.Param("requestId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Friend request rejected"})
}

func (h *Handler) removeFriend(c *gin.Context) {
	if err := h.Friends.RemoveFriend(c.Request.Context(), userID(c), c.Param("friendId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Friend removed"})
}

func (h *Handler) listFriends(c *gin.Context) {
	list, err := h.Friends.ListFriends(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}
