package handler

import (
	"context"
	"net/http"
	"strconv"

	"leetcoders/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zapcore"
)

func (h *Handler) getLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	entries, err := h.Leaderboard.GetLeaderboard(c.Request.Context(), c.Query("sortField"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// updateLeaderboard starts a refresh detached from the request and
// answers immediately.
func (h *Handler) updateLeaderboard(c *gin.Context) {
	traceID := c.GetString(ctxTraceID)
	h.Background(func() {
		if _, err := h.Leaderboard.RefreshAll(context.Background()); err != nil {
			h.Logger.Log(zapcore.ErrorLevel, traceID, "Leaderboard refresh failed", map[string]any{
				"method":    "updateLeaderboard",
				"errorType": service.ErrorType(err),
			}, "HANDLER", err)
		}
	})
	respond(c, http.StatusAccepted, gin.H{"message": "Leaderboard update started"})
}

func (h *Handler) getDaily(c *gin.Context) {
	d, err := h.Daily.GetToday(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, d)
}

func (h *Handler) getSheet(c *gin.Context) {
	list, err := h.Sheet.ListQuestions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) getUserSheet(c *gin.Context) {
	list, err := h.Sheet.GetUserSheet(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) markSolved(c *gin.Context) {
	if err := h.Sheet.MarkSolved(c.Request.Context(), userID(c), c.Param("questionId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Question marked as solved"})
}
