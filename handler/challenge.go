package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type createChallengeRequest struct {
	ChallengerUsername string `json:"challengerUsername"`
	OpponentUsername   string `json:"opponentUsername"`
	Criterion          string `json:"criterion"`
	EndDate            string `json:"endDate"`
}

type createSelfChallengeRequest struct {
	Criterion             string  `json:"criterion"`
	TargetValueChallenger float64 `json:"targetValueChallenger"`
	EndDate               string  `json:"endDate"`
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (UTC).
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *Handler) createChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		badRequest(c, "endDate must be a date")
		return
	}
	ch, err := h.Challenges.CreateChallenge(c.Request.Context(), req.ChallengerUsername, req.OpponentUsername, req.Criterion, end)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, ch)
}

func (h *Handler) createSelfChallenge(c *gin.Context) {
	var req createSelfChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		badRequest(c, "endDate must be a date")
		return
	}
	ch, err := h.Challenges.CreateSelfChallenge(c.Request.Context(), userID(c), req.Criterion, req.TargetValueChallenger, end)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, ch)
}

func (h *Handler) endChallenge(c *gin.Context) {
	ch, err := h.Challenges.EndChallenge(c.Request.Context(), userID(c), c.Param("challengeId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, ch)
}

func (h *Handler) activeChallenges(c *gin.Context) {
	list, err := h.Challenges.GetActiveChallenges(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) completedChallenges(c *gin.Context) {
	list, err := h.Challenges.GetCompletedChallenges(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *Handler) selfChallenges(c *gin.Context) {
	list, err := h.Challenges.GetSelfChallenges(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}
