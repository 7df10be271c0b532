package handler

import (
	"net/http"

	"leetcoders/service"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	RealName string `json:"realName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	realName := req.RealName
	if realName == "" {
		realName = req.Name
	}
	res, err := h.Users.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RealName: realName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, res)
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	res, err := h.Users.Signin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *Handler) searchUsers(c *gin.Context) {
	users, err := h.Users.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

func (h *Handler) userData(c *gin.Context) {
	user, err := h.Users.GetUserData(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *Handler) userProfile(c *gin.Context) {
	profile, err := h.Users.GetUserProfile(c.Request.Context(), userID(c), c.Query("username"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

func badRequest(c *gin.Context, message string) {
	failWith(c, http.StatusBadRequest, service.ErrTypeValidation, message)
}
