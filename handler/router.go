// Package handler exposes the services over a gin REST API under /api.
package handler

import (
	"net/http"

	"leetcoders/logger"
	"leetcoders/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
)

// Subscriber delivers messages for a subject onto a channel.
type Subscriber interface {
	ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error)
}

type Handler struct {
	Users       *service.UserService
	Friends     *service.FriendService
	Challenges  *service.ChallengeService
	Daily       *service.DailyChallengeService
	Leaderboard *service.LeaderboardService
	Sheet       *service.SheetService
	Chats       *service.ChatService

	Tokens     TokenVerifier
	Subscriber Subscriber
	Logger     *logger.Logger

	// Background runs detached work such as a leaderboard refresh.
	// Defaults to a new goroutine.
	Background func(func())
}

// Options tune the router outside of the handlers themselves.
type Options struct {
	AllowedOrigins []string
}

func NewRouter(h *Handler, opts Options) *gin.Engine {
	if h.Background == nil {
		h.Background = func(f func()) { go f() }
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.Logger), cors.New(corsConfig(opts)))

	health := func(c *gin.Context) { respond(c, http.StatusOK, gin.H{"status": "ok"}) }
	r.GET("/", health)
	r.GET("/health", health)

	auth := Auth(h.Tokens)
	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/signup", h.signup)
		user.POST("/signin", h.signin)
		user.GET("/getsearcheduser", h.searchUsers)
		user.GET("/userdata", auth, h.userData)
		user.GET("/userProfile", auth, h.userProfile)
		user.GET("/friends", auth, h.listFriends)
	}

	board := api.Group("/leaderboard")
	{
		board.GET("/getboard", h.getLeaderboard)
		board.PUT("/updateboard", auth, h.updateLeaderboard)
	}

	challenge := api.Group("/challenge", auth)
	{
		challenge.POST("/createchallenge", h.createChallenge)
		challenge.POST("/createselfchallenge", h.createSelfChallenge)
		challenge.PUT("/endchallenge/:challengeId", h.endChallenge)
		challenge.GET("/getactivechallenge", h.activeChallenges)
		challenge.GET("/getcompletedchallenge", h.completedChallenges)
		challenge.GET("/getselfchallenge", h.selfChallenges)
	}

	friends := api.Group("/friend-requests", auth)
	{
		friends.POST("/send", h.sendFriendRequest)
		friends.GET("/requests", h.pendingRequests)
		friends.PUT("/accept/:requestId", h.acceptRequest)
		friends.PUT("/reject/:requestId", h.rejectRequest)
		friends.DELETE("/remove/:friendId", h.removeFriend)
		friends.GET("/friends", h.listFriends)
	}

	api.GET("/dcc/getdcc", h.getDaily)

	sheet := api.Group("/striversheet")
	{
		sheet.GET("/getsheet", h.getSheet)
		sheet.GET("/getusersheet", auth, h.getUserSheet)
		sheet.PUT("/solved/:questionId", auth, h.markSolved)
	}

	chats := api.Group("/chats", auth)
	{
		chats.POST("", h.accessChat)
		chats.GET("", h.listChats)
		chats.GET("/stream", h.streamChats)
		chats.POST("/group", h.createGroup)
		chats.PATCH("/group/rename", h.renameGroup)
		chats.PATCH("/groupAdd", h.addToGroup)
		chats.PATCH("/groupRemove", h.removeFromGroup)
	}

	message := api.Group("/message", auth)
	{
		message.POST("", h.sendMessage)
		message.GET("/:chatId", h.getMessages)
	}

	return r
}

func corsConfig(opts Options) cors.Config {
	cfg := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = opts.AllowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{"X-Trace-Id"}
	return cfg
}
