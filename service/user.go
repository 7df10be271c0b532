package service

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"leetcoders/auth"
	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/repository"
	"leetcoders/score"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
)

const searchLimit = 10

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RealName string `json:"realName"`
}

type AuthResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// UserService owns accounts and the per-user snapshot.
type UserService struct {
	users    UserStore
	requests FriendRequestStore
	fetcher  StatsFetcher
	tokens   TokenIssuer
	ranks    RankBoard
	logger   *logger.Logger
	now      Clock
}

func NewUserService(users UserStore, requests FriendRequestStore, fetcher StatsFetcher, tokens TokenIssuer, ranks RankBoard, log *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		requests: requests,
		fetcher:  fetcher,
		tokens:   tokens,
		ranks:    optionalRankBoard(ranks),
		logger:   log,
		now:      time.Now,
	}
}

// Signup creates the account from the user's current LeetCode snapshot. The
// LeetCode username doubles as the account username.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting Signup", map[string]any{
		"method":   "Signup",
		"username": in.Username,
	}, "SERVICE", nil)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Missing required fields", map[string]any{
			"method":    "Signup",
			"errorType": ErrTypeValidation,
		}, "SERVICE", nil)
		return nil, validationError("Username, email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, validationError("Invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, validationError("Password must be at least 6 characters")
	}

	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Username already exists", map[string]any{
			"method":    "Signup",
			"username":  in.Username,
			"errorType": ErrTypeConflict,
		}, "SERVICE", nil)
		return nil, conflictError("Username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, dbError("Failed to check username", err)
	}

	snap, err := s.fetcher.FetchUser(ctx, in.Username)
	if err != nil {
		ae := fetchError(err)
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to fetch LeetCode profile", map[string]any{
			"method":    "Signup",
			"username":  in.Username,
			"errorType": ae.Type,
		}, "SERVICE", err)
		return nil, ae
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, createAppError(http.StatusInternalServerError, "Failed to hash password", "HASH_ERROR", err)
	}

	now := s.now().UTC()
	user := &model.User{
		Email:     in.Email,
		Password:  hash,
		RealName:  in.RealName,
		Snapshot:  *snap,
		Score:     score.Calculate(*snap),
		Friends:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.Username = in.Username
	if user.RealName == "" {
		user.RealName = in.Username
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to create user", map[string]any{
			"method":    "Signup",
			"username":  in.Username,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Username or email already exists")
		}
		return nil, dbError("Failed to create user", err)
	}

	addToRankBoard(s.ranks, s.logger, traceID, "Signup", user.ID, user.Country, user.Score)

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, createAppError(http.StatusInternalServerError, "Failed to issue token", "TOKEN_ERROR", err)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "User signed up", map[string]any{
		"method": "Signup",
		"userId": user.ID.Hex(),
		"score":  user.Score,
	}, "SERVICE", nil)
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *UserService) Signin(ctx context.Context, username, password string) (*AuthResult, error) {
	traceID := uuid.New().String()
	if username == "" || password == "" {
		return nil, validationError("Username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Signin lookup failed", map[string]any{
			"method":    "Signin",
			"username":  username,
			"errorType": ErrTypeNotFound,
		}, "SERVICE", err)
		return nil, storeError(err, "User not found")
	}
	if !auth.CheckPassword(user.Password, password) {
		s.logger.Log(zapcore.WarnLevel, traceID, "Invalid credentials", map[string]any{
			"method":    "Signin",
			"username":  username,
			"errorType": ErrTypeAuth,
		}, "SERVICE", nil)
		return nil, authError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, createAppError(http.StatusInternalServerError, "Failed to issue token", "TOKEN_ERROR", err)
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "User signed in", map[string]any{
		"method": "Signin",
		"userId": user.ID.Hex(),
	}, "SERVICE", nil)
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Search returns up to ten users whose username or real name contains query.
func (s *UserService) Search(ctx context.Context, query string) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.UserSummary{}, nil
	}
	users, err := s.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, uuid.New().String(), "Search failed", map[string]any{
			"method":    "Search",
			"query":     query,
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to search users", err)
	}
	return users, nil
}

func (s *UserService) GetUserData(ctx context.Context, userID string) (*model.User, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// GetUserProfile returns another user's record together with how the viewer
// relates to them.
func (s *UserService) GetUserProfile(ctx context.Context, viewerID, username string) (*model.UserProfile, error) {
	viewer, aerr := parseObjectID(viewerID, "user")
	if aerr != nil {
		return nil, aerr
	}
	if username == "" {
		return nil, validationError("Username is required")
	}
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	user.Email = ""

	profile := &model.UserProfile{User: user, IsFriend: user.HasFriend(viewer), GlobalRank: s.globalRank(user.ID)}
	if profile.IsFriend || user.ID == viewer {
		return profile, nil
	}
	if fr, err := s.requests.FindFriendRequest(ctx, viewer, user.ID); err == nil && fr.Status == model.RequestPending {
		profile.RequestState = "sent"
	} else if fr, err := s.requests.FindFriendRequest(ctx, user.ID, viewer); err == nil && fr.Status == model.RequestPending {
		profile.RequestState = "received"
	}
	return profile, nil
}

// globalRank reads the user's 1-based position from the rank board, or 0
// when there is no board or the user is not on it.
func (s *UserService) globalRank(id primitive.ObjectID) int {
	if s.ranks == nil {
		return 0
	}
	rank, err := s.ranks.GetRankGlobal(id.Hex())
	if err != nil {
		s.logger.Log(zapcore.WarnLevel, uuid.New().String(), "Rank board lookup failed", map[string]any{
			"method":    "GetUserProfile",
			"userId":    id.Hex(),
			"errorType": "RANKBOARD_ERROR",
		}, "SERVICE", err)
		return 0
	}
	if rank < 0 {
		return 0
	}
	return rank + 1
}
