package service

import (
	"context"
	"fmt"
	"time"

	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/natsclient"
	"leetcoders/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
)

// ChallengeService creates, lists and resolves pairwise and self challenges.
type ChallengeService struct {
	users      UserStore
	challenges ChallengeStore
	events     EventPublisher
	logger     *logger.Logger
	now        Clock
}

func NewChallengeService(users UserStore, challenges ChallengeStore, events EventPublisher, log *logger.Logger) *ChallengeService {
	return &ChallengeService{users: users, challenges: challenges, events: optionalPublisher(events), logger: log, now: time.Now}
}

// ResolveSummary counts what one resolution pass did.
type ResolveSummary struct {
	Challenges     int `json:"challenges"`
	SelfChallenges int `json:"selfChallenges"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
}

// CreateChallenge snapshots both users' current criterion value as the start
// values. Self-pairing and duplicate challenges between a pair are allowed.
func (s *ChallengeService) CreateChallenge(ctx context.Context, challengerUsername, opponentUsername, criterion string, endDate time.Time) (*model.Challenge, error) {
	traceID := uuid.New().String()
	s.logger.Log(zapcore.InfoLevel, traceID, "Starting CreateChallenge", map[string]any{
		"method":     "CreateChallenge",
		"challenger": challengerUsername,
		"opponent":   opponentUsername,
		"criterion":  criterion,
	}, "SERVICE", nil)

	crit, err := model.ParseCriterion(criterion)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Invalid criterion", map[string]any{
			"method":    "CreateChallenge",
			"criterion": criterion,
			"errorType": ErrTypeValidation,
		}, "SERVICE", err)
		return nil, validationError(err.Error())
	}
	if endDate.IsZero() {
		return nil, validationError("End date is required")
	}

	challenger, err := s.users.GetUserByUsername(ctx, challengerUsername)
	if err != nil {
		return nil, storeError(err, "Challenger or opponent not found")
	}
	opponent, err := s.users.GetUserByUsername(ctx, opponentUsername)
	if err != nil {
		return nil, storeError(err, "Challenger or opponent not found")
	}

	c := &model.Challenge{
		Challenger:           challenger.ID,
		Opponent:             opponent.ID,
		Criterion:            crit,
		StartValueChallenger: crit.Value(challenger),
		StartValueOpponent:   crit.Value(opponent),
		StartDate:            s.now().UTC(),
		EndDate:              endDate.UTC(),
		Status:               model.StatusActive,
		Result:               model.ResultPending,
	}
	if err := s.challenges.InsertChallenge(ctx, c); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to insert challenge", map[string]any{
			"method":    "CreateChallenge",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to create challenge", err)
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Challenge created", map[string]any{
		"method":      "CreateChallenge",
		"challengeId": c.ID.Hex(),
	}, "SERVICE", nil)
	return c, nil
}

func (s *ChallengeService) CreateSelfChallenge(ctx context.Context, userID, criterion string, targetValue float64, endDate time.Time) (*model.SelfChallenge, error) {
	traceID := uuid.New().String()
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	crit, err := model.ParseCriterion(criterion)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if endDate.IsZero() {
		return nil, validationError("End date is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Challenger not found")
	}

	c := &model.SelfChallenge{
		Challenger:            user.ID,
		Criterion:             crit,
		StartValueChallenger:  crit.Value(user),
		TargetValueChallenger: targetValue,
		StartDate:             s.now().UTC(),
		EndDate:               endDate.UTC(),
		Status:                model.StatusActive,
		Result:                model.ResultPending,
	}
	if err := s.challenges.InsertSelfChallenge(ctx, c); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to insert self challenge", map[string]any{
			"method":    "CreateSelfChallenge",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to create self challenge", err)
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Self challenge created", map[string]any{
		"method":      "CreateSelfChallenge",
		"challengeId": c.ID.Hex(),
	}, "SERVICE", nil)
	return c, nil
}

// EndChallenge resolves a challenge on request of one of its participants.
// An empty actorID skips the participant check.
func (s *ChallengeService) EndChallenge(ctx context.Context, actorID, challengeID string) (*model.Challenge, error) {
	traceID := uuid.New().String()
	id, aerr := parseObjectID(challengeID, "challenge")
	if aerr != nil {
		return nil, aerr
	}
	c, err := s.challenges.GetChallenge(ctx, id)
	if err != nil {
		return nil, storeError(err, "Challenge not found")
	}
	if actorID != "" {
		actor, aerr := parseObjectID(actorID, "user")
		if aerr != nil {
			return nil, aerr
		}
		if actor != c.Challenger && actor != c.Opponent {
			return nil, forbiddenError("Only participants can end a challenge")
		}
	}
	if c.Status != model.StatusActive {
		return nil, conflictError("Challenge already ended")
	}

	resolved, err := s.resolveChallenge(ctx, traceID, c)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, conflictError("Challenge already ended")
	}
	c, err = s.challenges.GetChallenge(ctx, id)
	if err != nil {
		return nil, storeError(err, "Challenge not found")
	}
	return c, nil
}

// ResolveDueChallenges finishes every active pairwise challenge whose end
// date falls on or before today's UTC midnight, and every active self
// challenge whose end date has passed. One bad record never stops the run.
func (s *ChallengeService) ResolveDueChallenges(ctx context.Context, now time.Time) (ResolveSummary, error) {
	traceID := uuid.New().String()
	var summary ResolveSummary

	cutoff := utils.MidnightUTC(now)
	due, err := s.challenges.ListDueChallenges(ctx, cutoff)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to list due challenges", map[string]any{
			"method":    "ResolveDueChallenges",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return summary, dbError("Failed to list due challenges", err)
	}
	for i := range due {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		ok, err := s.resolveChallenge(ctx, traceID, &due[i])
		switch {
		case err != nil:
			summary.Failed++
		case ok:
			summary.Challenges++
		default:
			summary.Skipped++
		}
	}

	dueSelf, err := s.challenges.ListDueSelfChallenges(ctx, now.UTC())
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to list due self challenges", map[string]any{
			"method":    "ResolveDueChallenges",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return summary, dbError("Failed to list due self challenges", err)
	}
	for i := range dueSelf {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		ok, err := s.resolveSelfChallenge(ctx, traceID, &dueSelf[i])
		switch {
		case err != nil:
			summary.Failed++
		case ok:
			summary.SelfChallenges++
		default:
			summary.Skipped++
		}
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Challenge resolution finished", map[string]any{
		"method":         "ResolveDueChallenges",
		"challenges":     summary.Challenges,
		"selfChallenges": summary.SelfChallenges,
		"skipped":        summary.Skipped,
		"failed":         summary.Failed,
	}, "SERVICE", nil)
	return summary, nil
}

// resolveChallenge reads both participants' current values and completes the
// challenge if it is still active. It reports whether this call did the
// transition.
func (s *ChallengeService) resolveChallenge(ctx context.Context, traceID string, c *model.Challenge) (bool, error) {
	challenger, err := s.users.GetUserByID(ctx, c.Challenger)
	if err != nil {
		s.logResolveFailure(traceID, c.ID, "Failed to load challenger", err)
		return false, storeError(err, "Challenger not found")
	}
	opponent, err := s.users.GetUserByID(ctx, c.Opponent)
	if err != nil {
		s.logResolveFailure(traceID, c.ID, "Failed to load opponent", err)
		return false, storeError(err, "Opponent not found")
	}

	endChallenger := c.Criterion.Value(challenger)
	endOpponent := c.Criterion.Value(opponent)
	result := model.PairResult(endChallenger, endOpponent)

	ok, err := s.challenges.CompleteChallenge(ctx, c.ID, endChallenger, endOpponent, result)
	if err != nil {
		s.logResolveFailure(traceID, c.ID, "Failed to complete challenge", err)
		return false, dbError("Failed to complete challenge", err)
	}
	if !ok {
		return false, nil
	}

	s.publish(traceID, natsclient.SubjectChallengeCompleted, model.ChallengeEvent{
		Type:         natsclient.SubjectChallengeCompleted,
		ChallengeID:  c.ID.Hex(),
		Participants: []primitive.ObjectID{c.Challenger, c.Opponent},
		Criterion:    c.Criterion,
		Result:       result,
		EndValues:    []float64{endChallenger, endOpponent},
	})
	return true, nil
}

func (s *ChallengeService) resolveSelfChallenge(ctx context.Context, traceID string, c *model.SelfChallenge) (bool, error) {
	user, err := s.users.GetUserByID(ctx, c.Challenger)
	if err != nil {
		s.logResolveFailure(traceID, c.ID, "Failed to load self challenger", err)
		return false, storeError(err, "Challenger not found")
	}
	current := c.Criterion.Value(user)
	result := model.SelfResult(c.StartValueChallenger, current)

	ok, err := s.challenges.CompleteSelfChallenge(ctx, c.ID, current, result)
	if err != nil {
		s.logResolveFailure(traceID, c.ID, "Failed to complete self challenge", err)
		return false, dbError("Failed to complete self challenge", err)
	}
	if !ok {
		return false, nil
	}

	s.publish(traceID, natsclient.SubjectSelfChallengeCompleted, model.ChallengeEvent{
		Type:         natsclient.SubjectSelfChallengeCompleted,
		ChallengeID:  c.ID.Hex(),
		Participants: []primitive.ObjectID{c.Challenger},
		Criterion:    c.Criterion,
		Result:       result,
		EndValues:    []float64{current},
	})
	return true, nil
}

func (s *ChallengeService) GetActiveChallenges(ctx context.Context, userID string) ([]model.ChallengeView, error) {
	return s.listChallenges(ctx, userID, model.StatusActive)
}

func (s *ChallengeService) GetCompletedChallenges(ctx context.Context, userID string) ([]model.ChallengeView, error) {
	return s.listChallenges(ctx, userID, model.StatusCompleted)
}

// listChallenges attaches participant cards and, for active challenges, the
// participants' live criterion values.
func (s *ChallengeService) listChallenges(ctx context.Context, userID, status string) ([]model.ChallengeView, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	list, err := s.challenges.ListChallenges(ctx, id, status)
	if err != nil {
		return nil, dbError("Failed to retrieve challenges", err)
	}

	users, err := s.participants(ctx, list)
	if err != nil {
		return nil, err
	}

	views := make([]model.ChallengeView, 0, len(list))
	for _, c := range list {
		v := model.ChallengeView{
			ID:                   c.ID,
			Criterion:            c.Criterion,
			StartValueChallenger: c.StartValueChallenger,
			StartValueOpponent:   c.StartValueOpponent,
			EndValueChallenger:   c.EndValueChallenger,
			EndValueOpponent:     c.EndValueOpponent,
			Status:               c.Status,
			Result:               c.Result,
			StartDate:            c.StartDate,
			EndDate:              c.EndDate,
		}
		if u, ok := users[c.Challenger]; ok {
			v.Challenger = u.Summary()
			if status == model.StatusActive {
				val := c.Criterion.Value(u)
				v.CurrentValueChallenger = &val
			}
		}
		if u, ok := users[c.Opponent]; ok {
			v.Opponent = u.Summary()
			if status == model.StatusActive {
				val := c.Criterion.Value(u)
				v.CurrentValueOpponent = &val
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *ChallengeService) GetSelfChallenges(ctx context.Context, userID string) ([]model.SelfChallengeView, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	list, err := s.challenges.ListSelfChallenges(ctx, id)
	if err != nil {
		return nil, dbError("Failed to retrieve self challenges", err)
	}

	views := make([]model.SelfChallengeView, 0, len(list))
	for _, c := range list {
		views = append(views, model.SelfChallengeView{
			ID:                     c.ID,
			Criterion:              c.Criterion,
			StartValueChallenger:   c.StartValueChallenger,
			CurrentValueChallenger: c.Criterion.Value(user),
			TargetValueChallenger:  c.TargetValueChallenger,
			EndValueChallenger:     c.EndValueChallenger,
			Challenger:             user.Summary(),
			Status:                 c.Status,
			Result:                 c.Result,
			StartDate:              c.StartDate,
			EndDate:                c.EndDate,
		})
	}
	return views, nil
}

func (s *ChallengeService) participants(ctx context.Context, list []model.Challenge) (map[primitive.ObjectID]*model.User, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, c := range list {
		for _, id := range []primitive.ObjectID{c.Challenger, c.Opponent} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	out := make(map[primitive.ObjectID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, dbError("Failed to load participants", err)
	}
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	return out, nil
}

func (s *ChallengeService) publish(traceID, subject string, event model.ChallengeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(subject, event); err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish challenge event", map[string]any{
			"method":      "publish",
			"subject":     subject,
			"challengeId": event.ChallengeID,
			"errorType":   "PUBLISH_ERROR",
		}, "SERVICE", err)
	}
}

func (s *ChallengeService) logResolveFailure(traceID string, id primitive.ObjectID, msg string, err error) {
	s.logger.Log(zapcore.ErrorLevel, traceID, msg, map[string]any{
		"method":      "ResolveDueChallenges",
		"challengeId": id.Hex(),
		"errorType":   fmt.Sprintf("%T", err),
	}, "SERVICE", err)
}
