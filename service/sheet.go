package service

import (
	"context"
	"strings"

	"leetcoders/logger"
	"leetcoders/model"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// SheetService serves the curated problem sheet and per-user progress on it.
type SheetService struct {
	users  UserStore
	sheet  SheetStore
	logger *logger.Logger
}

func NewSheetService(users UserStore, sheet SheetStore, log *logger.Logger) *SheetService {
	return &SheetService{users: users, sheet: sheet, logger: log}
}

func (s *SheetService) ListQuestions(ctx context.Context) ([]model.SheetQuestion, error) {
	questions, err := s.sheet.ListSheetQuestions(ctx)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, uuid.New().String(), "Failed to fetch questions", map[string]any{
			"method":    "ListQuestions",
			"errorType": ErrTypeDB,
		}, "SERVICE", err)
		return nil, dbError("Failed to fetch questions", err)
	}
	return questions, nil
}

// GetUserSheet returns every question flagged with the user's completion.
func (s *SheetService) GetUserSheet(ctx context.Context, userID string) ([]model.SheetProgress, error) {
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return nil, aerr
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	questions, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	solved := make(map[string]bool, len(user.SheetSolved))
	for _, q := range user.SheetSolved {
		solved[q] = true
	}
	out := make([]model.SheetProgress, 0, len(questions))
	for _, q := range questions {
		out = append(out, model.SheetProgress{SheetQuestion: q, IsCompleted: solved[q.ID]})
	}
	return out, nil
}

// MarkSolved records a question as solved. Marking it twice is a no-op.
func (s *SheetService) MarkSolved(ctx context.Context, userID, questionID string) error {
	traceID := uuid.New().String()
	id, aerr := parseObjectID(userID, "user")
	if aerr != nil {
		return aerr
	}
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return validationError("Question id is required")
	}
	if _, err := s.sheet.GetSheetQuestion(ctx, questionID); err != nil {
		return storeError(err, "Question not found")
	}
	if err := s.users.AddSheetSolved(ctx, id, questionID); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to mark question solved", map[string]any{
			"method":     "MarkSolved",
			"questionId": questionID,
			"errorType":  ErrTypeDB,
		}, "SERVICE", err)
		return storeError(err, "User not found")
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Question marked solved", map[string]any{
		"method":     "MarkSolved",
		"questionId": questionID,
	}, "SERVICE", nil)
	return nil
}
