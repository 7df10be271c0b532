package service

import (
	"context"
	"net/http"
	"testing"

	"leetcoders/logger"
	"leetcoders/model"
	"leetcoders/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedSheet([]model.SheetQuestion{
		{ID: "q1", QuesName: "Set Matrix Zeroes", QuesLink: "https://leetcode.com/problems/set-matrix-zeroes/", Tags: []string{"arrays"}},
		{ID: "q2", QuesName: "Pascal's Triangle", QuesLink: "https://leetcode.com/problems/pascals-triangle/", Tags: []string{"arrays"}},
	})
	svc := NewSheetService(store, store, logger.NewNop())
	u := seedUser(t, store, model.Snapshot{Username: "alice"}, 0)

	questions, err := svc.ListQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, questions, 2)

	require.NoError(t, svc.MarkSolved(ctx, u.ID.Hex(), "q2"))
	require.NoError(t, svc.MarkSolved(ctx, u.ID.Hex(), "q2"))

	err = svc.MarkSolved(ctx, u.ID.Hex(), "q9")
	requireAppError(t, err, ErrTypeNotFound, http.StatusNotFound)

	sheet, err := svc.GetUserSheet(ctx, u.ID.Hex())
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	done := map[string]bool{}
	for _, p := range sheet {
		done[p.ID] = p.IsCompleted
	}
	assert.Equal(t, map[string]bool{"q1": false, "q2": true}, done)

	stored, err := store.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"q2"}, stored.SheetSolved)
}
