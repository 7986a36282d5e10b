package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/moonbase-api/internal/models"
)

func TestActivityLogRepositoryListFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewActivityLogRepository(db)

	entries := []models.ActivityLog{
		{ActorID: 1, ActorRole: "teacher", Action: "classroom.created", EntityType: "classroom", EntityID: "algebra", Metadata: datatypes.JSONMap{"name": "Algebra"}},
		{ActorID: 2, ActorRole: "student", Action: "classroom.joined", EntityType: "classroom", EntityID: "algebra"},
		{ActorID: 2, ActorRole: "student", Action: "submission.created", EntityType: "submission", EntityID: "abc"},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	actor := uint(2)
	items, total, err := repo.List(ctx, ActivityLogFilter{ActorID: &actor})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "submission.created", items[0].Action, "newest entry first")

	items, total, err = repo.List(ctx, ActivityLogFilter{EntityType: "classroom", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	require.Equal(t, "classroom.created", items[0].Action)
	require.Equal(t, "Algebra", items[0].Metadata["name"])
}
