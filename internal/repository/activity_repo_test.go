package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yxngashy/studietid/internal/models"
)

func TestActivityRepositoryCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	older := models.Activity{OwnerEmail: "ann@x.com", Label: "Read chapter 3", StartedAt: time.Now().Add(-time.Hour), CreatedAt: time.Now().Add(-2 * time.Hour)}
	newer := models.Activity{OwnerEmail: "bob@x.com", Label: "Math exercises", StartedAt: time.Now(), CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(context.Background(), &older))
	require.NoError(t, repo.Create(context.Background(), &newer))

	activities, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, "Math exercises", activities[0].Label, "expected newest record first")

	count, err := repo.CountByOwner(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAuditRepositoryListRecentHonorsLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)

	for i := 0; i < 3; i++ {
		entry := models.AuditEntry{ActorEmail: "admin@x.com", Action: "user.add", EntityType: "user"}
		require.NoError(t, repo.Create(context.Background(), &entry))
	}

	entries, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}
