package repositories

import (
	"context"
	"fmt"
	"math"
	"testing"

	"clients_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemoryRepo(t *testing.T, clients ...models.Client) ClientRepository {
	t.Helper()
	repo := NewMemoryClientRepository()
	for i := range clients {
		require.NoError(t, repo.Save(context.Background(), &clients[i]))
	}
	return repo
}

func TestMemoryFindAllPaged_OutOfRange(t *testing.T) {
	repo := seedMemoryRepo(t,
		models.Client{Email: "a@x.com", Username: "a"},
		models.Client{Email: "b@x.com", Username: "b"},
	)
	ctx := context.Background()

	clients, total, err := repo.FindAllPaged(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
	assert.Equal(t, 2, total)

	for _, page := range []int{2, math.MaxInt / 2, math.MaxInt} {
		clients, total, err = repo.FindAllPaged(ctx, page, 2)
		require.NoError(t, err)
		assert.Empty(t, clients)
		assert.Zero(t, total)
	}
}

func TestMemorySave_EmailConflictReportedFirst(t *testing.T) {
	// Many records make map iteration order visible if the check depended on it.
	var seed []models.Client
	for i := 0; i < 32; i++ {
		seed = append(seed, models.Client{
			Email:    fmt.Sprintf("user%d@x.com", i),
			Username: fmt.Sprintf("user%d", i),
		})
	}
	repo := seedMemoryRepo(t, seed...)

	for i := 0; i < 20; i++ {
		c := &models.Client{Email: seed[3].Email, Username: seed[17].Username}
		err := repo.Save(context.Background(), c)

		var dup *DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	}
}

func TestMemoryUpdate_OwnValuesAreNotConflicts(t *testing.T) {
	repo := seedMemoryRepo(t, models.Client{Email: "a@x.com", Username: "a"})
	ctx := context.Background()

	c, err := repo.FindByUsername(ctx, "a")
	require.NoError(t, err)
	c.FirstName = "Ada"
	require.NoError(t, repo.Update(ctx, c))
}
