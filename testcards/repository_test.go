package testcards

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alovak/cardsynth/testcards/models"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestRepository_Memory(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	batch := &models.Batch{ID: "b1", CreatedAt: time.Now(), Cards: []*models.Card{
		{ID: "c1", Number: "4532015112830366"},
		{ID: "c2", Number: "4111111111111111"},
	}}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	ok, err := repo.ExistsCardNumber(ctx, "4111111111111111")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ExistsCardNumber(ctx, "5555555555554444")
	require.NoError(t, err)
	require.False(t, ok)

	// conflict with an earlier batch stores nothing
	clash := &models.Batch{ID: "b2", Cards: []*models.Card{
		{ID: "c3", Number: "5555555555554444"},
		{ID: "c4", Number: "4532015112830366"},
	}}
	require.ErrorIs(t, repo.CreateBatch(ctx, clash), ErrConflict)
	ok, _ = repo.ExistsCardNumber(ctx, "5555555555554444")
	require.False(t, ok)
	_, err = repo.GetBatch(ctx, "b2")
	require.ErrorIs(t, err, ErrNotFound)

	// duplicates inside one batch conflict too
	self := &models.Batch{ID: "b3", Cards: []*models.Card{
		{ID: "c5", Number: "5555555555554444"},
		{ID: "c6", Number: "5555555555554444"},
	}}
	require.ErrorIs(t, repo.CreateBatch(ctx, self), ErrConflict)

	require.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Migrate(ctx))
}

func TestRepository_PGGetBatchRejectsNonUUID(t *testing.T) {
	// sql.Open does not connect; the id must be rejected before any query
	db, err := sql.Open("postgres", "postgres://127.0.0.1:1/none?sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	repo := NewPGRepository(db, []byte("k"))
	for _, id := range []string{"missing", "", "1234"} {
		_, err := repo.GetBatch(context.Background(), id)
		require.ErrorIs(t, err, ErrNotFound, "id %q", id)
	}
}
