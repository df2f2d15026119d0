package testcards_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/alovak/cardsynth/testcards"
	"github.com/alovak/cardsynth/testcards/models"
)

// TestPGRepository_StoresMaskedOnly verifies that the Postgres store keeps
// masked numbers and HMAC hashes, and that uniqueness holds across batches.
// Skips unless DB_DSN is provided.
func TestPGRepository_StoresMaskedOnly(t *testing.T) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set; skipping DB integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())

	ctx := context.Background()
	repo := testcards.NewPGRepository(db, []byte("test-pan-hash-key"))
	require.NoError(t, repo.Migrate(ctx))

	svc := testcards.NewService(repo, testcards.DefaultConfig())
	batch, err := svc.Generate(ctx, models.GenerateRequest{Brands: []string{"visa", "mastercard"}, Count: 4})
	require.NoError(t, err)

	got, err := svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, got.Cards, 4)
	for i, c := range got.Cards {
		require.Empty(t, c.Number)
		require.Equal(t, batch.Cards[i].Masked, c.Masked)
		require.Equal(t, batch.Cards[i].Brand, c.Brand)
		require.Equal(t, batch.Cards[i].ExpiryYYMM, c.ExpiryYYMM)
	}

	_, err = svc.GetBatch(ctx, "missing")
	require.ErrorIs(t, err, testcards.ErrNotFound)

	exists, err := repo.ExistsCardNumber(ctx, batch.Cards[0].Number)
	require.NoError(t, err)
	require.True(t, exists)

	// same number in a fresh batch must conflict
	dup := &models.Batch{ID: "00000000-0000-0000-0000-000000000001", CreatedAt: batch.CreatedAt, Cards: []*models.Card{{
		ID:         "00000000-0000-0000-0000-000000000002",
		Number:     batch.Cards[0].Number,
		Masked:     batch.Cards[0].Masked,
		ExpiryYYMM: batch.Cards[0].ExpiryYYMM,
	}}}
	require.ErrorIs(t, repo.CreateBatch(ctx, dup), testcards.ErrConflict)
}
