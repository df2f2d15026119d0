package testcards

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var (
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("conflict")
)

//go:embed schema.sql
var schemaSQL string

// Repository stores issued batches in memory, or in Postgres when built
// with NewPGRepository. The Postgres store never keeps full numbers.
type Repository struct {
	mu       sync.RWMutex
	batches  map[string]*models.Batch
	panIndex map[string]struct{}

	db      *sql.DB
	hashKey []byte
}

func NewRepository() *Repository {
	return &Repository{
		batches:  make(map[string]*models.Batch),
		panIndex: make(map[string]struct{}),
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB, hashKey []byte) *Repository {
	return &Repository{db: db, hashKey: hashKey}
}

// Migrate creates the testcards schema if it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// CreateBatch stores the batch and all of its cards, or nothing.
func (r *Repository) CreateBatch(ctx context.Context, batch *models.Batch) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		seen := make(map[string]struct{}, len(batch.Cards))
		for _, c := range batch.Cards {
			_, dup := seen[c.Number]
			if _, ok := r.panIndex[c.Number]; ok || dup {
				return fmt.Errorf("card number exists: %w", ErrConflict)
			}
			seen[c.Number] = struct{}{}
		}
		for _, c := range batch.Cards {
			r.panIndex[c.Number] = struct{}{}
		}
		r.batches[batch.ID] = batch
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO testcards.batches(batch_id, created_at) VALUES ($1,$2)`, batch.ID, batch.CreatedAt); err != nil {
		return err
	}
	for i, c := range batch.Cards {
		pan := cardgen.NormalizePAN(c.Number)
		bin := pan
		if len(bin) > 6 {
			bin = bin[:6]
		}
		_, err := tx.ExecContext(ctx, `
            INSERT INTO testcards.cards(card_id, batch_id, position, brand, bin, last4, masked, expiry_yymm, pan_hash)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        `, c.ID, batch.ID, i, c.Brand, bin, cardgen.LastN(pan, 4), c.Masked, c.ExpiryYYMM, cardgen.HashPANHMAC(pan, r.hashKey))
		if isUniqueViolation(err) {
			return fmt.Errorf("card number exists: %w", ErrConflict)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) GetBatch(ctx context.Context, batchID string) (*models.Batch, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		b, ok := r.batches[batchID]
		if !ok {
			return nil, ErrNotFound
		}
		return b, nil
	}

	// batch_id is a uuid column; anything else cannot match a row
	if _, err := uuid.Parse(batchID); err != nil {
		return nil, ErrNotFound
	}

	batch := &models.Batch{}
	row := r.db.QueryRowContext(ctx, `SELECT batch_id, created_at FROM testcards.batches WHERE batch_id=$1`, batchID)
	if err := row.Scan(&batch.ID, &batch.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT card_id, brand, masked, expiry_yymm FROM testcards.cards
         WHERE batch_id=$1 ORDER BY position
    `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		c := &models.Card{BatchID: batch.ID}
		if err := rows.Scan(&c.ID, &c.Brand, &c.Masked, &c.ExpiryYYMM); err != nil {
			return nil, err
		}
		c.CardFace, _ = expiry.CardFace(c.ExpiryYYMM)
		batch.Cards = append(batch.Cards, c)
	}
	return batch, rows.Err()
}

// ExistsCardNumber reports whether a number was already issued.
func (r *Repository) ExistsCardNumber(ctx context.Context, pan string) (bool, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		_, ok := r.panIndex[pan]
		return ok, nil
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM testcards.cards WHERE pan_hash=$1`, cardgen.HashPANHMAC(pan, r.hashKey)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ping returns DB readiness
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
