package testcards

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alovak/cardsynth/internal/brand"
	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/expiry"
	"github.com/alovak/cardsynth/internal/fixture"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/google/uuid"
)

var ErrInvalidArgument = cardgen.ErrInvalidArgument

const (
	uniqueRetries = 10
	batchAttempts = 3
)

type Service struct {
	repo   *Repository
	cfg    *Config
	policy expiry.Policy
	src    cardgen.Source
	now    func() time.Time
}

// NewService builds a service drawing digits from crypto/rand.
func NewService(repo *Repository, cfg *Config) *Service {
	return NewServiceWithSource(repo, cfg, cardgen.NewCryptoSource())
}

// NewServiceWithSource builds a service around one shared source. Calls to
// the source are serialized, so src need not be safe for concurrent use.
func NewServiceWithSource(repo *Repository, cfg *Config, src cardgen.Source) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	policy := expiry.DefaultPolicy()
	if len(cfg.ProductYears) > 0 {
		policy.ProductYears = cfg.ProductYears
	}
	return &Service{
		repo:   repo,
		cfg:    cfg,
		policy: policy,
		src:    &lockedSource{src: src},
		now:    time.Now,
	}
}

// SetExpiryLocation changes the timezone used to compute expiry dates.
func (s *Service) SetExpiryLocation(loc *time.Location) {
	if loc != nil {
		s.policy.Location = loc
	}
}

// Brands lists the brands callers may request by name.
func (s *Service) Brands() []brand.Brand {
	return brand.Builtin()
}

// Generate synthesizes a batch of unique test cards and stores it.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest) (*models.Batch, error) {
	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > s.cfg.MaxBatch {
		return nil, fmt.Errorf("%w: count must be 1..%d", ErrInvalidArgument, s.cfg.MaxBatch)
	}
	brands, err := s.resolveBrands(req)
	if err != nil {
		return nil, err
	}

	product := req.Product
	if product == "" {
		product = s.cfg.CardProduct
	}
	expYYMM := s.policy.YYMM(s.now(), s.policy.YearsFor(product, req.Years))
	face, _ := expiry.CardFace(expYYMM)

	for attempt := 0; attempt < batchAttempts; attempt++ {
		batch := &models.Batch{
			ID:        uuid.New().String(),
			CreatedAt: s.now().UTC(),
		}
		seen := make(map[string]struct{}, count)
		exists := func(pan string) (bool, error) {
			if _, ok := seen[pan]; ok {
				return true, nil
			}
			return s.repo.ExistsCardNumber(ctx, pan)
		}

		var rot brand.Rotation
		for i := 0; i < count; i++ {
			var b brand.Brand
			b, rot, err = rot.Next(brands)
			if err != nil {
				return nil, err
			}
			length := req.Length
			if length == 0 {
				length = b.Length
			}
			pan, err := cardgen.GenerateUnique(s.src, b.Prefixes, length, uniqueRetries, exists)
			if err != nil {
				return nil, fmt.Errorf("generating card: %w", err)
			}
			seen[pan] = struct{}{}
			batch.Cards = append(batch.Cards, s.newCard(batch.ID, pan, b.Name, expYYMM, face))
		}

		err = s.repo.CreateBatch(ctx, batch)
		if err == nil {
			return batch, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("creating batch: %w", err)
		}
	}
	return nil, fmt.Errorf("could not store unique batch after %d attempts", batchAttempts)
}

func (s *Service) newCard(batchID, pan, brandName, expYYMM, face string) *models.Card {
	if brandName == "" {
		if b, ok := brand.Detect(pan); ok {
			brandName = b.Name
		}
	}
	return &models.Card{
		ID:         uuid.New().String(),
		BatchID:    batchID,
		Brand:      brandName,
		Number:     pan,
		Masked:     cardgen.MaskPAN(pan),
		ExpiryYYMM: expYYMM,
		CardFace:   face,
	}
}

func (s *Service) resolveBrands(req models.GenerateRequest) ([]brand.Brand, error) {
	length := req.Length
	if length == 0 {
		length = s.cfg.Length
	}
	if len(req.Prefixes) > 0 {
		return []brand.Brand{{Prefixes: req.Prefixes, Length: length}}, nil
	}
	names := req.Brands
	if len(names) == 0 {
		name := req.Brand
		if name == "" {
			name = s.cfg.DefaultBrand
		}
		names = []string{name}
	}
	out := make([]brand.Brand, 0, len(names))
	for _, n := range names {
		b, err := brand.Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// GetBatch returns a stored batch.
func (s *Service) GetBatch(ctx context.Context, batchID string) (*models.Batch, error) {
	batch, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("finding batch: %w", err)
	}
	return batch, nil
}

// Validate checks a caller-supplied number both as a bare Luhn string and
// as a PAN.
func (s *Service) Validate(number string) models.Validation {
	digits := cardgen.DigitsOnly(number)
	v := models.Validation{
		Digits: digits,
		Masked: cardgen.MaskPAN(digits),
		Luhn:   cardgen.IsValid(number),
	}
	if err := cardgen.ValidatePAN(cardgen.NormalizePAN(number)); err != nil {
		v.Reason = strings.TrimPrefix(err.Error(), cardgen.ErrInvalidPAN.Error()+": ")
	} else {
		v.Valid = true
	}
	if b, ok := brand.Detect(digits); ok {
		v.Brand = b.Name
	}
	return v
}

// AuthorizationFixture synthesizes one card and packs it into an ISO 8583
// authorization request. The card is not stored.
func (s *Service) AuthorizationFixture(ctx context.Context, req models.FixtureRequest) (*models.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := req.Brand
	if name == "" {
		name = s.cfg.DefaultBrand
	}
	b, err := brand.Lookup(name)
	if err != nil {
		return nil, err
	}
	pan, err := b.Synthesize(s.src, 0)
	if err != nil {
		return nil, fmt.Errorf("generating card: %w", err)
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	expYYMM := s.policy.YYMM(s.now(), s.policy.YearsFor(s.cfg.CardProduct, 0))
	face, _ := expiry.CardFace(expYYMM)

	msg, err := fixture.AuthorizationRequest(pan, expYYMM, req.Amount, currency, req.STAN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &models.Fixture{
		Card:    s.newCard("", pan, b.Name, expYYMM, face),
		Message: hex.EncodeToString(msg),
	}, nil
}

// Ping reports store readiness.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

type lockedSource struct {
	mu  sync.Mutex
	src cardgen.Source
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}
