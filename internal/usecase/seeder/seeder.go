package seeder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// HoldingLister lists the stored holdings
type HoldingLister interface {
	GetAll(ctx context.Context) ([]*domain.Holding, error)
}

// Importer creates holdings from a CSV stream
type Importer interface {
	Import(ctx context.Context, r io.Reader) ([]*domain.Holding, error)
}

// Seeder loads a starter portfolio into an empty store
type Seeder struct {
	holdings HoldingLister
	importer Importer
	log      zerolog.Logger
}

// NewSeeder creates a new Seeder instance
func NewSeeder(holdings HoldingLister, importer Importer, log zerolog.Logger) *Seeder {
	return &Seeder{
		holdings: holdings,
		importer: importer,
		log:      log.With().Str("component", "seeder").Logger(),
	}
}

// Seed imports the CSV file at path when the store holds no holdings yet.
// It is safe to run on every start: a non-empty store is left untouched.
// An empty path disables seeding. It returns the number of holdings created.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	existing, err := s.holdings.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing holdings: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Int("holdings", len(existing)).Msg("store not empty, skipping seed")
		return 0, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	created, err := s.importer.Import(ctx, file)
	if err != nil {
		return len(created), fmt.Errorf("failed to seed from %s: %w", path, err)
	}

	s.log.Info().Str("file", path).Int("created", len(created)).Msg("store seeded")
	return len(created), nil
}
