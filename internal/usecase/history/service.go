package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/wealthflow-portfolio/internal/domain"
)

// HistoryService rebuilds and serves the owner's portfolio snapshot series.
// Rebuilds for the same owner must not run concurrently; callers serialize them.
type HistoryService struct {
	HoldingRepo     domain.HoldingRepository
	TransactionRepo domain.TransactionRepository
	SnapshotRepo    domain.SnapshotRepository
	Rates           domain.RateProvider
	Clock           domain.Clock
	logger          zerolog.Logger
}

// NewHistoryService creates a new HistoryService instance
func NewHistoryService(
	holdingRepo domain.HoldingRepository,
	transactionRepo domain.TransactionRepository,
	snapshotRepo domain.SnapshotRepository,
	rates domain.RateProvider,
	clock domain.Clock,
	logger zerolog.Logger,
) *HistoryService {
	return &HistoryService{
		HoldingRepo:     holdingRepo,
		TransactionRepo: transactionRepo,
		SnapshotRepo:    snapshotRepo,
		Rates:           rates,
		Clock:           clock,
		logger:          logger.With().Str("service", "history").Logger(),
	}
}

// Rebuild regenerates the owner's full snapshot series and replaces the stored one.
// If loading or replay fails nothing is written and the previous series stays in place.
func (s *HistoryService) Rebuild(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", domain.ErrInvalidInput)
	}

	holdings, err := s.HoldingRepo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	txsByHolding := make(map[uuid.UUID][]domain.Transaction, len(holdings))
	for _, holding := range holdings {
		txs, err := s.TransactionRepo.ListByHolding(ctx, holding.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions for holding %s: %w", holding.ID, err)
		}
		txsByHolding[holding.ID] = txs
	}

	referenceRate, err := s.Rates.ReferenceRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reference rate: %w", err)
	}

	snapshots, err := Reconstruct(owner, holdings, txsByHolding, referenceRate, s.Clock.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("history reconstruction failed")
		return nil, fmt.Errorf("failed to reconstruct history: %w", err)
	}

	if err := s.SnapshotRepo.ReplaceForOwner(ctx, owner, snapshots); err != nil {
		return nil, fmt.Errorf("failed to store history: %w", err)
	}

	s.logger.Info().
		Str("owner", owner).
		Int("holdings", len(holdings)).
		Int("snapshots", len(snapshots)).
		Msg("history rebuilt")

	return snapshots, nil
}

// History returns the stored series, rebuilding it first when there is none,
// when its latest snapshot is from an earlier day than the clock's today,
// or when the latest snapshot has value but no invested amount (rows written before
// the invested column was tracked).
func (s *HistoryService) History(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", domain.ErrInvalidInput)
	}

	snapshots, err := s.SnapshotRepo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	if !needsRebuild(snapshots, s.Clock.Now()) {
		return snapshots, nil
	}

	return s.Rebuild(ctx, owner)
}

func needsRebuild(snapshots []domain.Snapshot, now time.Time) bool {
	if len(snapshots) == 0 {
		return true
	}
	last := snapshots[len(snapshots)-1]
	if startOfDay(last.Timestamp, now.Location()).Before(startOfDay(now, now.Location())) {
		return true
	}
	return last.Gross.IsPositive() && last.Invested.IsZero()
}
