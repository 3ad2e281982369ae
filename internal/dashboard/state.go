package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nevofinance/nevo/database/gensql"
	"github.com/shopspring/decimal"
)

const DefaultActivityLimit = 20

var ErrClosed = errors.New("dashboard: state closed")

type Store interface {
	SumDonationsByDonor(ctx context.Context, donor string) ([]gensql.SumDonationsByDonorRow, error)
	CountDonationsByDonor(ctx context.Context, donor string) (int64, error)
	CountPoolsSupported(ctx context.Context, donor string) (int64, error)
	CountActivePools(ctx context.Context, deadline time.Time) (int64, error)
	ListRecentActivities(ctx context.Context, limit int32) ([]gensql.Activity, error)
}

type Total struct {
	Asset  string
	Amount decimal.Decimal
}

type Stats struct {
	Totals         []Total
	ActivePools    int64
	Donations      int64
	PoolsSupported int64
}

type Snapshot struct {
	Stats       Stats
	Activities  []Activity
	RefreshedAt time.Time
}

// State is the dashboard's view of one visitor. It is created when the
// dashboard opens and closed when the visitor leaves.
type State struct {
	store   Store
	address string
	limit   int32
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	snap   Snapshot
	closed bool
}

type Option func(*State)

func WithLimit(n int32) Option {
	return func(s *State) { s.limit = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// New loads the initial snapshot. An empty address shows only global data.
func New(ctx context.Context, store Store, address string, logger *slog.Logger, opts ...Option) (*State, error) {
	s := &State{
		store:   store,
		address: address,
		limit:   DefaultActivityLimit,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) Refresh(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	now := s.now()
	var snap Snapshot
	snap.RefreshedAt = now

	active, err := s.store.CountActivePools(ctx, now)
	if err != nil {
		return err
	}
	snap.Stats.ActivePools = active

	if s.address != "" {
		sums, err := s.store.SumDonationsByDonor(ctx, s.address)
		if err != nil {
			return err
		}
		for _, row := range sums {
			snap.Stats.Totals = append(snap.Stats.Totals, Total{Asset: row.Asset, Amount: row.Total})
		}
		if snap.Stats.Donations, err = s.store.CountDonationsByDonor(ctx, s.address); err != nil {
			return err
		}
		if snap.Stats.PoolsSupported, err = s.store.CountPoolsSupported(ctx, s.address); err != nil {
			return err
		}
	}

	rows, err := s.store.ListRecentActivities(ctx, s.limit)
	if err != nil {
		return err
	}
	for _, row := range rows {
		a, err := FromRow(row)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "skipping activity",
				slog.String("id", row.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		snap.Activities = append(snap.Activities, a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.snap = snap
	return nil
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.snap = Snapshot{}
}
