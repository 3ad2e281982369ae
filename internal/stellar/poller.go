package stellar

import (
	"context"
	"log/slog"
	"time"
)

type PollState int

const (
	PollPending PollState = iota
	PollSucceeded
	PollFailed
	PollTimedOut
	PollCancelled
)

func (s PollState) Terminal() bool {
	return s != PollPending
}

func (s PollState) String() string {
	switch s {
	case PollPending:
		return "pending"
	case PollSucceeded:
		return "succeeded"
	case PollFailed:
		return "failed"
	case PollTimedOut:
		return "timed out"
	case PollCancelled:
		return "cancelled"
	}
	return "unknown"
}

// advance is the poller's transition function: the state after the
// attempt-th lookup (1-based) returned status.
func advance(attempt, maxAttempts int, status string) PollState {
	switch status {
	case TxSuccess:
		return PollSucceeded
	case TxFailed:
		return PollFailed
	}
	if attempt >= maxAttempts {
		return PollTimedOut
	}
	return PollPending
}

type StatusFetcher interface {
	GetTransaction(ctx context.Context, hash string) (TransactionStatus, error)
}

type PollResult struct {
	State    PollState
	Attempts int
	Status   TransactionStatus
}

// Poller waits for a submitted contract call to reach a terminal status. Each
// attempt waits Interval first, then asks the RPC server once.
type Poller struct {
	Fetcher     StatusFetcher
	Interval    time.Duration
	MaxAttempts int
	Logger      *slog.Logger

	// After defaults to time.After; tests swap it for an instant clock.
	After func(time.Duration) <-chan time.Time
}

func (p *Poller) Poll(ctx context.Context, hash string) PollResult {
	after := p.After
	if after == nil {
		after = time.After
	}

	res := PollResult{State: PollPending}
	for !res.State.Terminal() {
		select {
		case <-ctx.Done():
			res.State = PollCancelled
			return res
		case <-after(p.Interval):
		}

		res.Attempts++
		status, err := p.Fetcher.GetTransaction(ctx, hash)
		if err != nil {
			if ctx.Err() != nil {
				res.State = PollCancelled
				return res
			}
			// A lookup that errors counts against the budget like NOT_FOUND.
			p.log(ctx, hash, res.Attempts, err)
			status = TransactionStatus{Status: TxNotFound}
		}
		res.Status = status
		res.State = advance(res.Attempts, p.MaxAttempts, status.Status)
	}
	return res
}

func (p *Poller) log(ctx context.Context, hash string, attempt int, err error) {
	if p.Logger == nil {
		return
	}
	p.Logger.LogAttrs(
		ctx,
		slog.LevelWarn,
		"transaction status lookup failed",
		slog.String("hash", hash),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}
