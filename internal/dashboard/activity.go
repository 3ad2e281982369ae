package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDonation    Kind = "donation"
	KindPoolCreated Kind = "pool_created"
	KindReward      Kind = "reward"
)

var ErrUnknownKind = errors.New("dashboard: unknown activity kind")

// Activity is one of DonationActivity, PoolCreatedActivity or RewardActivity.
type Activity interface {
	Kind() Kind
	When() time.Time
	row() gensql.InsertActivityParams
}

// DonationActivity with an empty Donor is a private donation.
type DonationActivity struct {
	ID       uuid.UUID
	Donor    string
	Amount   decimal.Decimal
	Asset    string
	PoolID   int64
	PoolName string
	At       time.Time
}

type PoolCreatedActivity struct {
	ID       uuid.UUID
	Creator  string
	PoolID   int64
	PoolName string
	At       time.Time
}

type RewardActivity struct {
	ID     uuid.UUID
	User   string
	Amount decimal.Decimal
	Asset  string
	At     time.Time
}

func (DonationActivity) Kind() Kind    { return KindDonation }
func (PoolCreatedActivity) Kind() Kind { return KindPoolCreated }
func (RewardActivity) Kind() Kind      { return KindReward }

func (a DonationActivity) When() time.Time    { return a.At }
func (a PoolCreatedActivity) When() time.Time { return a.At }
func (a RewardActivity) When() time.Time      { return a.At }

func (a DonationActivity) row() gensql.InsertActivityParams {
	// Direct payments have no pool.
	var pool *int64
	if a.PoolID != 0 {
		pool = &a.PoolID
	}
	return gensql.InsertActivityParams{
		ID:        a.ID,
		Kind:      string(KindDonation),
		Actor:     a.Donor,
		PoolID:    pool,
		PoolName:  &a.PoolName,
		Amount:    &a.Amount,
		Asset:     &a.Asset,
		CreatedAt: a.At,
	}
}

func (a PoolCreatedActivity) row() gensql.InsertActivityParams {
	return gensql.InsertActivityParams{
		ID:        a.ID,
		Kind:      string(KindPoolCreated),
		Actor:     a.Creator,
		PoolID:    &a.PoolID,
		PoolName:  &a.PoolName,
		CreatedAt: a.At,
	}
}

func (a RewardActivity) row() gensql.InsertActivityParams {
	return gensql.InsertActivityParams{
		ID:        a.ID,
		Kind:      string(KindReward),
		Actor:     a.User,
		Amount:    &a.Amount,
		Asset:     &a.Asset,
		CreatedAt: a.At,
	}
}

// Describe renders the feed line for an activity.
func Describe(a Activity) string {
	switch a := a.(type) {
	case DonationActivity:
		return fmt.Sprintf("%s donated %s to %s", actorName(a.Donor), FormatAmount(a.Amount, a.Asset), a.PoolName)
	case PoolCreatedActivity:
		return fmt.Sprintf("%s created a new pool: %s", actorName(a.Creator), a.PoolName)
	case RewardActivity:
		return fmt.Sprintf("%s earned a reward of %s", actorName(a.User), FormatAmount(a.Amount, a.Asset))
	default:
		panic(fmt.Sprintf("dashboard: unhandled activity %T", a))
	}
}

// FromRow rebuilds an activity from its stored row.
func FromRow(r gensql.Activity) (Activity, error) {
	switch Kind(r.Kind) {
	case KindDonation:
		return DonationActivity{
			ID:       r.ID,
			Donor:    r.Actor,
			Amount:   deref(r.Amount),
			Asset:    deref(r.Asset),
			PoolID:   deref(r.PoolID),
			PoolName: deref(r.PoolName),
			At:       r.CreatedAt,
		}, nil
	case KindPoolCreated:
		return PoolCreatedActivity{
			ID:       r.ID,
			Creator:  r.Actor,
			PoolID:   deref(r.PoolID),
			PoolName: deref(r.PoolName),
			At:       r.CreatedAt,
		}, nil
	case KindReward:
		return RewardActivity{
			ID:     r.ID,
			User:   r.Actor,
			Amount: deref(r.Amount),
			Asset:  deref(r.Asset),
			At:     r.CreatedAt,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// ShortAddress abbreviates a strkey to its first and last four characters.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

func FormatAmount(d decimal.Decimal, asset string) string {
	return d.String() + " " + asset
}

func actorName(addr string) string {
	if addr == "" {
		return "Anonymous"
	}
	return ShortAddress(addr)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
