package pools

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/xdr"
)

type Registration struct {
	PoolID uint64
	TxHash string
	Ledger uint32
}

// Registrar turns a completed draft into a pool.
type Registrar interface {
	Register(ctx context.Context, creator string, d Draft) (Registration, error)
}

type Invoker interface {
	Invoke(ctx context.Context, signer stellar.Signer, inv stellar.Invocation) stellar.Outcome
}

type PoolWriter interface {
	InsertPool(ctx context.Context, arg gensql.InsertPoolParams) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, a dashboard.Activity) error
}

// registrationError is a user-facing failure that is not a stellar.Failure.
type registrationError struct {
	msg string
}

func (e *registrationError) Error() string       { return "pools: " + e.msg }
func (e *registrationError) UserMessage() string { return e.msg }

var ErrMissingPoolID = errors.New("pools: contract returned no pool id")

// ContractRegistrar registers pools with the pool contract's save_pool
// function, then mirrors the pool into Postgres and the activity feed.
type ContractRegistrar struct {
	Invoker  Invoker
	Signer   stellar.Signer
	Scale    int32
	Pools    PoolWriter
	Activity ActivityRecorder
	Logger   *slog.Logger
	Now      func() time.Time
}

func (r *ContractRegistrar) Register(ctx context.Context, creator string, d Draft) (Registration, error) {
	args, err := savePoolArgs(creator, d, r.Scale)
	if err != nil {
		return Registration{}, err
	}

	out := r.Invoker.Invoke(ctx, r.Signer, stellar.Invocation{
		Source:   creator,
		Function: "save_pool",
		Args:     args,
	})

	var success stellar.Success
	switch o := out.(type) {
	case *stellar.Failure:
		return Registration{}, o
	case stellar.Success:
		success = o
	}

	if success.ReturnValue == nil {
		r.Logger.LogAttrs(ctx, slog.LevelError, "save_pool returned no value", slog.String("hash", success.Hash))
		return Registration{}, ErrMissingPoolID
	}
	id, err := stellar.DecodeU64(*success.ReturnValue)
	if err != nil {
		r.Logger.LogAttrs(ctx, slog.LevelError, "failed to decode pool id",
			slog.String("hash", success.Hash),
			slog.String("error", err.Error()),
		)
		return Registration{}, ErrMissingPoolID
	}

	reg := Registration{PoolID: id, TxHash: success.Hash, Ledger: success.Ledger}
	r.persist(context.WithoutCancel(ctx), creator, d, reg)
	return reg, nil
}

// persist failures are logged only: the pool already exists on-chain.
func (r *ContractRegistrar) persist(ctx context.Context, creator string, d Draft, reg Registration) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	deadline, _ := Deadline(d.EndDate)
	goal, _ := decimal.NewFromString(d.FundingGoal)
	params := gensql.InsertPoolParams{
		ID:          int64(reg.PoolID),
		Name:        d.Name,
		Category:    string(d.Category),
		Description: d.Description,
		Deadline:    deadline,
		FundingGoal: goal,
		Beneficiary: d.BeneficiaryWallet,
		IsPrivate:   d.Visibility == VisibilityPrivate,
		Creator:     creator,
		TxHash:      reg.TxHash,
		CreatedAt:   now(),
	}
	if d.MinContribution != "" {
		if min, err := decimal.NewFromString(d.MinContribution); err == nil {
			params.MinContribution = &min
		}
	}
	if d.ExternalURL != "" {
		params.ExternalUrl = &d.ExternalURL
	}
	if d.ImageHash != "" {
		params.ImageHash = &d.ImageHash
	}

	if err := r.Pools.InsertPool(ctx, params); err != nil {
		r.Logger.LogAttrs(ctx, slog.LevelError, "failed to store pool",
			slog.Uint64("poolId", reg.PoolID),
			slog.String("error", err.Error()),
		)
		return
	}

	poolID := int64(reg.PoolID)
	err := r.Activity.Record(ctx, dashboard.PoolCreatedActivity{
		ID:       uuid.New(),
		Creator:  creator,
		PoolID:   poolID,
		PoolName: d.Name,
		At:       params.CreatedAt,
	})
	if err != nil {
		r.Logger.LogAttrs(ctx, slog.LevelError, "failed to record pool activity",
			slog.Uint64("poolId", reg.PoolID),
			slog.String("error", err.Error()),
		)
	}
}

// savePoolArgs encodes save_pool(name, metadata, creator, target, deadline,
// required_signatures, signers). The last two are optional and left unset.
func savePoolArgs(creator string, d Draft, scale int32) ([]xdr.ScVal, error) {
	target, err := stellar.ContractAmount(d.FundingGoal, scale)
	if err != nil {
		return nil, &registrationError{msg: "Funding goal cannot be represented on-chain"}
	}
	end, err := Deadline(d.EndDate)
	if err != nil {
		return nil, &registrationError{msg: "End date is invalid"}
	}
	creatorVal, err := stellar.AddressVal(creator)
	if err != nil {
		return nil, &registrationError{msg: "Connected wallet address is invalid"}
	}

	metadata := stellar.StructVal(map[string]xdr.ScVal{
		"description":  stellar.StringVal(d.Description),
		"external_url": stellar.StringVal(d.ExternalURL),
		"image_hash":   stellar.StringVal(d.ImageHash),
	})

	return []xdr.ScVal{
		stellar.StringVal(d.Name),
		metadata,
		creatorVal,
		stellar.I128Val(target),
		stellar.U64Val(uint64(end.Unix())),
		stellar.VoidVal(),
		stellar.VoidVal(),
	}, nil
}
