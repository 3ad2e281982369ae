package wallet

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
)

// BalancePlaces is the precision balances are displayed with.
const BalancePlaces = 4

var ErrBalanceUnavailable = errors.New("wallet: balances unavailable")

type Balance struct {
	Code   string
	Amount string
}

type AccountFetcher interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
}

type Balances struct {
	Horizon AccountFetcher
	// Issued is the one non-native asset shown next to XLM.
	Issued stellar.Asset
	Logger *slog.Logger
}

// Fetch lists the native balance and the issued asset's balance, when the
// account holds a trustline for it. An account Horizon does not know yet
// simply has nothing.
func (b *Balances) Fetch(ctx context.Context, address string) ([]Balance, error) {
	acc, err := b.Horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if horizonclient.IsNotFoundError(err) {
		return []Balance{{Code: stellar.NativeCode, Amount: format(decimal.Zero)}}, nil
	}
	if err != nil {
		b.Logger.LogAttrs(ctx, slog.LevelError, "failed to load balances",
			slog.String("address", address),
			slog.String("error", err.Error()),
		)
		return nil, ErrBalanceUnavailable
	}

	var out []Balance
	for _, bal := range acc.Balances {
		code := ""
		switch {
		case bal.Type == "native":
			code = stellar.NativeCode
		case b.Issued.Code != "" && bal.Code == b.Issued.Code && bal.Issuer == b.Issued.Issuer:
			code = bal.Code
		default:
			continue
		}

		amt, err := decimal.NewFromString(bal.Balance)
		if err != nil {
			b.Logger.LogAttrs(ctx, slog.LevelWarn, "unparseable balance",
				slog.String("address", address),
				slog.String("code", code),
				slog.String("balance", bal.Balance),
			)
			continue
		}
		out = append(out, Balance{Code: code, Amount: format(amt)})
	}

	// Horizon lists the native balance last; show it first.
	for i, bal := range out {
		if bal.Code == stellar.NativeCode && i > 0 {
			out[0], out[i] = out[i], out[0]
		}
	}
	return out, nil
}

func format(d decimal.Decimal) string {
	return d.StringFixed(BalancePlaces)
}
