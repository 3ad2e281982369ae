package stellar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// Horizon is the part of horizonclient.ClientInterface used here.
type Horizon interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	FetchBaseFee() (int64, error)
	SubmitTransactionXDR(transactionXdr string) (horizon.Transaction, error)
}

// DonationRequest describes one donation. A nil PoolID selects the classic
// payment path to Destination; otherwise the pool contract's contribute
// function is called.
type DonationRequest struct {
	Donor       string
	Destination string
	PoolID      *uint64
	Asset       string
	Amount      string
	Private     bool
}

type Service struct {
	cfg     Config
	horizon Horizon
	rpc     RPC
	assets  Registry
	poller  *Poller
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(cfg Config, h Horizon, rpc RPC, assets Registry, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		horizon: h,
		rpc:     rpc,
		assets:  assets,
		poller: &Poller{
			Fetcher:     rpc,
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
			Logger:      logger,
		},
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) Assets() Registry {
	return s.assets
}

// Donate runs a donation end to end and always returns an Outcome; no error
// from Horizon, the RPC server or the wallet escapes as-is.
func (s *Service) Donate(ctx context.Context, signer Signer, req DonationRequest) Outcome {
	if !ValidAccountAddress(req.Donor) {
		return &Failure{Kind: KindWallet, Message: "Connect a wallet before donating"}
	}
	asset, err := s.assets.Lookup(req.Asset)
	if err != nil {
		return &Failure{Kind: KindValidation, Message: "Unsupported asset " + req.Asset}
	}

	release, ok := s.acquire(req.Donor)
	if !ok {
		return &Failure{Kind: KindBusy, Message: "A transaction from this wallet is already in progress"}
	}
	defer release()

	if req.PoolID == nil {
		return s.pay(ctx, signer, req, asset)
	}

	amount, err := ContractAmount(req.Amount, s.cfg.ContractScale)
	if err != nil {
		return amountFailure(err)
	}
	if asset.Contract == "" {
		return &Failure{Kind: KindValidation, Message: asset.Code + " cannot be donated to this pool"}
	}
	donor, err := AddressVal(req.Donor)
	if err != nil {
		return &Failure{Kind: KindValidation, Message: "Invalid donor address"}
	}
	assetAddr, err := AddressVal(asset.Contract)
	if err != nil {
		return &Failure{Kind: KindValidation, Message: "Invalid asset contract"}
	}

	return s.invoke(ctx, signer, Invocation{
		Source:   req.Donor,
		Contract: s.cfg.ContractID,
		Function: "contribute",
		Args: []xdr.ScVal{
			U64Val(*req.PoolID),
			donor,
			assetAddr,
			I128Val(amount),
			BoolVal(req.Private),
		},
		Timeout: s.cfg.ContributeTimeout,
	})
}

// Invoke calls a pool contract function signed by inv.Source. Contract and
// Timeout default to the configured contract and the registration window.
func (s *Service) Invoke(ctx context.Context, signer Signer, inv Invocation) Outcome {
	if !ValidAccountAddress(inv.Source) {
		return &Failure{Kind: KindWallet, Message: "Connect a wallet first"}
	}
	if inv.Contract == "" {
		inv.Contract = s.cfg.ContractID
	}
	if inv.Timeout == 0 {
		inv.Timeout = s.cfg.RegisterTimeout
	}

	release, ok := s.acquire(inv.Source)
	if !ok {
		return &Failure{Kind: KindBusy, Message: "A transaction from this wallet is already in progress"}
	}
	defer release()

	return s.invoke(ctx, signer, inv)
}

func (s *Service) pay(ctx context.Context, signer Signer, req DonationRequest, asset Asset) Outcome {
	amount, err := PaymentAmount(req.Amount)
	if err != nil {
		return amountFailure(err)
	}
	if !ValidAccountAddress(req.Destination) {
		return &Failure{Kind: KindValidation, Message: "Invalid pool address"}
	}

	src, fail := s.loadAccount(ctx, req.Donor)
	if fail != nil {
		return fail
	}
	fee := s.baseFee(ctx)

	tx, err := buildPayment(src, req.Destination, asset, amount, fee, s.cfg.PaymentTimeout)
	if err != nil {
		s.logError(ctx, "failed to build payment", err)
		return &Failure{Kind: KindValidation, Message: "Could not build the payment transaction"}
	}

	signed, fail := s.sign(ctx, signer, tx, req.Donor)
	if fail != nil {
		return fail
	}
	envelope, err := signed.Base64()
	if err != nil {
		s.logError(ctx, "failed to encode signed payment", err)
		return &Failure{Kind: KindWallet, Message: "The wallet returned an unreadable transaction"}
	}

	resp, err := s.horizon.SubmitTransactionXDR(envelope)
	if err != nil {
		return s.submitFailure(ctx, signed, err)
	}
	if !resp.Successful {
		return &Failure{Kind: KindRejected, Message: "The network rejected the payment", Hash: resp.Hash}
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "payment submitted",
		slog.String("hash", resp.Hash),
		slog.String("asset", asset.Code),
		slog.Int("ledger", int(resp.Ledger)),
	)
	return Success{Hash: resp.Hash, Ledger: uint32(resp.Ledger)}
}

func (s *Service) invoke(ctx context.Context, signer Signer, inv Invocation) Outcome {
	src, fail := s.loadAccount(ctx, inv.Source)
	if fail != nil {
		return fail
	}
	fee := s.baseFee(ctx)

	tx, err := buildInvocation(src, inv, fee)
	if err != nil {
		s.logError(ctx, "failed to build contract call", err)
		return &Failure{Kind: KindValidation, Message: "Could not build the contract call"}
	}
	envelope, err := tx.Base64()
	if err != nil {
		s.logError(ctx, "failed to encode contract call", err)
		return &Failure{Kind: KindValidation, Message: "Could not build the contract call"}
	}

	sim, err := s.rpc.SimulateTransaction(ctx, envelope)
	if err != nil {
		s.logError(ctx, "simulation request failed", err)
		return &Failure{Kind: KindNetwork, Message: "Could not reach the Soroban RPC server"}
	}
	if sim.Error != "" {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "simulation reported an error",
			slog.String("function", inv.Function),
			slog.String("error", sim.Error),
		)
		return &Failure{Kind: KindSimulation, Message: "Simulation failed: " + simulationMessage(sim.Error)}
	}

	tx, err = assemble(src, inv, fee, sim)
	if err != nil {
		s.logError(ctx, "failed to assemble contract call", err)
		return &Failure{Kind: KindSimulation, Message: "Simulation returned no usable result"}
	}

	signed, fail := s.sign(ctx, signer, tx, inv.Source)
	if fail != nil {
		return fail
	}
	envelope, err = signed.Base64()
	if err != nil {
		s.logError(ctx, "failed to encode signed contract call", err)
		return &Failure{Kind: KindWallet, Message: "The wallet returned an unreadable transaction"}
	}

	// A signed transaction is sent and followed to the end even when the
	// caller stops listening; MaxAttempts bounds the wait.
	ctx = context.WithoutCancel(ctx)
	sent, err := s.rpc.SendTransaction(ctx, envelope)
	if err != nil {
		s.logError(ctx, "send transaction failed", err)
		return &Failure{Kind: KindNetwork, Message: "Could not submit the transaction"}
	}
	switch sent.Status {
	case SendPending, SendDuplicate:
	case SendTryAgainLater:
		return &Failure{Kind: KindRejected, Message: "The network is busy, please try again shortly", Hash: sent.Hash}
	default:
		code := resultCode(sent.ErrorResultXDR)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "transaction rejected",
			slog.String("hash", sent.Hash),
			slog.String("status", sent.Status),
			slog.String("result", code),
		)
		return &Failure{Kind: KindRejected, Message: "Transaction failed: " + code, Hash: sent.Hash}
	}

	res := s.poller.Poll(ctx, sent.Hash)
	switch res.State {
	case PollSucceeded:
		out := Success{Hash: sent.Hash, Ledger: res.Status.Ledger}
		if rv, err := returnValue(res.Status.ResultMetaXDR); err != nil {
			s.logError(ctx, "failed to decode return value", err)
		} else {
			out.ReturnValue = rv
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "contract call confirmed",
			slog.String("hash", sent.Hash),
			slog.String("function", inv.Function),
			slog.Int("attempts", res.Attempts),
		)
		return out
	case PollFailed:
		code := resultCode(res.Status.ResultXDR)
		return &Failure{Kind: KindRejected, Message: "Transaction failed: " + code, Hash: sent.Hash}
	case PollCancelled:
		return &Failure{Kind: KindCancelled, Message: "Stopped waiting for the transaction", Hash: sent.Hash}
	default:
		return &Failure{
			Kind:    KindTimeout,
			Message: "Transaction timeout - transaction may still be processing. Check " + s.cfg.ExplorerURL(sent.Hash),
			Hash:    sent.Hash,
		}
	}
}

func (s *Service) loadAccount(ctx context.Context, address string) (sourceAccount, *Failure) {
	acct, err := s.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return sourceAccount{}, &Failure{Kind: KindAccount, Message: "Account not found. Fund it with XLM before donating"}
		}
		s.logError(ctx, "failed to load account", err)
		return sourceAccount{}, &Failure{Kind: KindNetwork, Message: "Could not load your account from the network"}
	}
	seq, err := acct.GetSequenceNumber()
	if err != nil {
		s.logError(ctx, "failed to read account sequence", err)
		return sourceAccount{}, &Failure{Kind: KindNetwork, Message: "Could not load your account from the network"}
	}
	return sourceAccount{Address: address, Sequence: seq}, nil
}

func (s *Service) baseFee(ctx context.Context) int64 {
	fee, err := s.horizon.FetchBaseFee()
	if err != nil || fee < txnbuild.MinBaseFee {
		if err != nil {
			s.logError(ctx, "failed to fetch base fee", err)
		}
		return txnbuild.MinBaseFee
	}
	return fee
}

func (s *Service) sign(ctx context.Context, signer Signer, tx *txnbuild.Transaction, address string) (*txnbuild.Transaction, *Failure) {
	if signer == nil {
		return nil, &Failure{Kind: KindWallet, Message: "No wallet is available to sign"}
	}
	unsigned, err := tx.Base64()
	if err != nil {
		s.logError(ctx, "failed to encode unsigned transaction", err)
		return nil, &Failure{Kind: KindValidation, Message: "Could not build the transaction"}
	}

	signedXDR, err := signer.SignTransaction(ctx, unsigned, SignOptions{
		NetworkPassphrase: s.cfg.NetworkPassphrase,
		Address:           address,
	})
	if err != nil {
		s.logError(ctx, "wallet did not sign", err)
		if errors.Is(err, context.Canceled) {
			return nil, &Failure{Kind: KindCancelled, Message: "Signing was cancelled"}
		}
		if errors.Is(err, ErrSignDeclined) {
			return nil, &Failure{Kind: KindWallet, Message: "Signature request was declined"}
		}
		return nil, &Failure{Kind: KindWallet, Message: "The wallet could not sign the transaction"}
	}

	signed, err := checkSigned(tx, signedXDR, s.cfg.NetworkPassphrase)
	if err != nil {
		s.logError(ctx, "wallet returned an unexpected envelope", err)
		return nil, &Failure{Kind: KindWallet, Message: "The wallet returned a different transaction"}
	}
	return signed, nil
}

func (s *Service) submitFailure(ctx context.Context, tx *txnbuild.Transaction, err error) *Failure {
	hash, _ := tx.HashHex(s.cfg.NetworkPassphrase)

	herr := horizonclient.GetError(err)
	if herr == nil {
		s.logError(ctx, "payment submission failed", err)
		return &Failure{Kind: KindNetwork, Message: "Could not submit the payment", Hash: hash}
	}

	// Horizon gives up waiting for ingestion with a 504; the payment may
	// still be applied.
	if herr.Problem.Status == 504 {
		return &Failure{
			Kind:    KindTimeout,
			Message: "Transaction timeout - transaction may still be processing. Check " + s.cfg.ExplorerURL(hash),
			Hash:    hash,
		}
	}

	msg := herr.Problem.Title
	if codes, cerr := herr.ResultCodes(); cerr == nil && codes != nil {
		parts := append([]string{codes.TransactionCode}, codes.OperationCodes...)
		msg = strings.Join(parts, ", ")
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "payment rejected",
		slog.String("hash", hash),
		slog.String("title", herr.Problem.Title),
		slog.String("detail", herr.Problem.Detail),
	)
	return &Failure{Kind: KindRejected, Message: "Transaction failed: " + msg, Hash: hash}
}

func (s *Service) acquire(address string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[address]; busy {
		return nil, false
	}
	s.inflight[address] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, address)
		s.mu.Unlock()
	}, true
}

func (s *Service) logError(ctx context.Context, msg string, err error) {
	s.logger.LogAttrs(ctx, slog.LevelError, msg, slog.String("error", err.Error()))
}

func amountFailure(err error) *Failure {
	switch {
	case errors.Is(err, ErrAmountPrecision):
		return &Failure{Kind: KindValidation, Message: "Amount has too many decimal places"}
	case errors.Is(err, ErrAmountRange):
		return &Failure{Kind: KindValidation, Message: "Amount is too large"}
	}
	return &Failure{Kind: KindValidation, Message: "Enter an amount greater than 0"}
}

// simulationMessage keeps the first line of a host error, which names the
// contract error (e.g. "Error(Contract, #3)").
func simulationMessage(raw string) string {
	line, _, _ := strings.Cut(raw, "\n")
	return strings.TrimSpace(line)
}

func resultCode(resultXDR string) string {
	if resultXDR == "" {
		return "unknown error"
	}
	var res xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resultXDR, &res); err != nil {
		return "unknown error"
	}
	return res.Result.Code.String()
}

func returnValue(metaXDR string) (*xdr.ScVal, error) {
	if metaXDR == "" {
		return nil, errors.New("stellar: missing result meta")
	}
	var meta xdr.TransactionMeta
	if err := xdr.SafeUnmarshalBase64(metaXDR, &meta); err != nil {
		return nil, fmt.Errorf("stellar: decode result meta: %w", err)
	}
	v3, ok := meta.GetV3()
	if !ok || v3.SorobanMeta == nil {
		return nil, errors.New("stellar: result meta carries no soroban data")
	}
	rv := v3.SorobanMeta.ReturnValue
	return &rv, nil
}
