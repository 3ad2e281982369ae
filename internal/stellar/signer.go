package stellar

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

var (
	ErrSignDeclined    = errors.New("stellar: signature declined")
	ErrSignerMismatch  = errors.New("stellar: signer does not control the source account")
	ErrEnvelopeChanged = errors.New("stellar: signed envelope differs from the request")
)

type SignOptions struct {
	NetworkPassphrase string
	// Address is the account expected to sign.
	Address string
}

// Signer produces a signed envelope from an unsigned one. The wallet
// extension in the browser is the usual implementation.
type Signer interface {
	SignTransaction(ctx context.Context, unsignedXDR string, opts SignOptions) (string, error)
}

// KeypairSigner signs with a secret key held by the process. It is meant for
// local development against testnet.
type KeypairSigner struct {
	kp *keypair.Full
}

func NewKeypairSigner(secret string) (*KeypairSigner, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return nil, fmt.Errorf("stellar: parse signer secret: %w", err)
	}
	return &KeypairSigner{kp: kp}, nil
}

func (s *KeypairSigner) Address() string {
	return s.kp.Address()
}

func (s *KeypairSigner) SignTransaction(ctx context.Context, unsignedXDR string, opts SignOptions) (string, error) {
	if opts.Address != "" && opts.Address != s.kp.Address() {
		return "", ErrSignerMismatch
	}

	gtx, err := txnbuild.TransactionFromXDR(unsignedXDR)
	if err != nil {
		return "", err
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return "", errors.New("stellar: fee bump transactions are not signed here")
	}
	tx, err = tx.Sign(opts.NetworkPassphrase, s.kp)
	if err != nil {
		return "", err
	}
	return tx.Base64()
}
