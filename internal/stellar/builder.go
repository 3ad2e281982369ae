package stellar

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

var ErrSimulationEmpty = errors.New("stellar: simulation returned no result")

// sourceAccount is the donor's account as loaded before building. Every
// build starts from a fresh copy since txnbuild bumps the sequence in place.
type sourceAccount struct {
	Address  string
	Sequence int64
}

func (a sourceAccount) txnbuild() *txnbuild.SimpleAccount {
	return &txnbuild.SimpleAccount{AccountID: a.Address, Sequence: a.Sequence}
}

func buildPayment(src sourceAccount, destination string, asset Asset, amount string, baseFee int64, timeout time.Duration) (*txnbuild.Transaction, error) {
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        src.txnbuild(),
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: destination,
			Amount:      amount,
			Asset:       asset.classic(),
		}},
		BaseFee:       baseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(int64(timeout.Seconds()))},
	})
}

// Invocation is a single contract function call.
type Invocation struct {
	Source   string
	Contract string
	Function string
	Args     []xdr.ScVal
	Timeout  time.Duration
}

func invokeOp(inv Invocation) (*txnbuild.InvokeHostFunction, error) {
	contract, err := ScAddress(inv.Contract)
	if err != nil {
		return nil, err
	}
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contract,
				FunctionName:    xdr.ScSymbol(inv.Function),
				Args:            inv.Args,
			},
		},
		SourceAccount: inv.Source,
	}, nil
}

func buildInvocation(src sourceAccount, inv Invocation, baseFee int64) (*txnbuild.Transaction, error) {
	op, err := invokeOp(inv)
	if err != nil {
		return nil, err
	}
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        src.txnbuild(),
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(int64(inv.Timeout.Seconds()))},
	})
}

// assemble rebuilds the invocation with the footprint, resource fee and
// authorization entries reported by simulation.
func assemble(src sourceAccount, inv Invocation, baseFee int64, sim SimulateResult) (*txnbuild.Transaction, error) {
	if sim.TransactionData == "" || len(sim.Results) == 0 {
		return nil, ErrSimulationEmpty
	}

	var data xdr.SorobanTransactionData
	if err := xdr.SafeUnmarshalBase64(sim.TransactionData, &data); err != nil {
		return nil, fmt.Errorf("stellar: decode transaction data: %w", err)
	}

	auth := make([]xdr.SorobanAuthorizationEntry, 0, len(sim.Results[0].Auth))
	for _, a := range sim.Results[0].Auth {
		var entry xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(a, &entry); err != nil {
			return nil, fmt.Errorf("stellar: decode auth entry: %w", err)
		}
		auth = append(auth, entry)
	}

	resourceFee, err := strconv.ParseInt(sim.MinResourceFee, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stellar: decode resource fee %q: %w", sim.MinResourceFee, err)
	}

	op, err := invokeOp(inv)
	if err != nil {
		return nil, err
	}
	op.Auth = auth
	op.Ext = xdr.TransactionExt{V: 1, SorobanData: &data}

	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        src.txnbuild(),
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee + resourceFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(int64(inv.Timeout.Seconds()))},
	})
}

// checkSigned parses the wallet's answer and makes sure it is the transaction
// we asked to have signed, now carrying at least one signature.
func checkSigned(unsigned *txnbuild.Transaction, signedXDR, passphrase string) (*txnbuild.Transaction, error) {
	gtx, err := txnbuild.TransactionFromXDR(signedXDR)
	if err != nil {
		return nil, fmt.Errorf("stellar: parse signed envelope: %w", err)
	}
	signed, ok := gtx.Transaction()
	if !ok {
		return nil, ErrEnvelopeChanged
	}

	want, err := unsigned.HashHex(passphrase)
	if err != nil {
		return nil, err
	}
	got, err := signed.HashHex(passphrase)
	if err != nil {
		return nil, err
	}
	if want != got {
		return nil, ErrEnvelopeChanged
	}
	if len(signed.Signatures()) == 0 {
		return nil, ErrSignDeclined
	}
	return signed, nil
}
