package stellar

import "github.com/stellar/go/xdr"

// Outcome is the result of one submission attempt: either Success or
// *Failure. It is built once and never changed.
type Outcome interface {
	outcome()
}

type Success struct {
	Hash   string
	Ledger uint32
	// ReturnValue is set for contract calls.
	ReturnValue *xdr.ScVal
}

type FailureKind int

const (
	KindValidation FailureKind = iota + 1
	KindAccount
	KindWallet
	KindSimulation
	KindRejected
	KindNetwork
	KindTimeout
	KindBusy
	KindCancelled
)

func (k FailureKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAccount:
		return "account"
	case KindWallet:
		return "wallet"
	case KindSimulation:
		return "simulation"
	case KindRejected:
		return "rejected"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindBusy:
		return "busy"
	case KindCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Failure carries a short message meant for the user. Technical detail is
// logged where the failure is created and is not reachable from here.
type Failure struct {
	Kind    FailureKind
	Message string
	// Hash is known once the transaction was submitted, so a timed out
	// transaction can still be looked up.
	Hash string
}

func (Success) outcome()  {}
func (*Failure) outcome() {}

func (f *Failure) Error() string {
	return "stellar: " + f.Kind.String() + ": " + f.Message
}

func (f *Failure) UserMessage() string {
	return f.Message
}
