package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dchest/uniuri"
	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/internal/stellar"
)

const DefaultSignTimeout = 2 * time.Minute

var (
	ErrUnknownSignRequest = errors.New("wallet: no pending sign request")
	ErrSignTimeout        = errors.New("wallet: timed out waiting for signature")
)

// SignRequest is what the browser needs to ask its wallet for a signature.
type SignRequest struct {
	ID                string `json:"id"`
	XDR               string `json:"xdr"`
	NetworkPassphrase string `json:"networkPassphrase"`
	Address           string `json:"address"`
}

// SignReply is posted back by the browser. Exactly one of SignedXDR,
// Declined or Error is meaningful.
type SignReply struct {
	SignedXDR string `json:"signedXdr,omitempty"`
	Declined  bool   `json:"declined,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BridgeSigner signs through the browser wallet. The request goes out through
// Prompt, usually a script pushed down an open SSE stream, and the answer
// comes back over NATS from the handler the browser posts to.
type BridgeSigner struct {
	NC      *nats.Conn
	SID     string
	Prompt  func(SignRequest) error
	Timeout time.Duration
}

func signSubject(sid, id string) string {
	return "wallet.sign." + sid + "." + id
}

func (b *BridgeSigner) SignTransaction(ctx context.Context, unsignedXDR string, opts stellar.SignOptions) (string, error) {
	id := uniuri.NewLen(20)
	sub, err := b.NC.SubscribeSync(signSubject(b.SID, id))
	if err != nil {
		return "", err
	}
	defer sub.Unsubscribe()

	err = b.Prompt(SignRequest{
		ID:                id,
		XDR:               unsignedXDR,
		NetworkPassphrase: opts.NetworkPassphrase,
		Address:           opts.Address,
	})
	if err != nil {
		return "", err
	}

	timeout := b.Timeout
	if timeout == 0 {
		timeout = DefaultSignTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := sub.NextMsgWithContext(waitCtx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrSignTimeout
		}
		return "", err
	}
	msg.Respond([]byte("ok"))

	var reply SignReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return "", err
	}
	switch {
	case reply.Declined:
		return "", stellar.ErrSignDeclined
	case reply.Error != "":
		return "", fmt.Errorf("wallet: %s", reply.Error)
	case reply.SignedXDR == "":
		return "", errors.New("wallet: empty signature reply")
	}
	return reply.SignedXDR, nil
}

// Relay hands a browser's reply to the signer waiting on id.
func Relay(ctx context.Context, nc *nats.Conn, sid, id string, reply SignReply) error {
	if id == "" || strings.ContainsAny(id, ".*> ") {
		return ErrUnknownSignRequest
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	_, err = nc.RequestWithContext(ctx, signSubject(sid, id), data)
	if errors.Is(err, nats.ErrNoResponders) {
		return ErrUnknownSignRequest
	}
	return err
}
