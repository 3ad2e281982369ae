package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/nevofinance/nevo/internal/stellar"
)

var ErrInvalidAddress = errors.New("wallet: invalid account address")

type Connection struct {
	Address     string    `json:"address"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Sessions is the only writer of wallet connections. Keys are browser
// session ids.
type Sessions struct {
	kv  jetstream.KeyValue
	now func() time.Time
}

func NewSessions(kv jetstream.KeyValue) *Sessions {
	return &Sessions{kv: kv, now: time.Now}
}

// Get reports the wallet connected to sid, if any.
func (s *Sessions) Get(ctx context.Context, sid string) (Connection, bool, error) {
	entry, err := s.kv.Get(ctx, sid)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return Connection{}, false, nil
	}
	if err != nil {
		return Connection{}, false, err
	}

	var c Connection
	if err := json.Unmarshal(entry.Value(), &c); err != nil {
		return Connection{}, false, err
	}
	return c, true, nil
}

func (s *Sessions) Connect(ctx context.Context, sid, address string) (Connection, error) {
	if !stellar.ValidAccountAddress(address) {
		return Connection{}, ErrInvalidAddress
	}

	c := Connection{Address: address, ConnectedAt: s.now().UTC()}
	data, err := json.Marshal(c)
	if err != nil {
		return Connection{}, err
	}
	if _, err := s.kv.Put(ctx, sid, data); err != nil {
		return Connection{}, err
	}
	return c, nil
}

func (s *Sessions) Disconnect(ctx context.Context, sid string) error {
	err := s.kv.Delete(ctx, sid)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}
