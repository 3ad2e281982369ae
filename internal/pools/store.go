package pools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go/jetstream"
)

var ErrStaleDraft = errors.New("pools: draft was changed by another request")

// DraftStore keeps one wizard per browser session in a KV bucket. Every
// write names the revision it was based on, so two requests racing on the
// same wizard cannot both win.
type DraftStore struct {
	kv jetstream.KeyValue
}

func NewDraftStore(kv jetstream.KeyValue) *DraftStore {
	return &DraftStore{kv: kv}
}

// Load returns the stored wizard and its revision. A session without a
// wizard gets a fresh one at revision 0.
func (s *DraftStore) Load(ctx context.Context, sid string) (*Wizard, uint64, error) {
	entry, err := s.kv.Get(ctx, sid)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return NewWizard(), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	w := &Wizard{}
	if err := json.Unmarshal(entry.Value(), w); err != nil {
		return nil, 0, err
	}
	if w.Errors == nil {
		w.Errors = Errors{}
	}
	return w, entry.Revision(), nil
}

// Save writes w on top of revision rev and returns the new revision.
func (s *DraftStore) Save(ctx context.Context, sid string, w *Wizard, rev uint64) (uint64, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return 0, err
	}

	var next uint64
	if rev == 0 {
		next, err = s.kv.Create(ctx, sid, data)
	} else {
		next, err = s.kv.Update(ctx, sid, data, rev)
	}
	if isWrongRevision(err) {
		return 0, ErrStaleDraft
	}
	return next, err
}

func (s *DraftStore) Delete(ctx context.Context, sid string) error {
	err := s.kv.Delete(ctx, sid)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}

func isWrongRevision(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}
