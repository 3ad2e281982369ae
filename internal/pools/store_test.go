package pools

import (
	"context"
	"testing"

	"github.com/nevofinance/nevo/internal/natstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftStore(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(natstest.Bucket(t, natstest.Conn(t), "drafts"))

	w, rev, err := store.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Zero(t, rev)
	assert.Equal(t, NewWizard(), w)

	require.NoError(t, w.Set(FieldName, "Clean Water"))
	rev, err = store.Save(ctx, "sid1", w, rev)
	require.NoError(t, err)
	assert.NotZero(t, rev)

	got, gotRev, err := store.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, rev, gotRev)
	assert.Equal(t, "Clean Water", got.Draft.Name)

	require.NoError(t, store.Delete(ctx, "sid1"))
	w, rev, err = store.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Zero(t, rev)
	assert.Empty(t, w.Draft.Name)

	// A deleted draft can be created again.
	_, err = store.Save(ctx, "sid1", w, 0)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestDraftStoreRejectsStaleWrites(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(natstest.Bucket(t, natstest.Conn(t), "drafts"))

	first, rev, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	_, err = store.Save(ctx, "sid", first, rev)
	require.NoError(t, err)

	// Two requests loaded the same revision.
	a, revA, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	b, revB, err := store.Load(ctx, "sid")
	require.NoError(t, err)

	_, err = store.Save(ctx, "sid", a, revA)
	require.NoError(t, err)
	_, err = store.Save(ctx, "sid", b, revB)
	assert.ErrorIs(t, err, ErrStaleDraft)

	// Creating over an existing draft is stale as well.
	_, err = store.Save(ctx, "sid", NewWizard(), 0)
	assert.ErrorIs(t, err, ErrStaleDraft)
}
