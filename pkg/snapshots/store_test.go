package snapshots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// tick returns a clock that advances one minute per call.
func tick() func() time.Time {
	t := time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestStorePutGet(t *testing.T) {
	s := New(WithClock(tick()))

	snap, err := s.Put(&inventory.Snapshot{PeriodLabel: "draft", Draft: true})
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.DateCreated.IsZero())

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Same(t, snap, got)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get("missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = s.Put(nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestStoreListNewestFirst(t *testing.T) {
	s := New(WithClock(tick()))
	first, _ := s.Put(&inventory.Snapshot{PeriodLabel: "October"})
	second, _ := s.Put(&inventory.Snapshot{PeriodLabel: "November"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = New().Latest()
	assert.True(t, errors.IsNotFound(err))
}

func TestStorePromote(t *testing.T) {
	s := New(WithClock(tick()))
	draft, err := s.Put(&inventory.Snapshot{
		PeriodLabel: "Draft",
		Draft:       true,
		Assets:      []inventory.Asset{{ID: "asset-0", Hostname: "pc-01"}},
	})
	require.NoError(t, err)

	promoted, err := s.Promote(draft.ID, "November 2025")
	require.NoError(t, err)
	assert.NotEqual(t, draft.ID, promoted.ID)
	assert.Equal(t, "November 2025", promoted.PeriodLabel)
	assert.False(t, promoted.Draft)
	assert.Equal(t, 2, s.Len())

	// The draft is untouched and shares no records with the copy.
	promoted.Assets[0].Hostname = "changed"
	stored, err := s.Get(draft.ID)
	require.NoError(t, err)
	assert.True(t, stored.Draft)
	assert.Equal(t, "pc-01", stored.Assets[0].Hostname)

	_, err = s.Promote(promoted.ID, "again")
	assert.True(t, errors.IsValidationError(err))

	_, err = s.Promote(draft.ID, "  ")
	assert.True(t, errors.IsValidationError(err))

	_, err = s.Promote("missing", "label")
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreDelete(t *testing.T) {
	s := New()
	snap, _ := s.Put(&inventory.Snapshot{})

	require.NoError(t, s.Delete(snap.ID))
	assert.Zero(t, s.Len())
	assert.True(t, errors.IsNotFound(s.Delete(snap.ID)))
}
