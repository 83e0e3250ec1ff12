package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore(ttl time.Duration) (*SessionStore, *clock) {
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	st := NewSessionStore(ttl, nil)
	st.now = c.now
	return st, c
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	st, _ := newClockedStore(time.Hour)
	s := st.Create(sampleRecord(), types.FormatModern)

	got, err := st.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, types.FormatModern, got.Format())
	assert.Equal(t, "Jane Doe", got.review.Record().FullName)
	assert.Len(t, got.review.ChangeLog(), 1)

	_, err = st.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_SlidingExpiry(t *testing.T) {
	st, c := newClockedStore(time.Hour)
	s := st.Create(sampleRecord(), types.FormatClassic)

	c.advance(50 * time.Minute)
	_, err := st.Get(s.ID())
	require.NoError(t, err)

	// the previous Get pushed expiry out by another hour
	c.advance(50 * time.Minute)
	_, err = st.Get(s.ID())
	require.NoError(t, err)

	c.advance(61 * time.Minute)
	_, err = st.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	st, c := newClockedStore(time.Hour)
	old := st.Create(sampleRecord(), types.FormatClassic)
	c.advance(40 * time.Minute)
	fresh := st.Create(sampleRecord(), types.FormatClassic)

	c.advance(30 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1, st.Len())

	_, err := st.Get(old.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestSessionStore_DeleteResetsReview(t *testing.T) {
	st, _ := newClockedStore(time.Hour)
	s := st.Create(sampleRecord(), types.FormatClassic)

	assert.True(t, st.Delete(s.ID()))
	assert.False(t, st.Delete(s.ID()))
	assert.Nil(t, s.review.Record())
	assert.Empty(t, s.review.ChangeLog())
}

func TestSession_BusyFlag(t *testing.T) {
	st, _ := newClockedStore(time.Hour)
	s := st.Create(sampleRecord(), types.FormatClassic)

	require.NoError(t, s.begin())
	assert.ErrorIs(t, s.begin(), ErrSessionBusy)
	s.end()
	assert.NoError(t, s.begin())
}
