package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSessionDoDrainsNotifications(t *testing.T) {
	store := NewSessionStore[*ServiceForm](time.Hour)
	rec := NewRecorder()
	sess := store.Create(NewServiceForm(nil, &CounterProvider{}, rec), rec)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)

	notes, err := got.Do(func(f *ServiceForm) error { return f.RemoveSubservice(0) })
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, notes, 1)
	assert.Equal(t, "Cannot remove", notes[0].Title)

	notes, err = got.Do(func(f *ServiceForm) error {
		f.AddSubservice()
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSessionStoreGetDelete(t *testing.T) {
	store := NewSessionStore[int](0)
	sess := store.Create(7, nil)
	assert.Equal(t, 1, store.Len())

	_, err := store.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	assert.True(t, store.Delete(sess.ID))
	assert.False(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreSweep(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore[string](30 * time.Minute)
	store.now = c.now

	stale := store.Create("stale", nil)
	fresh := store.Create("fresh", nil)

	c.t = c.t.Add(20 * time.Minute)
	_, err := store.Get(fresh.ID)
	require.NoError(t, err)

	c.t = c.t.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionStoreZeroTTLKeepsSessions(t *testing.T) {
	c := &clock{t: time.Now()}
	store := NewSessionStore[string](0)
	store.now = c.now
	store.Create("x", nil)

	c.t = c.t.Add(24 * time.Hour)
	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSweeperFunc(t *testing.T) {
	var s Sweeper = SweeperFunc(func() int { return 3 })
	assert.Equal(t, 3, s.Sweep())
}

func TestStartSessionSweeper(t *testing.T) {
	_, err := StartSessionSweeper("every now and then", zap.NewNop(), nil)
	assert.Error(t, err)

	c, err := StartSessionSweeper("@every 1h", zap.NewNop(), map[string]Sweeper{
		"noop": SweeperFunc(func() int { return 0 }),
	})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
