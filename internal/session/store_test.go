package session

import (
	"context"
	"testing"
	"time"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/domain/mocks"
	"github.com/ImageGallery/internal/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *mocks.MockImageLister) {
	t.Helper()
	lister := new(mocks.MockImageLister)
	lister.On("ListPage", mock.Anything, 1, 9).Return([]domain.Image{{ID: "1"}}, nil)

	s := NewStore(func() *gallery.Controller { return gallery.NewController(lister) }, ttl)
	t.Cleanup(s.Stop)
	return s, lister
}

func TestStore_CreateStartsController(t *testing.T) {
	s, lister := newTestStore(t, time.Minute)

	id, c, err := s.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	c.Wait()

	assert.Equal(t, 1, c.Snapshot().Page)
	lister.AssertNumberOfCalls(t, "ListPage", 1)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestStore_GetOrCreate(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)

	id, c, created, err := s.GetOrCreate("")
	require.NoError(t, err)
	assert.True(t, created)

	again, c2, created, err := s.GetOrCreate(id)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
	assert.Same(t, c, c2)

	other, _, created, err := s.GetOrCreate("unknown-session")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "unknown-session", other)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Get_Unknown(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Sweep(t *testing.T) {
	s, _ := newTestStore(t, 10*time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idle, idleCtrl, err := s.Create()
	require.NoError(t, err)
	active, _, err := s.Create()
	require.NoError(t, err)

	now = now.Add(8 * time.Minute)
	_, err = s.Get(active)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, err = s.Get(idle)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(active)
	assert.NoError(t, err)
	assert.ErrorIs(t, idleCtrl.Next(), gallery.ErrClosed)
}

func TestStore_Sweep_CancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	returned := make(chan struct{})
	lister := new(mocks.MockImageLister)
	lister.On("ListPage", mock.Anything, 1, 9).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
			close(returned)
		}).
		Return(nil, context.Canceled).Once()

	s := NewStore(func() *gallery.Controller { return gallery.NewController(lister) }, time.Minute)
	t.Cleanup(s.Stop)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, c, err := s.Create()
	require.NoError(t, err)
	<-started
	assert.True(t, c.Snapshot().Loading)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	select {
	case <-returned:
	default:
		t.Fatal("fetch still running after its session was evicted")
	}
	assert.Empty(t, c.Snapshot().Err, "cancelled fetch is not reported as a failure")
	assert.Zero(t, s.Len())
	lister.AssertExpectations(t)
}

func TestStore_StartSweeper_InvalidSchedule(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	assert.Error(t, s.StartSweeper("every now and then"))
}
