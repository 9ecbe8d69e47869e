package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/domain/mocks"
	"github.com/ImageGallery/internal/gallery"
	"github.com/ImageGallery/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, lister *mocks.MockImageLister) *GalleryService {
	t.Helper()
	store := session.NewStore(func() *gallery.Controller {
		return gallery.NewController(lister)
	}, time.Minute)
	t.Cleanup(store.Stop)
	return NewGalleryService(store, lister, 9)
}

func TestGalleryService_ListPage(t *testing.T) {
	lister := new(mocks.MockImageLister)
	images := []domain.Image{{ID: "7", Author: "Alejandro Escamilla", DownloadURL: "https://picsum.photos/id/7/4728/3168"}}
	lister.On("ListPage", mock.Anything, 4, 9).Return(images, nil).Once()

	svc := newTestService(t, lister)

	got, err := svc.ListPage(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, images, got)
	lister.AssertExpectations(t)
}

func TestGalleryService_ListPage_Errors(t *testing.T) {
	lister := new(mocks.MockImageLister)
	upstreamErr := errors.New("dial tcp: i/o timeout")
	lister.On("ListPage", mock.Anything, 2, 9).Return(nil, upstreamErr).Once()

	svc := newTestService(t, lister)

	_, err := svc.ListPage(context.Background(), 0)
	assert.ErrorIs(t, err, gallery.ErrInvalidPage)

	_, err = svc.ListPage(context.Background(), 2)
	assert.ErrorIs(t, err, upstreamErr)
	lister.AssertNumberOfCalls(t, "ListPage", 1)
}

func TestGalleryService_Session(t *testing.T) {
	lister := new(mocks.MockImageLister)
	lister.On("ListPage", mock.Anything, 1, 9).Return([]domain.Image{}, nil)

	svc := newTestService(t, lister)

	id, c, created, err := svc.Session("")
	require.NoError(t, err)
	assert.True(t, created)
	c.Wait()

	same, c2, created, err := svc.Session(id)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, same)
	assert.Same(t, c, c2)
}
