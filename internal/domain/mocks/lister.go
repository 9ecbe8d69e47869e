package mocks

import (
	"context"

	"github.com/ImageGallery/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockImageLister is a testify mock of domain.ImageLister.
type MockImageLister struct {
	mock.Mock
}

func (m *MockImageLister) ListPage(ctx context.Context, page, limit int) ([]domain.Image, error) {
	args := m.Called(ctx, page, limit)

	var images []domain.Image
	if args.Get(0) != nil {
		images = args.Get(0).([]domain.Image)
	}

	return images, args.Error(1)
}

func (m *MockImageLister) GetName() string {
	return "mock"
}
