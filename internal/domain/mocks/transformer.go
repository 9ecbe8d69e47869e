package mocks

import (
	"io"

	"github.com/ImageGallery/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Transform(reader io.Reader) ([]domain.Image, error) {
	args := m.Called(reader)

	// Handle nil images
	var images []domain.Image
	if args.Get(0) != nil {
		images = args.Get(0).([]domain.Image)
	}

	return images, args.Error(1)
}
