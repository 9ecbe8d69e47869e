package transformer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ImageGallery/internal/domain"
)

const PicsumName = "picsum"

// PicsumImage mirrors one element of the /v2/list response.
type PicsumImage struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

type PicsumTransformer struct{}

func NewPicsumTransformer() *PicsumTransformer {
	return &PicsumTransformer{}
}

func (t *PicsumTransformer) Transform(reader io.Reader) ([]domain.Image, error) {
	var items []PicsumImage
	if err := json.NewDecoder(reader).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	images := make([]domain.Image, 0, len(items))
	for _, item := range items {
		images = append(images, t.normalize(item))
	}

	return images, nil
}

func (t *PicsumTransformer) normalize(item PicsumImage) domain.Image {
	return domain.Image{
		ID:          item.ID,
		Author:      item.Author,
		DownloadURL: item.DownloadURL,
	}
}
