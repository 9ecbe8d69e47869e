package domain

import (
	"context"
	"errors"
)

// FetchFailedMessage is the single user-visible message for any failed page load.
const FetchFailedMessage = "Failed to load data"

var (
	// ErrUpstreamStatus is returned when the listing endpoint answers with a non-2xx status.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	// ErrDecode is returned when the listing body cannot be parsed.
	ErrDecode = errors.New("failed to decode upstream response")
)

// Image is one record of the upstream photo listing.
// Fields other than these three are ignored.
type Image struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	DownloadURL string `json:"download_url"`
}

// ImageLister fetches one page of image records.
// Pages are 1-based; limit is the page size.
type ImageLister interface {
	ListPage(ctx context.Context, page, limit int) ([]Image, error)
	GetName() string
}
