// Package gallery holds the paginated image gallery state and the controller
// that drives it from page changes to upstream fetches.
package gallery

import (
	"github.com/ImageGallery/internal/domain"
)

// LoadState is derived from the Loading flag and the error message.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Error
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// State is everything one gallery view needs to render.
type State struct {
	Page     int
	Images   []domain.Image
	Loading  bool
	Err      string
	Selected string
}

// NewState returns the state before the first fetch.
func NewState() State {
	return State{Page: 1, Images: []domain.Image{}}
}

func (s State) LoadState() LoadState {
	switch {
	case s.Loading:
		return Loading
	case s.Err != "":
		return Error
	default:
		return Idle
	}
}

// CanPrev reports whether the Prev control is enabled.
func (s State) CanPrev() bool {
	return s.Page > 1 && !s.Loading
}

// CanNext reports whether the Next control is enabled.
func (s State) CanNext() bool {
	return !s.Loading
}

// PreviewOpen reports whether the full-screen preview is showing.
func (s State) PreviewOpen() bool {
	return s.Selected != ""
}

// Event is a state transition input.
type Event interface {
	apply(State) State
}

// PageRequested moves to a new page and enters the loading state.
type PageRequested struct {
	Page int
}

func (e PageRequested) apply(s State) State {
	s.Page = e.Page
	s.Loading = true
	s.Err = ""
	return s
}

// FetchSucceeded replaces the result list wholesale.
type FetchSucceeded struct {
	Images []domain.Image
}

func (e FetchSucceeded) apply(s State) State {
	images := make([]domain.Image, len(e.Images))
	copy(images, e.Images)
	s.Images = images
	s.Loading = false
	s.Err = ""
	return s
}

// FetchFailed keeps the previous list and shows the generic message.
type FetchFailed struct{}

func (e FetchFailed) apply(s State) State {
	s.Loading = false
	s.Err = domain.FetchFailedMessage
	return s
}

// ImageSelected opens the preview for one download URL.
type ImageSelected struct {
	URL string
}

func (e ImageSelected) apply(s State) State {
	s.Selected = e.URL
	return s
}

// SelectionCleared closes the preview.
type SelectionCleared struct{}

func (e SelectionCleared) apply(s State) State {
	s.Selected = ""
	return s
}

// Reduce applies e to s and returns the next state. s is not modified.
func Reduce(s State, e Event) State {
	return e.apply(s)
}

// clone returns a copy that shares no slice memory with s.
func (s State) clone() State {
	images := make([]domain.Image, len(s.Images))
	copy(images, s.Images)
	s.Images = images
	return s
}
