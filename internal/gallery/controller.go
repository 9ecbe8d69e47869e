package gallery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 9

var (
	ErrBusy         = errors.New("a page is already loading")
	ErrFirstPage    = errors.New("already on the first page")
	ErrInvalidPage  = errors.New("page must be 1 or greater")
	ErrUnknownImage = errors.New("image is not on the current page")
	ErrClosed       = errors.New("gallery is closed")
)

// Controller owns one gallery State. Every page change issues exactly one
// fetch; results are applied only if no newer page was requested since.
type Controller struct {
	lister   domain.ImageLister
	pageSize int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	generation  uint64
	cancelFetch context.CancelFunc
	started     bool
	closed      bool
}

type Option func(*Controller)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func NewController(lister domain.ImageLister, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		lister:   lister,
		pageSize: DefaultPageSize,
		ctx:      ctx,
		cancel:   cancel,
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start issues the initial fetch for page 1. Later calls do nothing.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.requestLocked(c.state.Page)
	c.mu.Unlock()
	return nil
}

// SetPage moves to page n. Changing page while a fetch is in flight is
// rejected; requesting the current page is a no-op.
func (c *Controller) SetPage(n int) error {
	c.mu.Lock()
	if err := c.checkNavigableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if n < 1 {
		c.mu.Unlock()
		return ErrInvalidPage
	}
	if n == c.state.Page && c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.requestLocked(n)
	c.mu.Unlock()
	return nil
}

// Next advances one page. There is no upper bound.
func (c *Controller) Next() error {
	c.mu.Lock()
	if err := c.checkNavigableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.started = true
	c.requestLocked(c.state.Page + 1)
	c.mu.Unlock()
	return nil
}

// Prev goes back one page and fails with ErrFirstPage on page 1.
func (c *Controller) Prev() error {
	c.mu.Lock()
	if err := c.checkNavigableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.state.Page <= 1 {
		c.mu.Unlock()
		return ErrFirstPage
	}
	c.started = true
	c.requestLocked(c.state.Page - 1)
	c.mu.Unlock()
	return nil
}

// Select opens the preview for an image on the current page.
func (c *Controller) Select(url string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	found := false
	for _, img := range c.state.Images {
		if img.DownloadURL == url {
			found = true
			break
		}
	}
	if !found || url == "" {
		c.mu.Unlock()
		return ErrUnknownImage
	}
	c.state = Reduce(c.state, ImageSelected{URL: url})
	c.mu.Unlock()
	return nil
}

// ClearSelection closes the preview.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, SelectionCleared{})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Wait blocks until every fetch started so far has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches and drops their results.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) checkNavigableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.state.Loading {
		return ErrBusy
	}
	return nil
}

// requestLocked enters the loading state for page n and starts its fetch.
// Any fetch still running is cancelled and its result will be ignored.
func (c *Controller) requestLocked(n int) {
	c.state = Reduce(c.state, PageRequested{Page: n})
	c.generation++
	gen := c.generation

	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelFetch = cancel

	c.wg.Add(1)
	go c.fetch(ctx, cancel, gen, n)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, page int) {
	defer c.wg.Done()
	defer cancel()

	tr := otel.Tracer("image-gallery")
	ctx, span := tr.Start(ctx, "fetchPage")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.String("provider", c.lister.GetName()),
	)

	metrics.FetchesInFlight.Inc()
	images, err := c.lister.ListPage(ctx, page, c.pageSize)
	metrics.FetchesInFlight.Dec()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		metrics.StaleResponsesDiscarded.Inc()
		slog.Debug("Discarding stale page result", "page", page, "generation", gen)
		return
	}
	c.cancelFetch = nil

	if err != nil {
		span.RecordError(err)
		c.state = Reduce(c.state, FetchFailed{})
		metrics.PageLoads.WithLabelValues("error").Inc()
	} else {
		c.state = Reduce(c.state, FetchSucceeded{Images: images})
		metrics.PageLoads.WithLabelValues("success").Inc()
	}
	c.mu.Unlock()

	if err != nil {
		slog.Warn("Page load failed", "page", page, "error", err)
	}
}
