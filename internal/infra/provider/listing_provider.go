package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ImageGallery/internal/domain"
	"github.com/ImageGallery/internal/infra/metrics"
	"github.com/ImageGallery/pkg/logging"
	"github.com/sony/gobreaker"
)

// Options tunes the upstream client. The zero value gives a single attempt
// per page with the transport's own timeouts.
type Options struct {
	Timeout          time.Duration
	MaxRetries       int
	FailureThreshold uint32
	OpenTimeout      time.Duration
	UserAgent        string
}

type ListingProvider struct {
	name        string
	baseURL     string
	client      *http.Client
	transformer domain.Transformer
	cb          *gobreaker.CircuitBreaker
	maxRetries  int
	userAgent   string
	sampler     *logging.ErrorSampler
}

func NewListingProvider(name, baseURL string, transformer domain.Transformer, opts Options) *ListingProvider {
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := opts.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A fetch abandoned by its caller says nothing about the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
		},
	}

	return &ListingProvider{
		name:    name,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		transformer: transformer,
		cb:          gobreaker.NewCircuitBreaker(cbSettings),
		maxRetries:  opts.MaxRetries,
		userAgent:   opts.UserAgent,
		sampler:     logging.NewErrorSampler(10),
	}
}

func (p *ListingProvider) GetName() string {
	return p.name
}

// BreakerState reports the current circuit breaker state.
func (p *ListingProvider) BreakerState() gobreaker.State {
	return p.cb.State()
}

// ListPage fetches one page of the listing. Any failure is returned wrapped;
// callers collapse it to domain.FetchFailedMessage.
func (p *ListingProvider) ListPage(ctx context.Context, page, limit int) ([]domain.Image, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	}()

	pageURL, err := p.buildURLWithPage(page, limit)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(p.name, "error_url").Inc()
		return nil, err
	}

	images, err := p.fetchSinglePage(ctx, pageURL, page)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(p.name, "error").Inc()
		if p.sampler.ShouldLog("list_page") {
			slog.Error("Listing fetch failed", "provider", p.name, "page", page,
				"error", err, "occurrences", p.sampler.GetCount("list_page"))
		}
		return nil, err
	}
	p.sampler.Reset("list_page")

	metrics.UpstreamRequests.WithLabelValues(p.name, "success").Inc()
	metrics.ImagesFetched.WithLabelValues(p.name).Add(float64(len(images)))
	slog.Info("Fetched page", "provider", p.name, "page", page, "images_on_page", len(images))
	return images, nil
}

func (p *ListingProvider) buildURLWithPage(page, limit int) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid upstream url %q: %w", p.baseURL, err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (p *ListingProvider) fetchSinglePage(ctx context.Context, pageURL string, page int) ([]domain.Image, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		var lastErr error
		backoff := 500 * time.Millisecond

		for i := 0; i <= p.maxRetries; i++ {
			if i > 0 {
				slog.Info("Retrying request", "provider", p.name, "page", page, "attempt", i, "max_retries", p.maxRetries)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
					backoff *= 2
				}
			}

			images, retryable, reqErr := p.doRequest(ctx, pageURL)
			if reqErr == nil {
				return images, nil
			}
			lastErr = reqErr
			if !retryable {
				return nil, reqErr
			}
			slog.Warn("Request failed", "provider", p.name, "page", page, "error", reqErr)
		}
		return nil, lastErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch page %d from %s: %w", page, p.name, err)
	}

	return result.([]domain.Image), nil
}

// doRequest performs one GET. The bool reports whether the failure is worth retrying.
func (p *ListingProvider) doRequest(ctx context.Context, pageURL string) ([]domain.Image, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}

	images, err := p.transformer.Transform(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to transform listing from %s: %w", p.name, err)
	}
	return images, false, nil
}
