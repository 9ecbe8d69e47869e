package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"
)

// UpstreamProbe checks that the listing endpoint's host accepts connections.
type UpstreamProbe struct {
	address  string
	interval time.Duration
}

func NewUpstreamProbe(upstreamURL string) (*UpstreamProbe, error) {
	addr, err := dialAddress(upstreamURL)
	if err != nil {
		return nil, err
	}
	return &UpstreamProbe{
		address:  addr,
		interval: 2 * time.Second,
	}, nil
}

func dialAddress(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid upstream url %q: %w", raw, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("upstream url %q has no host", raw)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("upstream url %q: unsupported scheme %q", raw, u.Scheme)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Address is the host:port the probe dials.
func (p *UpstreamProbe) Address() string {
	return p.address
}

// Check dials the upstream once.
func (p *UpstreamProbe) Check(ctx context.Context) error {
	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("failed to connect to upstream %s: %w", p.address, err)
	}
	_ = conn.Close()
	return nil
}

// WaitForUpstream polls until the upstream is reachable or ctx ends.
func (p *UpstreamProbe) WaitForUpstream(ctx context.Context) error {
	slog.Info("Waiting for upstream...", "address", p.address)
	if err := p.Check(ctx); err == nil {
		slog.Info("Upstream is ready", "address", p.address)
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Check(ctx); err != nil {
				slog.Warn("Upstream not ready yet", "error", err)
				continue
			}
			slog.Info("Upstream is ready", "address", p.address)
			return nil
		}
	}
}
