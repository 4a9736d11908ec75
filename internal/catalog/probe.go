// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/metrics"
)

// DefaultProbeTimeout bounds a single existence probe.
const DefaultProbeTimeout = 1500 * time.Millisecond

// Prober reports whether a public URL can actually be fetched.
type Prober interface {
	Exists(ctx context.Context, rawURL string) bool
}

// HTTPProber checks URLs with HEAD, retrying with a one-byte ranged GET
// when the server rejects HEAD. Timeouts and transport errors count as
// "does not exist".
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewHTTPProber creates a prober. A nil client uses http.DefaultClient; a
// zero timeout uses DefaultProbeTimeout.
func NewHTTPProber(client *http.Client, timeout time.Duration, m *metrics.Metrics) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{client: client, timeout: timeout, metrics: m}
}

// Exists probes rawURL.
func (p *HTTPProber) Exists(ctx context.Context, rawURL string) bool {
	status, err := p.do(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = p.do(ctx, http.MethodGet, rawURL)
	}
	found := err == nil && status >= 200 && status < 300
	if err != nil {
		slog.Debug("probe failed", "url", rawURL, "error", err)
	}
	p.metrics.Probe(found)
	return found
}

func (p *HTTPProber) do(ctx context.Context, method, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}
