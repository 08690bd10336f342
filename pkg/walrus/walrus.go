// Package walrus reads blob content and metadata from a storage
// aggregator over HTTP. The core classification engine consumes this
// package through the Reader interface; failures surface as errors
// the caller degrades from, never as fatal conditions.
package walrus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// ErrNotFound marks a blob the aggregator does not hold.
var ErrNotFound = errors.New("blob not found")

// Metadata is the HEAD-level view of a blob.
type Metadata struct {
	SizeBytes   int64
	ContentType string
}

// Reader is the storage network read interface the scan pipeline
// depends on.
type Reader interface {
	FetchBytes(ctx context.Context, blobID string) ([]byte, error)
	HeadMetadata(ctx context.Context, blobID string) (*Metadata, error)
}

const (
	defaultTimeout  = 30 * time.Second
	defaultHeadTTL  = 5 * time.Minute
	defaultRPS      = 10
	maxFetchBytes   = 256 << 20
	blobPathPattern = "%s/v1/blobs/%s"
)

// Client reads blobs from one aggregator endpoint. HEAD results are
// cached with a TTL since metadata for an immutable blob only
// changes when the aggregator loses it.
type Client struct {
	aggregatorURL string
	httpClient    *http.Client
	limiter       *rate.Limiter
	heads         *ttlcache.Cache[string, Metadata]
}

// NewClient creates a client for the given aggregator base URL. The
// endpoint is an explicit parameter; there is no default network.
func NewClient(aggregatorURL string) *Client {
	heads := ttlcache.New(
		ttlcache.WithTTL[string, Metadata](defaultHeadTTL),
	)
	go heads.Start()

	return &Client{
		aggregatorURL: aggregatorURL,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		limiter:       rate.NewLimiter(rate.Limit(defaultRPS), defaultRPS),
		heads:         heads,
	}
}

// FetchBytes downloads the full blob content.
func (c *Client) FetchBytes(ctx context.Context, blobID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	url := fmt.Sprintf(blobPathPattern, c.aggregatorURL, blobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob %s: %w", blobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch blob %s, status code: %d", blobID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob body: %w", err)
	}
	return data, nil
}

// HeadMetadata reports a blob's size and declared content type
// without downloading it.
func (c *Client) HeadMetadata(ctx context.Context, blobID string) (*Metadata, error) {
	if item := c.heads.Get(blobID); item != nil {
		meta := item.Value()
		return &meta, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	url := fmt.Sprintf(blobPathPattern, c.aggregatorURL, blobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to head blob %s: %w", blobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to head blob %s, status code: %d", blobID, resp.StatusCode)
	}

	meta := Metadata{ContentType: resp.Header.Get("Content-Type")}
	if lengthHeader := resp.Header.Get("Content-Length"); lengthHeader != "" {
		if size, err := strconv.ParseInt(lengthHeader, 10, 64); err == nil {
			meta.SizeBytes = size
		}
	}

	c.heads.Set(blobID, meta, ttlcache.DefaultTTL)
	return &meta, nil
}

// Close stops the metadata cache janitor.
func (c *Client) Close() {
	c.heads.Stop()
}
