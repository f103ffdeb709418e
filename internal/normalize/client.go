// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize calls the node-normalization service to resolve CURIEs
// into canonical entity records. Requests go out in fixed-size batches
// with a small delay between them; a failed batch degrades to null results
// for its members and the run continues.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/kg-reconciler/internal/httputil"
	"github.com/pdiddy/kg-reconciler/pkg/types"
)

// DefaultEndpoint is the get_normalized_nodes URL of a locally running
// normalization service.
const DefaultEndpoint = "http://127.0.0.1:8000/get_normalized_nodes"

const (
	defaultBatchSize  = 100
	defaultBatchDelay = 100 * time.Millisecond
)

// Client issues batched normalization requests.
type Client struct {
	HTTP *http.Client
	Cfg  types.NormalizeConfig
}

// NewClient returns a Client with defaults applied for unset config.
func NewClient(cfg types.NormalizeConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = defaultBatchDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		HTTP: &http.Client{Timeout: timeout},
		Cfg:  cfg,
	}
}

// NormalizeAll resolves every CURIE, batch by batch. The returned
// collection has one entry per input CURIE; entries from failed batches
// and CURIEs the service could not map are null. Progress and batch
// warnings go to w.
func (c *Client) NormalizeAll(ctx context.Context, curies []string, w io.Writer) (types.Collection, error) {
	results := make(types.Collection, len(curies))
	batches := (len(curies) + c.Cfg.BatchSize - 1) / c.Cfg.BatchSize

	for i := 0; i < len(curies); i += c.Cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := i + c.Cfg.BatchSize
		if end > len(curies) {
			end = len(curies)
		}
		batch := curies[i:end]
		fmt.Fprintf(w, "processing batch %d/%d (%d CURIEs)\n", i/c.Cfg.BatchSize+1, batches, len(batch))

		batchResult, err := c.normalizeBatch(ctx, batch)
		if err != nil {
			// Batch failures are not fatal: members degrade to null.
			fmt.Fprintf(w, "warning: batch failed: %v\n", err)
			for _, curie := range batch {
				results[curie] = nil
			}
		} else {
			for curie, rec := range batchResult {
				results[curie] = rec
			}
			// The service omits inputs it has never seen; keep the
			// one-entry-per-input contract.
			for _, curie := range batch {
				if _, ok := results[curie]; !ok {
					results[curie] = nil
				}
			}
		}

		if end < len(curies) {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.Cfg.BatchDelay):
			}
		}
	}
	return results, nil
}

// normalizeBatch POSTs one batch to the service.
func (c *Client) normalizeBatch(ctx context.Context, batch []string) (types.Collection, error) {
	body, err := json.Marshal(map[string][]string{"curies": batch})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.Cfg.UserAgent)
	}
	if c.Cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.Cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("normalization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("normalization service returned HTTP %d", resp.StatusCode)
	}

	var result types.Collection
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing normalization response: %w", err)
	}
	return result, nil
}

// Mapped counts the non-null entries of a normalization result.
func Mapped(c types.Collection) int {
	n := 0
	for _, rec := range c {
		if rec != nil {
			n++
		}
	}
	return n
}
