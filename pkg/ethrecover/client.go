package ethrecover

import (
	"context"
	"fmt"
)

// Client provides a high-level API for verifying request files.
type Client struct {
	parser  RequestParser
	workers int
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		parser: &JSONParser{},
	}
}

// WithParser sets a custom request parser.
func (c *Client) WithParser(parser RequestParser) *Client {
	c.parser = parser
	return c
}

// WithWorkers sets the number of parallel verifications (0 = one per CPU).
func (c *Client) WithWorkers(workers int) *Client {
	c.workers = workers
	return c
}

// VerifyFile parses requests from source and verifies each of them.
//
// Args:
//   - ctx: Context for cancellation.
//   - source: Path to the request file.
//
// Returns:
//   - One Outcome per request, error if the file could not be read.
func (c *Client) VerifyFile(ctx context.Context, source string) ([]Outcome, error) {
	requests, err := c.parser.ParseRequests(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}
	return c.VerifyRequests(ctx, requests)
}

// VerifyRequests verifies in-memory requests.
func (c *Client) VerifyRequests(ctx context.Context, requests []*Request) ([]Outcome, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no requests to verify")
	}
	return VerifyBatch(ctx, requests, c.workers)
}
