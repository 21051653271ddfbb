package movas

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://app.vendo.noncd.db.de/mob"

const defaultUserAgent = "zugreise/1.0"
const requestTimeout = 30 * time.Second

// vendo MIME types double as Content-Type and Accept headers and select the
// backend API version per endpoint.
const (
	mimeTypeLocation  = "application/x.db.vendo.mob.location.v3+json"
	mimeTypeTimetable = "application/x.db.vendo.mob.bahnhofstafeln.v2+json"
	mimeTypeJourneys  = "application/x.db.vendo.mob.verbindungssuche.v8+json"
)

// Client is the wire codec for the movas backend: it serialises request
// bodies, attaches the per-call bookkeeping headers and undoes transport
// compression on replies.
type Client struct {
	BaseURL   string
	UserAgent string

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		UserAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// postDocument sends a JSON request body and returns the decompressed reply
// bytes. Only connection-level failures are retried; any HTTP response,
// whatever its status, is handed to the caller's parser.
func (c *Client) postDocument(ctx context.Context, endpoint string, mimeType string, body any) ([]byte, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var responseBytes []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+endpoint, bytes.NewReader(requestBody))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("Content-Type", mimeType)
		req.Header.Set("Accept", mimeType)
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Accept-Encoding", "gzip")
		// the backend rejects UUIDs enclosed in braces
		req.Header.Set("X-Correlation-ID", strings.Trim(uuid.New().String(), "{}"))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("endpoint", endpoint).Msg("Retryable transport failure")
			return err
		}
		defer resp.Body.Close()

		var reader io.Reader = resp.Body
		if resp.Header.Get("Content-Encoding") == "gzip" {
			gzipReader, err := gzip.NewReader(resp.Body)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decompress reply: %w", err))
			}
			defer gzipReader.Close()
			reader = gzipReader
		}

		responseBytes, err = io.ReadAll(reader)
		if err != nil {
			return backoff.Permanent(err)
		}

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return responseBytes, nil
}
