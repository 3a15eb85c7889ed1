package hebcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leyning_exporter/internal/domain/reading"
	"leyning_exporter/internal/infra/logger"

	"github.com/go-resty/resty/v2"
)

// ErrSourceUnavailable means the leyning fetch failed after exhausting
// retries. Fatal to the whole run.
var ErrSourceUnavailable = errors.New("leyning source unavailable")

const defaultTimeout = 30 * time.Second

// Config tunes the client's transport behavior.
type Config struct {
	BaseURL string
	// RetryAttempts is the total attempt cap, including the first request.
	RetryAttempts int
	// RetryMinWait / RetryMaxWait bound the exponential backoff between
	// attempts.
	RetryMinWait time.Duration
	RetryMaxWait time.Duration
}

// Client fetches leyning data from the Hebcal API. It implements
// reading.Source.
type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	retries := cfg.RetryAttempts - 1
	if retries < 0 {
		retries = 0
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(retries).
		SetRetryWaitTime(cfg.RetryMinWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Client{http: httpClient}
}

// Fetch retrieves the reading set for an inclusive ISO date range. Transient
// failures are retried with bounded exponential backoff before any error is
// surfaced.
func (c *Client) Fetch(ctx context.Context, startDate, endDate string) (*reading.Set, error) {
	logger.Log.Debugf("Fetching leyning data for %s..%s", startDate, endDate)

	var set reading.Set
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cfg":   "json",
			"start": startDate,
			"end":   endDate,
		}).
		SetResult(&set).
		Get("/leyning")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode())
	}

	logger.Log.Debugf("Fetched %d occasion items", len(set.Items))
	return &set, nil
}
