package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

// maxReadmeBytes caps the fetched README size. The real document is well
// under 1 MiB; anything bigger means we are downloading the wrong thing.
const maxReadmeBytes = 4 << 20

const (
	fetchTimeout  = 30 * time.Second
	fetchAttempts = 3
	fetchDelay    = 2 * time.Second
)

// ErrReadmeTooLarge indicates the fetched document exceeded the size cap.
var ErrReadmeTooLarge = errors.New("readme exceeds size limit")

// Scraper fetches the upstream catalog README over HTTP.
type Scraper struct {
	client *resty.Client
	url    string
	delay  time.Duration
	logger *slog.Logger
}

// NewScraper creates a Scraper for the given raw README URL.
func NewScraper(readmeURL string, logger *slog.Logger) *Scraper {
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetHeader("Accept", "text/plain, text/markdown")
	return &Scraper{client: client, url: readmeURL, delay: fetchDelay, logger: logger}
}

// FetchReadme downloads the README markdown, retrying transient failures
// with a fixed delay.
func (s *Scraper) FetchReadme(ctx context.Context) (string, error) {
	var body string

	err := retry.Do(
		func() error {
			resp, err := s.client.R().SetContext(ctx).Get(s.url)
			if err != nil {
				return fmt.Errorf("fetching readme: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("fetching readme: unexpected status %d", resp.StatusCode())
			}
			if len(resp.Body()) > maxReadmeBytes {
				return retry.Unrecoverable(fmt.Errorf("%w: %d bytes", ErrReadmeTooLarge, len(resp.Body())))
			}
			body = string(resp.Body())
			return nil
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(s.delay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("readme fetch failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", err
	}

	s.logger.Info("fetched readme", "url", s.url, "bytes", len(body))
	return body, nil
}
