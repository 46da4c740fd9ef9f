package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paddocknews/f1news/internal/config"
	"github.com/paddocknews/f1news/internal/story"
)

const (
	UserAgent = "Mozilla/5.0"
	Timeout   = 30 * time.Second
)

// StatusError is returned when the listing page answers with anything but 200
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Scraper handles fetching and parsing the listing page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	extractor *Extractor
}

// New creates a new Scraper from the source settings
func New(cfg config.SourceConfig) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = UserAgent
	}

	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		url:       cfg.URL,
		userAgent: userAgent,
		extractor: NewExtractor(cfg.Origin),
	}
}

// FetchStories fetches the listing page and extracts every story on it
func (s *Scraper) FetchStories(ctx context.Context) ([]story.Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return s.extractor.Extract(resp.Body)
}
