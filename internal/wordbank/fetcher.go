package wordbank

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=fetcher.go -destination=../mocks/wordbank/mock_fetcher.go -package=mock_wordbank

// Fetcher retrieves a JSON document from a URL.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher implements Fetcher over HTTP.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates an HTTPFetcher with its own client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: resty.New()}
}

// FetchJSON performs a GET and returns the response body. A non-2xx
// status is an error.
func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get(%s) > %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("status code: %d, url: %s", res.StatusCode(), url)
	}
	return res.Body(), nil
}
