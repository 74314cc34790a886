package utils

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const maxRedirects = 10

// NewHTTPClient returns a client bounded by timeout that keeps sending
// userAgent across redirects.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("stopped after 10 redirects")
			}
			req.Header.Set("User-Agent", userAgent)
			return nil
		},
	}
}

func CustomHttpRequest(ctx context.Context, client *http.Client, method string, url string, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
