package fetcher

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	ierrors "github.com/cnosuke/fetch-analytics/internal/errors"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

type Config struct {
	Timeout   int // seconds; 0 keeps the http.Client default
	UserAgent string
}

// Fetcher defines the interface for retrieving a single resource.
type Fetcher interface {
	// Fetch issues one GET request for urlStr. The response is returned only
	// for a 200 status and, when expectedContentType is non-empty, a matching
	// media type. Every failure is a *types.Error of kind Network, HTTPStatus
	// or ContentTypeMismatch; no retries are attempted.
	Fetch(ctx context.Context, urlStr string, expectedContentType string) (*types.FetchResponse, error)
}

// httpFetcher implements the Fetcher interface using HTTP.
type httpFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a new httpFetcher.
func NewHTTPFetcher(cfg *Config) (Fetcher, error) {
	zap.S().Infow("creating new HTTP fetcher",
		"timeout", cfg.Timeout,
		"user_agent", cfg.UserAgent)

	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &httpFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
	}, nil
}

// Fetch fetches the body of urlStr.
func (f *httpFetcher) Fetch(ctx context.Context, urlStr string, expectedContentType string) (*types.FetchResponse, error) {
	zap.S().Debugw("fetching URL",
		"url", urlStr,
		"expected_content_type", expectedContentType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, types.NewError(types.KindNetwork, "fetch", urlStr, ierrors.Wrap(err, "failed to create request"))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	// Track redirect chain for this request
	var redirectChain []string
	client := *f.client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) == 1 {
			redirectChain = append(redirectChain, via[0].URL.String())
		}
		redirectChain = append(redirectChain, req.URL.String())
		// Default policy: allow up to 10 redirects
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, types.NewError(types.KindNetwork, "fetch", urlStr, ierrors.Wrap(err, "failed to execute request"))
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK {
		zap.S().Debugw("unexpected status", "url", urlStr, "status", resp.StatusCode)
		e := types.NewError(types.KindHTTPStatus, "fetch", urlStr, nil)
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	if expectedContentType != "" && !MediaTypeMatches(contentType, expectedContentType) {
		return nil, types.NewError(types.KindContentTypeMismatch, "fetch", urlStr,
			ierrors.Wrapf(errors.New("unexpected content type"), "expected %s, got %q", expectedContentType, contentType))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewError(types.KindNetwork, "fetch", urlStr, ierrors.Wrap(err, "failed to read response body"))
	}

	zap.S().Debugw(
		"response received",
		"url", urlStr,
		"status", resp.StatusCode,
		"content-length", resp.ContentLength,
		"bytes", len(body),
		"content_type", contentType,
	)

	originalURL := ""
	if len(redirectChain) > 0 && redirectChain[0] != resp.Request.URL.String() {
		originalURL = urlStr
	}

	return &types.FetchResponse{
		URL:         resp.Request.URL.String(),
		ContentType: contentType,
		Body:        body,
		StatusCode:  resp.StatusCode,
		OriginalURL: originalURL,
	}, nil
}

// MediaTypeMatches compares the media types of two Content-Type values,
// ignoring parameters and case.
func MediaTypeMatches(got, want string) bool {
	return mediaType(got) == mediaType(want) && mediaType(want) != ""
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Remove parameters
		if idx := strings.Index(contentType, ";"); idx != -1 {
			contentType = contentType[:idx]
		}
		return strings.TrimSpace(strings.ToLower(contentType))
	}
	return mt
}
