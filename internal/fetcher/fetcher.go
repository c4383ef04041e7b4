package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"pbcheck/internal/providers"
	"pbcheck/internal/structures"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher retrieves the raw drawing payload from the configured source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type HTTPFetcher struct {
	client    *http.Client
	target    string
	userAgent string
	maxBody   int64
	limiter   *rate.Limiter
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewHTTPFetcher(conf *structures.Config, client *http.Client, logger providers.Logger, metrics providers.MetricsProviderInterface) (Fetcher, error) {
	target, err := targetURL(conf.Source.Endpoint, conf.Source.Proxy)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if conf.Source.MinInterval > 0 {
		limit = rate.Every(conf.Source.MinInterval)
	}

	return &HTTPFetcher{
		client:    client,
		target:    target,
		userAgent: conf.Source.UserAgent,
		maxBody:   conf.Source.MaxBodyBytes,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// targetURL appends the query-escaped endpoint to the proxy prefix when a proxy is configured,
// e.g. https://api.allorigins.win/get?url=<endpoint>.
func targetURL(endpoint, proxy string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return "", fmt.Errorf("parse source endpoint: %w", err)
	}
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return endpoint, nil
	}
	full := proxy + url.QueryEscape(endpoint)
	if _, err := url.ParseRequestURI(full); err != nil {
		return "", fmt.Errorf("parse source proxy: %w", err)
	}
	return full, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if !f.limiter.Allow() {
		return nil, &FetchError{Kind: NetworkFailure, Err: ErrThrottled}
	}

	start := time.Now()
	defer func() {
		f.metrics.ObserveFetchDuration(time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.target, nil)
	if err != nil {
		return nil, &FetchError{Kind: NetworkFailure, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.5")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.logger.Debugf(providers.TypeFetch, "GET %s", f.target)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: NetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Kind: HttpError, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, &FetchError{Kind: NetworkFailure, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBody {
		return nil, &FetchError{Kind: NetworkFailure, Err: errors.New("response body exceeds limit")}
	}

	f.logger.Infof(providers.TypeFetch, "Fetched %d bytes from drawing source in %s", len(body), time.Since(start))
	return body, nil
}
