package imageload

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/httputil"
	"github.com/matzehuels/masonry/pkg/observability"
)

// HTTPLoader loads image sizes over HTTP.
type HTTPLoader struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
	retry   func(context.Context, func() error) error
}

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.http = c }
}

// WithTimeout sets a per-request timeout. Zero, the default, means none.
func WithTimeout(d time.Duration) HTTPOption {
	return func(l *HTTPLoader) { l.http.Timeout = d }
}

// WithCache stores decoded sizes in c under keys from keyer. A nil keyer
// uses [cache.NewDefaultKeyer].
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) HTTPOption {
	return func(l *HTTPLoader) {
		l.cache = c
		if keyer != nil {
			l.keyer = keyer
		}
		l.ttl = ttl
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h map[string]string) HTTPOption {
	return func(l *HTTPLoader) { l.headers = h }
}

// WithRetry overrides the default retry policy of [httputil.RetryWithBackoff].
func WithRetry(attempts int, delay time.Duration) HTTPOption {
	return func(l *HTTPLoader) {
		l.retry = func(ctx context.Context, fn func() error) error {
			return httputil.Retry(ctx, attempts, delay, fn)
		}
	}
}

// NewHTTPLoader creates a loader with no cache and no request timeout.
func NewHTTPLoader(opts ...HTTPOption) *HTTPLoader {
	l := &HTTPLoader{
		http:  &http.Client{},
		cache: cache.NewNullCache(),
		keyer: cache.NewDefaultKeyer(),
		ttl:   cache.DefaultImageTTL,
		retry: httputil.RetryWithBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements content.ImageLoader.
func (l *HTTPLoader) Load(ctx context.Context, src string) (content.Image, error) {
	key := l.keyer.ImageKey(src)
	if data, hit, err := l.cache.Get(ctx, key); err == nil && hit {
		var img content.Image
		if json.Unmarshal(data, &img) == nil {
			observability.Cache().OnCacheHit(ctx, "image")
			return img, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "image")

	var img content.Image
	err := l.retry(ctx, func() error {
		var err error
		img, err = l.fetch(ctx, src)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return content.Image{}, err
		}
		return content.Image{}, errors.Wrap(errors.ErrCodeImageLoad, err, "load %s", src)
	}

	if data, err := json.Marshal(img); err == nil {
		if l.cache.Set(ctx, key, data, l.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "image", len(data))
		}
	}
	return img, nil
}

func (l *HTTPLoader) fetch(ctx context.Context, src string) (content.Image, error) {
	u, err := url.Parse(src)
	if err != nil {
		return content.Image{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return content.Image{}, err
	}
	for k, v := range l.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := l.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return content.Image{}, ctx.Err()
		}
		return content.Image{}, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "get %s", src)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return content.Image{}, err
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return content.Image{}, errors.Wrap(errors.ErrCodeImageLoad, err, "decode %s", src)
	}
	return content.Image{Src: src, Width: cfg.Width, Height: cfg.Height}, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "status %d", code)
	case httputil.Retryable(code):
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}

var _ content.ImageLoader = (*HTTPLoader)(nil)
