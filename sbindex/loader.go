package sbindex

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/awalczak/storynav"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ storynav.RefLoader = (*Loader)(nil)

// Remote fetch retry bounds.
const (
	defaultRetryAttempts = 10
	defaultRetryDelay    = 500 * time.Millisecond
)

// Loader loads index sources into a Dataset. Remote refs are fetched with
// bounded retry; a ref that still fails is recorded with its error rather
// than failing the whole load.
type Loader struct {
	parser storynav.IndexParser
	client *http.Client

	retryAttempts int
	retryDelay    time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for composed refs.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = c
	}
}

// WithRetry overrides the remote fetch retry policy. Attempts below one
// are clamped to a single try.
func WithRetry(attempts int, delay time.Duration) LoaderOption {
	return func(l *Loader) {
		l.retryAttempts = attempts
		l.retryDelay = delay
	}
}

// NewLoader creates a Loader using parser for every source.
func NewLoader(parser storynav.IndexParser, opts ...LoaderOption) *Loader {
	l := &Loader{
		parser:        parser,
		client:        http.DefaultClient,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	// A non-positive attempt count would skip the fetch loop entirely and
	// wrap a nil error; every load gets at least one try.
	if l.retryAttempts < 1 {
		l.retryAttempts = 1
	}
	return l
}

// Load fetches every source concurrently and assembles the Dataset in
// source order. The returned error is non-nil only when the context is
// cancelled; per-ref failures surface on Ref.Err.
func (l *Loader) Load(ctx context.Context, sources []storynav.RefSource) (*storynav.Dataset, error) {
	ds := &storynav.Dataset{Refs: make(map[string]*storynav.Ref, len(sources))}

	refs := make([]*storynav.Ref, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			refs[i] = l.loadRef(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if ref == nil {
			continue
		}
		ds.Refs[ref.ID] = ref
		ds.Order = append(ds.Order, ref.ID)
	}

	return ds, nil
}

// loadRef loads one source, recording a failure on the returned Ref.
func (l *Loader) loadRef(ctx context.Context, src storynav.RefSource) *storynav.Ref {
	ref := &storynav.Ref{ID: src.ID, Title: src.Title, URL: src.URL}

	var idx *storynav.Index
	var err error
	if isRemote(src.URL) {
		idx, err = l.fetchRemote(ctx, src.URL)
	} else {
		idx, err = l.parseFile(src.URL)
	}
	if err != nil {
		ref.Err = err
		return ref
	}

	ref.Index = idx
	ref.PreviewInitialized = true
	return ref
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (l *Loader) parseFile(path string) (*storynav.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.parser.Parse(f)
}

// fetchRemote retrieves <base>/index.json with bounded retry and backoff.
func (l *Loader) fetchRemote(ctx context.Context, baseURL string) (*storynav.Index, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/index.json"

	var lastErr error
	for attempt := 0; attempt < l.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.retryDelay):
			}
		}

		idx, err := l.fetchOnce(ctx, url)
		if err == nil {
			return idx, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetching %s after %d attempts: %w", url, l.retryAttempts, lastErr)
}

func (l *Loader) fetchOnce(ctx context.Context, url string) (*storynav.Index, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return l.parser.Parse(resp.Body)
}
