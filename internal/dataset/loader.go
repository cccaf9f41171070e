package dataset

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source schemes understood by the loader.
const (
	SchemeFile  = "file"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeDB    = "db"
)

// Loader resolves a source identifier to a Dataset. Sources are routed by
// scheme: http(s) URLs go to the HTTP fetcher, "db:<name>" to the dataset
// library, anything else is read as a local file.
//
// Successful loads are cached per source for the configured TTL, and
// concurrent loads of one source share a single fetch.
type Loader struct {
	fetchers map[string]Fetcher
	ttl      time.Duration
	timeout  time.Duration
	clock    func() time.Time
	log      *slog.Logger
	sf       singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedDataset
}

type cachedDataset struct {
	ds        *Dataset
	expiresAt time.Time
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFetcher registers f for the given scheme, replacing any default.
func WithFetcher(scheme string, f Fetcher) LoaderOption {
	return func(l *Loader) {
		l.fetchers[strings.ToLower(scheme)] = f
	}
}

// WithCacheTTL sets how long loaded datasets are reused. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) { l.ttl = ttl }
}

// WithFetchTimeout bounds a shared fetch. The fetch outlives any single
// caller's cancellation, so this is its only deadline. Zero means none.
func WithFetchTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) LoaderOption {
	return func(l *Loader) { l.clock = clock }
}

// WithLogger sets the loader's logger.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a Loader with file and HTTP(S) fetchers registered.
func NewLoader(opts ...LoaderOption) *Loader {
	web := NewHTTPFetcher(nil)
	l := &Loader{
		fetchers: map[string]Fetcher{
			SchemeFile:  FileFetcher{},
			SchemeHTTP:  web,
			SchemeHTTPS: web,
		},
		timeout: DefaultHTTPConfig().Timeout,
		clock:   time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:   make(map[string]cachedDataset),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches, validates and filters the dataset behind source. Failures
// are *LoadError values: KindTransport when the source cannot be read,
// KindMalformed when its body is not an array of records, KindEmpty when no
// record survives filtering.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	source = strings.TrimSpace(source)

	if ds, ok := l.cached(source); ok {
		l.log.Debug("dataset.cache_hit", "source", source)
		return ds, nil
	}

	ch := l.sf.DoChan(source, func() (any, error) {
		if ds, ok := l.cached(source); ok {
			return ds, nil
		}

		// Callers join this fetch by source, so it must not die with the
		// caller that happened to start it.
		fctx := context.WithoutCancel(ctx)
		if l.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, l.timeout)
			defer cancel()
		}

		start := l.clock()
		records, err := l.fetch(fctx, source)
		if err != nil {
			return nil, classify(source, err)
		}

		entries := Filter(records)
		if len(entries) == 0 {
			return nil, &LoadError{Source: source, Kind: KindEmpty}
		}

		now := l.clock()
		ds := &Dataset{Source: source, Entries: entries, LoadedAt: now}
		l.log.Info("dataset.loaded",
			"source", source,
			"records", len(records),
			"entries", len(entries),
			"duration_ms", now.Sub(start).Milliseconds(),
		)

		if l.ttl > 0 {
			l.mu.Lock()
			l.cache[source] = cachedDataset{ds: ds, expiresAt: now.Add(l.ttl)}
			l.mu.Unlock()
		}
		return ds, nil
	})

	select {
	case <-ctx.Done():
		l.log.Debug("dataset.load_abandoned", "source", source, "error", ctx.Err())
		return nil, &LoadError{Source: source, Kind: KindTransport, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			l.log.Warn("dataset.load_failed", "source", source, "error", res.Err)
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

// Records fetches the raw records behind source without filtering or
// caching. Sources with no playable record fail with KindEmpty so they are
// never imported.
func (l *Loader) Records(ctx context.Context, source string) ([]Record, error) {
	source = strings.TrimSpace(source)
	records, err := l.fetch(ctx, source)
	if err != nil {
		return nil, classify(source, err)
	}
	if len(Filter(records)) == 0 {
		return nil, &LoadError{Source: source, Kind: KindEmpty}
	}
	return records, nil
}

// Invalidate drops any cached copy of source.
func (l *Loader) Invalidate(source string) {
	l.mu.Lock()
	delete(l.cache, strings.TrimSpace(source))
	l.mu.Unlock()
}

func (l *Loader) cached(source string) (*Dataset, bool) {
	if l.ttl <= 0 {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.cache[source]
	if !ok || !entry.expiresAt.After(l.clock()) {
		return nil, false
	}
	return entry.ds, true
}

func (l *Loader) fetch(ctx context.Context, source string) ([]Record, error) {
	if source == "" {
		return nil, &LoadError{Source: source, Kind: KindTransport, Err: errEmptySource}
	}
	scheme, ref := SplitSource(source)
	f, ok := l.fetchers[scheme]
	if !ok {
		return nil, &LoadError{Source: source, Kind: KindTransport, Err: unknownScheme(scheme)}
	}
	return f.Fetch(ctx, ref)
}

// SplitSource separates a source identifier into scheme and reference.
// HTTP(S) URLs keep their full text as the reference. A single-letter
// prefix is treated as a Windows drive, not a scheme.
func SplitSource(source string) (scheme, ref string) {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"):
		return SchemeHTTP, source
	case strings.HasPrefix(lower, "https://"):
		return SchemeHTTPS, source
	}
	if name, rest, ok := strings.Cut(source, ":"); ok && len(name) > 1 && isSchemeName(name) {
		if strings.EqualFold(name, SchemeFile) {
			return SchemeFile, strings.TrimPrefix(rest, "//")
		}
		return strings.ToLower(name), rest
	}
	return SchemeFile, source
}

func isSchemeName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
