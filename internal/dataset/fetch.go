package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxBodySize caps remote dataset bodies.
const maxBodySize = 16 << 20

// Fetcher retrieves the raw records behind a source reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]Record, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) ([]Record, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]Record, error) {
	return f(ctx, ref)
}

// FileFetcher reads datasets from the local filesystem. Relative paths are
// resolved against Dir when it is set.
type FileFetcher struct {
	Dir string
}

func (f FileFetcher) Fetch(ctx context.Context, ref string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := ref
	if f.Dir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(f.Dir, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return decode(data, isCSVPath(p))
}

// HTTPFetcher downloads datasets over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher using client, or a default client
// when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient(DefaultHTTPConfig())
	}
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	csvBody := strings.Contains(resp.Header.Get("Content-Type"), "csv")
	if u, err := url.Parse(ref); err == nil && isCSVPath(u.Path) {
		csvBody = true
	}
	return decode(data, csvBody)
}

func decode(data []byte, csvBody bool) ([]Record, error) {
	if csvBody {
		return DecodeCSV(data)
	}
	return DecodeJSON(data)
}

func isCSVPath(p string) bool {
	return strings.EqualFold(path.Ext(filepath.ToSlash(p)), ".csv")
}
