package prefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"zooo-feed/pkg/objectstore"
)

// DefaultBytes is how much of a clip a warmer reads.
const DefaultBytes = 2 << 20

// ErrUnsupported is returned by Router for URL schemes it has no warmer for.
var ErrUnsupported = errors.New("prefetch: unsupported url")

// File is a warmed prefix of a clip stored on disk.
type File struct {
	Path  string
	Bytes int64
}

// Release deletes the file.
func (f *File) Release() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func spool(dir string, body io.Reader, limit int64) (*File, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}
	out, err := os.CreateTemp(dir, "prefetch-*")
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(out, io.LimitReader(body, limit))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(out.Name())
		return nil, err
	}
	return &File{Path: out.Name(), Bytes: n}, nil
}

// HTTPWarmer reads the first Bytes of an http(s) URL with a Range request.
type HTTPWarmer struct {
	Client *http.Client
	Bytes  int64
	Dir    string
}

func (w *HTTPWarmer) Warm(ctx context.Context, rawURL string) (Resource, error) {
	limit := w.Bytes
	if limit <= 0 {
		limit = DefaultBytes
	}
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", limit-1))

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("warm %s: status %d", rawURL, resp.StatusCode)
	}
	return spool(w.Dir, resp.Body, limit)
}

// S3Warmer reads the first Bytes of an s3://bucket/key object.
type S3Warmer struct {
	API   objectstore.API
	Bytes int64
	Dir   string
}

func (w *S3Warmer) Warm(ctx context.Context, rawURL string) (Resource, error) {
	loc, err := objectstore.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	limit := w.Bytes
	if limit <= 0 {
		limit = DefaultBytes
	}
	body, err := objectstore.Read(ctx, w.API, loc, limit)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return spool(w.Dir, body, limit)
}

// Router dispatches on the URL scheme.
type Router map[string]Warmer

type noop struct{}

func (noop) Release() error { return nil }

func (r Router) Warm(ctx context.Context, rawURL string) (Resource, error) {
	if filepath.IsAbs(rawURL) {
		return noop{}, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "file" {
		return noop{}, nil
	}
	w, ok := r[u.Scheme]
	if !ok || w == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, u.Scheme)
	}
	return w.Warm(ctx, rawURL)
}
