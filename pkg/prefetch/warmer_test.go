package prefetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/require"

	"zooo-feed/pkg/objectstore"
)

func TestHTTPWarmerReadsPrefix(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	w := &HTTPWarmer{Client: srv.Client(), Bytes: 16, Dir: t.TempDir()}
	res, err := w.Warm(context.Background(), srv.URL+"/clip.mp4")
	require.NoError(t, err)
	require.Equal(t, "bytes=0-15", gotRange)

	f := res.(*File)
	require.EqualValues(t, 16, f.Bytes)
	require.FileExists(t, f.Path)

	require.NoError(t, f.Release())
	require.NoFileExists(t, f.Path)
	require.NoError(t, f.Release(), "second release is harmless")
}

func TestHTTPWarmerRejectsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	w := &HTTPWarmer{Client: srv.Client(), Dir: dir}
	_, err := w.Warm(context.Background(), srv.URL+"/missing.mp4")
	require.ErrorContains(t, err, "404")

	entries, _ := os.ReadDir(dir)
	require.Empty(t, entries)
}

func TestHTTPWarmerHonoursCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &HTTPWarmer{Client: srv.Client(), Dir: t.TempDir()}
	_, err := w.Warm(ctx, srv.URL+"/slow.mp4")
	require.ErrorIs(t, err, context.Canceled)
}

type stubS3 struct {
	objectstore.API
	body string
	rng  string
}

func (s *stubS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	s.rng = aws.StringValue(in.Range)
	if aws.StringValue(in.Key) != "feed/a.mp4" {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func TestS3Warmer(t *testing.T) {
	api := &stubS3{body: "0123456789"}
	w := &S3Warmer{API: api, Bytes: 4, Dir: t.TempDir()}

	res, err := w.Warm(context.Background(), "s3://clips/feed/a.mp4")
	require.NoError(t, err)
	require.Equal(t, "bytes=0-3", api.rng)

	data, err := os.ReadFile(res.(*File).Path)
	require.NoError(t, err)
	require.Equal(t, "0123", string(data))
	require.NoError(t, res.Release())

	_, err = w.Warm(context.Background(), "https://clips/feed/a.mp4")
	require.Error(t, err)
}

func TestRouter(t *testing.T) {
	api := &stubS3{body: "abc"}
	r := Router{"s3": &S3Warmer{API: api, Dir: t.TempDir()}}

	res, err := r.Warm(context.Background(), "s3://clips/feed/a.mp4")
	require.NoError(t, err)
	require.NoError(t, res.Release())

	res, err = r.Warm(context.Background(), "/var/media/a.mp4")
	require.NoError(t, err)
	require.NoError(t, res.Release())

	_, err = r.Warm(context.Background(), "ftp://host/a.mp4")
	require.ErrorIs(t, err, ErrUnsupported)
}
