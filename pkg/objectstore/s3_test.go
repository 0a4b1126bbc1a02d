package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	API
	objects map[string]string
	pages   [][]string
	ranges  []string
	err     error
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ranges = append(f.ranges, aws.StringValue(in.Range))
	body, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, _ *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	if f.err != nil {
		return f.err
	}
	for i, keys := range f.pages {
		page := &s3.ListObjectsV2Output{}
		for _, k := range keys {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		if !fn(page, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func TestParseURL(t *testing.T) {
	loc, err := ParseURL("s3://clips/feed/a.mp4")
	require.NoError(t, err)
	require.Equal(t, Location{Bucket: "clips", Key: "feed/a.mp4"}, loc)
	require.Equal(t, "s3://clips/feed/a.mp4", loc.String())

	for _, bad := range []string{"https://clips/a.mp4", "s3:///a.mp4", "s3://clips/", "%zz"} {
		_, err := ParseURL(bad)
		require.Error(t, err, bad)
	}
}

func TestReadRange(t *testing.T) {
	api := &fakeS3{objects: map[string]string{"clips/a.mp4": "data"}}

	rc, err := Read(context.Background(), api, Location{"clips", "a.mp4"}, 1024)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	require.Equal(t, "data", string(b))

	_, err = Read(context.Background(), api, Location{"clips", "a.mp4"}, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"bytes=0-1023", ""}, api.ranges)

	_, err = Read(context.Background(), api, Location{"clips", "missing"}, 0)
	require.Error(t, err)
}

func TestListKeysSkipsDirectories(t *testing.T) {
	api := &fakeS3{pages: [][]string{{"feed/", "feed/a.mp4"}, {"feed/b.mp4", "feed/sub/"}}}

	keys, err := ListKeys(context.Background(), api, "clips", "feed/")
	require.NoError(t, err)
	require.Equal(t, []string{"feed/a.mp4", "feed/b.mp4"}, keys)

	api.err = errors.New("denied")
	_, err = ListKeys(context.Background(), api, "clips", "feed/")
	require.ErrorContains(t, err, "denied")
}

func TestNewClientNeedsCredentials(t *testing.T) {
	_, err := NewClient(Credentials{Region: "us-east-1"})
	require.ErrorIs(t, err, ErrMissingCredentials)

	c, err := NewClient(Credentials{Region: "us-east-1", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	require.NotNil(t, c)
}
