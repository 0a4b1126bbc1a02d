// Package objectstore wraps the S3 calls the feed needs: reading manifest
// objects, listing a prefix of clips, ranged reads for warming.
package objectstore

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrMissingCredentials is returned when the AWS environment is incomplete.
var ErrMissingCredentials = errors.New("missing one or more required settings: AWS_DEFAULT_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY")

// Credentials are the static AWS settings read from the environment.
type Credentials struct {
	Region    string
	AccessKey string
	SecretKey string
}

// API is the subset of the S3 client in use.
type API interface {
	GetObjectWithContext(aws.Context, *s3.GetObjectInput, ...request.Option) (*s3.GetObjectOutput, error)
	ListObjectsV2PagesWithContext(aws.Context, *s3.ListObjectsV2Input, func(*s3.ListObjectsV2Output, bool) bool, ...request.Option) error
	GetObjectRequest(*s3.GetObjectInput) (*request.Request, *s3.GetObjectOutput)
}

// NewClient builds an S3 client from static credentials.
func NewClient(c Credentials) (*s3.S3, error) {
	if c.Region == "" || c.AccessKey == "" || c.SecretKey == "" {
		return nil, ErrMissingCredentials
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(c.Region),
		Credentials: credentials.NewStaticCredentials(c.AccessKey, c.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return s3.New(sess), nil
}

// Location is a bucket and key pair.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string { return "s3://" + l.Bucket + "/" + l.Key }

// ParseURL splits an s3://bucket/key URL.
func ParseURL(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Location{}, fmt.Errorf("not an s3 url: %q", raw)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return Location{}, fmt.Errorf("s3 url without key: %q", raw)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// Read returns the object body. A positive limit reads only the first limit
// bytes through a Range request.
func Read(ctx aws.Context, api API, loc Location, limit int64) (io.ReadCloser, error) {
	in := &s3.GetObjectInput{Bucket: aws.String(loc.Bucket), Key: aws.String(loc.Key)}
	if limit > 0 {
		in.Range = aws.String(fmt.Sprintf("bytes=0-%d", limit-1))
	}
	out, err := api.GetObjectWithContext(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	return out.Body, nil
}

// ListKeys lists the non-directory keys under prefix in listing order.
func ListKeys(ctx aws.Context, api API, bucket, prefix string) ([]string, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	var keys []string
	err := api.ListObjectsV2PagesWithContext(ctx, in, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			keys = append(keys, *obj.Key)
		}
		return !lastPage
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
	}
	return keys, nil
}

// Presign returns an HTTPS URL the native player can open directly.
func Presign(api API, loc Location, ttl time.Duration) (string, error) {
	req, _ := api.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	u, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", loc, err)
	}
	return u, nil
}
