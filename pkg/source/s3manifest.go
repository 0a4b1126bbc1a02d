package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"zooo-feed/pkg/objectstore"
	"zooo-feed/pkg/sharedTypes"
)

// S3Manifest reads the feed from S3. A Key ending in "/" is treated as a
// prefix and every media object under it becomes a video; any other key
// names a JSON manifest.
type S3Manifest struct {
	API    objectstore.API
	Bucket string
	Key    string
}

func (m *S3Manifest) FetchAll(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
	if m.Key == "" || strings.HasSuffix(m.Key, "/") {
		return m.fromPrefix(ctx)
	}
	body, err := objectstore.Read(ctx, m.API, objectstore.Location{Bucket: m.Bucket, Key: m.Key}, 0)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return parseManifest(data, m.Bucket)
}

func (m *S3Manifest) fromPrefix(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
	keys, err := objectstore.ListKeys(ctx, m.API, m.Bucket, m.Key)
	if err != nil {
		return nil, err
	}
	videos := make([]sharedTypes.VideoRecord, 0, len(keys))
	for _, key := range keys {
		loc := objectstore.Location{Bucket: m.Bucket, Key: key}
		if !sharedTypes.IsDirectMediaURL(loc.String()) {
			continue
		}
		base := path.Base(key)
		videos = append(videos, sharedTypes.VideoRecord{
			ID:       key,
			Title:    strings.TrimSuffix(base, path.Ext(base)),
			VideoURL: loc.String(),
		})
	}
	return videos, nil
}

// parseManifest accepts either a bare array of videos or {"videos": [...]}.
// Relative video URLs are resolved against bucket when one is given.
func parseManifest(data []byte, bucket string) ([]sharedTypes.VideoRecord, error) {
	data = bytes.TrimSpace(data)
	var videos []sharedTypes.VideoRecord
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &videos); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
	} else {
		var doc struct {
			Videos []sharedTypes.VideoRecord `json:"videos"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		videos = doc.Videos
	}

	out := videos[:0]
	for _, v := range videos {
		if v.VideoURL == "" {
			continue
		}
		if bucket != "" && !strings.Contains(v.VideoURL, "://") && !strings.HasPrefix(v.VideoURL, "/") {
			v.VideoURL = objectstore.Location{Bucket: bucket, Key: v.VideoURL}.String()
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadFile reads a manifest from a local JSON file.
func LoadFile(name string) (Static, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	videos, err := parseManifest(data, "")
	if err != nil {
		return nil, err
	}
	return Static(videos), nil
}
