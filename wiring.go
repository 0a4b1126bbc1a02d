package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/config"
	"zooo-feed/pkg/localstore"
	"zooo-feed/pkg/media"
	"zooo-feed/pkg/mpeg"
	"zooo-feed/pkg/objectstore"
	"zooo-feed/pkg/performance"
	"zooo-feed/pkg/prefetch"
	"zooo-feed/pkg/session"
	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/pkg/source"
	"zooo-feed/screens/feed"
)

// presignTTL is how long a presigned s3 URL handed to the player stays valid.
const presignTTL = time.Hour

var (
	_ media.NativePlayer = (*mpeg.Player)(nil)
	_ feed.Clip          = (*mpeg.Player)(nil)
)

// deps holds the long-lived collaborators of the shell.
type deps struct {
	cfg       *config.Config
	log       *logrus.Logger
	s3        objectstore.API
	src       source.Source
	store     *localstore.Store
	session   *session.Store
	prefetch  *prefetch.Scheduler
	refresher *source.Refresher
}

// newS3 returns an S3 client, or nil when no credentials are configured.
func newS3(cfg *config.Config, logger logrus.FieldLogger) (objectstore.API, error) {
	client, err := objectstore.NewClient(cfg.AWS)
	if errors.Is(err, objectstore.ErrMissingCredentials) {
		logger.Debug("no AWS credentials, s3:// videos are unavailable")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// buildSource creates the configured video source wrapped in retries.
func buildSource(cfg *config.Config, api objectstore.API, logger logrus.FieldLogger) (source.Source, error) {
	var src source.Source
	switch cfg.FeedSource {
	case config.SourcePostgres:
		url := cfg.DatabaseURL
		src = source.Func(func(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
			conn, err := source.Connect(ctx, url)
			if err != nil {
				return nil, err
			}
			defer conn.Close(context.Background())
			return (&source.Postgres{DB: conn}).FetchAll(ctx)
		})
	case config.SourceS3:
		if api == nil {
			return nil, fmt.Errorf("FEED_SOURCE=%s: %w", config.SourceS3, objectstore.ErrMissingCredentials)
		}
		src = &source.S3Manifest{API: api, Bucket: cfg.ManifestBucket, Key: cfg.ManifestKey}
	case config.SourceStatic:
		static, err := source.LoadFile(cfg.StaticFile)
		if err != nil {
			return nil, err
		}
		src = static
	default:
		return nil, fmt.Errorf("unknown FEED_SOURCE %q", cfg.FeedSource)
	}
	return source.WithRetry(src, cfg.FetchMaxElapsed, logger), nil
}

// openStore opens the local storage file.
func openStore(cfg *config.Config) (*localstore.Store, error) {
	store, err := localstore.Open(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	return store, nil
}

// wire builds everything the shell needs except the window.
func wire(cfg *config.Config, logger *logrus.Logger) (*deps, error) {
	d := &deps{cfg: cfg, log: logger}

	var err error
	if d.s3, err = newS3(cfg, logger); err != nil {
		return nil, err
	}
	if d.src, err = buildSource(cfg, d.s3, logger); err != nil {
		return nil, err
	}

	if d.store, err = openStore(cfg); err != nil {
		// the feed still works, it just starts from the top every run
		logger.WithError(err).Warn("local storage unavailable")
	} else {
		d.session = session.New(d.store, nil, logger)
	}

	router := prefetch.Router{}
	httpWarmer := &prefetch.HTTPWarmer{Client: &http.Client{Timeout: 30 * time.Second}, Bytes: cfg.PrefetchBytes, Dir: cfg.PrefetchDir}
	router["http"] = httpWarmer
	router["https"] = httpWarmer
	if d.s3 != nil {
		router["s3"] = &prefetch.S3Warmer{API: d.s3, Bytes: cfg.PrefetchBytes, Dir: cfg.PrefetchDir}
	}
	d.prefetch = prefetch.New(router, prefetch.Options{
		Delay:    cfg.PrefetchDelay,
		Hold:     cfg.PrefetchHold,
		Pressure: performance.GetMemoryPressure,
		Log:      logger,
	})

	if cfg.RefreshSchedule != "" {
		if d.refresher, err = source.NewRefresher(d.src, cfg.RefreshSchedule, logger); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// Start starts background refreshes.
func (d *deps) Start() {
	if d.refresher != nil {
		d.refresher.Start()
	}
}

// LoadFeed fetches the initial list; failures yield an empty feed.
func (d *deps) LoadFeed(ctx context.Context) []sharedTypes.VideoRecord {
	return source.FetchOrEmpty(ctx, d.src, d.log)
}

// NewFeedScreen builds the feed screen over videos.
func (d *deps) NewFeedScreen(videos []sharedTypes.VideoRecord, width, height int) *feed.FeedScreen {
	opts := feed.Options{
		Videos:   videos,
		Prefetch: d.prefetch,
		Open:     openClip,
		Resolve:  d.resolve,
		Width:    width,
		Height:   height,
		Log:      d.log,
	}
	if d.session != nil {
		opts.Session = d.session
	}
	if d.refresher != nil {
		opts.Updates = d.refresher.Updates()
	}
	return feed.NewFeedScreen(opts)
}

// resolve presigns s3:// URLs so the player can stream them over HTTPS.
func (d *deps) resolve(_ context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "s3://") {
		return url, nil
	}
	if d.s3 == nil {
		return "", fmt.Errorf("cannot open %s: %w", url, objectstore.ErrMissingCredentials)
	}
	loc, err := objectstore.ParseURL(url)
	if err != nil {
		return "", err
	}
	return objectstore.Presign(d.s3, loc, presignTTL)
}

func openClip(url string) (feed.Clip, error) {
	p, err := mpeg.Open(url)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Close stops background work and closes local storage.
func (d *deps) Close() {
	if d.refresher != nil {
		d.refresher.Stop()
	}
	if d.prefetch != nil {
		d.prefetch.Close()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.log.WithError(err).Warn("failed to close local storage")
		}
	}
}
