package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/sharedTypes"
)

// Refresher re-fetches the feed on a cron schedule and hands each
// successful, non-empty snapshot to the UI loop through Updates.
type Refresher struct {
	src     Source
	cron    *cron.Cron
	timeout time.Duration
	updates chan []sharedTypes.VideoRecord
	mu      sync.Mutex
	log     logrus.FieldLogger
}

// NewRefresher schedules src with a standard cron spec or descriptor such
// as "@every 10m".
func NewRefresher(src Source, spec string, log logrus.FieldLogger) (*Refresher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Refresher{
		src:     src,
		cron:    cron.New(),
		timeout: time.Minute,
		updates: make(chan []sharedTypes.VideoRecord, 1),
		log:     log.WithField("component", "refresher"),
	}
	if _, err := r.cron.AddFunc(spec, func() { r.Refresh(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to add refresh job: %w", err)
	}
	return r, nil
}

// Updates delivers fresh snapshots. Only the newest undelivered one is kept.
func (r *Refresher) Updates() <-chan []sharedTypes.VideoRecord { return r.updates }

// Start starts the schedule.
func (r *Refresher) Start() {
	r.log.Info("Starting feed refresh")
	r.cron.Start()
}

// Stop stops the schedule and waits for a running refresh.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// Refresh fetches once and publishes the result.
func (r *Refresher) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	videos, err := r.src.FetchAll(ctx)
	if err != nil {
		r.log.WithError(err).Warn("refresh failed")
		return
	}
	if len(videos) == 0 {
		r.log.Warn("refresh returned no videos, keeping current feed")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.updates:
	default:
	}
	r.updates <- videos
	r.log.WithField("count", len(videos)).Debug("feed refreshed")
}
