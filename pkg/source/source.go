// Package source loads the ordered list of feed videos.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/sharedTypes"
)

// Source returns every video in feed order.
type Source interface {
	FetchAll(ctx context.Context) ([]sharedTypes.VideoRecord, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) ([]sharedTypes.VideoRecord, error)

func (f Func) FetchAll(ctx context.Context) ([]sharedTypes.VideoRecord, error) { return f(ctx) }

// Static serves a fixed list.
type Static []sharedTypes.VideoRecord

func (s Static) FetchAll(context.Context) ([]sharedTypes.VideoRecord, error) {
	out := make([]sharedTypes.VideoRecord, len(s))
	copy(out, s)
	return out, nil
}

// Retry retries a failing source with exponential backoff until MaxElapsed
// has passed.
type Retry struct {
	Source          Source
	MaxElapsed      time.Duration
	InitialInterval time.Duration
	Log             logrus.FieldLogger
}

// WithRetry wraps src with the default retry policy.
func WithRetry(src Source, maxElapsed time.Duration, log logrus.FieldLogger) *Retry {
	return &Retry{Source: src, MaxElapsed: maxElapsed, Log: log}
}

func (r *Retry) FetchAll(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
	b := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		b.InitialInterval = r.InitialInterval
	}
	b.MaxElapsedTime = r.MaxElapsed
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var videos []sharedTypes.VideoRecord
	op := func() error {
		v, err := r.Source.FetchAll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		videos = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait).Warn("video fetch failed")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("fetch videos: %w", err)
	}
	return videos, nil
}

// FetchOrEmpty never fails: an error or an empty result is logged and
// yields an empty feed.
func FetchOrEmpty(ctx context.Context, src Source, log logrus.FieldLogger) []sharedTypes.VideoRecord {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if src == nil {
		log.Warn("no video source configured")
		return []sharedTypes.VideoRecord{}
	}
	videos, err := src.FetchAll(ctx)
	if err != nil {
		log.WithError(err).Warn("showing an empty feed")
		return []sharedTypes.VideoRecord{}
	}
	if len(videos) == 0 {
		log.Warn("video source returned no videos")
		return []sharedTypes.VideoRecord{}
	}
	log.WithField("count", len(videos)).Info("videos loaded")
	return videos
}
