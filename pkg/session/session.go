// Package session remembers the feed position for the rest of the day.
package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/localstore"
	"zooo-feed/pkg/logging"
)

// Keys are namespaced so they never collide with other widgets that share
// the same local storage (for example the hunt counter's zooo_hunt_* keys).
const (
	IndexKey = "zooo_feed.active_index"
	DateKey  = "zooo_feed.saved_date"
)

// dayZone is the fixed offset that defines the day boundary. Using a fixed
// zone instead of the device's local one keeps every client on the same day.
var dayZone = time.FixedZone("UTC+9", 9*60*60)

const dateLayout = "2006-01-02"

// Store persists the active index together with the day it was saved on.
type Store struct {
	storage localstore.Storage
	clock   clockwork.Clock
	log     logrus.FieldLogger
}

// New creates a store over storage. A nil clock uses the real clock, a nil
// logger the standard one.
func New(storage localstore.Storage, clock clockwork.Clock, log logrus.FieldLogger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{storage: storage, clock: clock, log: logging.OrStandard(log)}
}

// Today returns the normalized calendar day.
func (s *Store) Today() string {
	return s.clock.Now().In(dayZone).Format(dateLayout)
}

// Restore returns the saved index when it was saved today, otherwise 0. It
// never fails: unreadable or corrupt values count as nothing saved.
func (s *Store) Restore() int {
	if s.storage == nil {
		return 0
	}

	date, err := s.storage.Get(DateKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.log.WithError(err).Warn("session: failed to read saved date")
		}
		return 0
	}
	if date != s.Today() {
		s.log.WithField("saved_date", date).Debug("session: saved position is stale")
		return 0
	}

	raw, err := s.storage.Get(IndexKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.log.WithError(err).Warn("session: failed to read saved index")
		}
		return 0
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		s.log.WithField("value", raw).Warn("session: ignoring corrupt saved index")
		return 0
	}
	return idx
}

// Save writes index and today's date in one write.
func (s *Store) Save(index int) {
	if s.storage == nil {
		return
	}
	err := s.storage.SetMany(map[string]string{
		IndexKey: strconv.Itoa(index),
		DateKey:  s.Today(),
	})
	if err != nil {
		s.log.WithError(err).WithField("index", index).Warn("session: failed to save position")
	}
}
