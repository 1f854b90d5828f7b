package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/mind-engage/eduquiz/internal/storage"
)

// Store slots. Kept apart from any quiz session slot.
const (
	CoursesKey   = "rtk_courses_cache"
	TimestampKey = "rtk_courses_timestamp"
)

// DefaultTimeout is the network budget for one remote read.
const DefaultTimeout = 10 * time.Second

type Provenance string

const (
	Fresh Provenance = "fresh"
	Stale Provenance = "stale"
)

// Entry is the last successful fetch as persisted.
type Entry struct {
	Courses  []Course
	StoredAt time.Time
}

// Result is what Fetch hands to callers.
type Result struct {
	Courses    []Course
	Provenance Provenance
	// FetchedAt is when the returned courses were fetched; zero when there are none.
	FetchedAt time.Time
	// Diagnostic carries the swallowed fetch failure when stale data was served.
	Diagnostic error
}

func (r Result) clone() Result {
	out := r
	out.Courses = append([]Course{}, r.Courses...)
	return out
}

type Option func(*Cache)

func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

func WithLogger(l logrus.FieldLogger) Option { return func(c *Cache) { c.log = l } }

// Cache fronts a Source with a persisted last-known-good snapshot.
// It is safe for concurrent use; concurrent Fetch calls share one remote read.
type Cache struct {
	store   storage.KV
	source  Source
	timeout time.Duration
	now     func() time.Time
	log     logrus.FieldLogger

	group singleflight.Group
}

func NewCache(store storage.KV, source Source, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		source:  source,
		timeout: DefaultTimeout,
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type outcome struct {
	result Result
	err    error
}

// Fetch reads the remote feed, falling back to the persisted entry on failure.
//
// The shared remote read is not tied to ctx: a caller that gives up early gets
// ctx.Err() while the read finishes for everyone else.
func (c *Cache) Fetch(ctx context.Context) (Result, error) {
	ch := c.group.DoChan("courses", func() (interface{}, error) {
		res, err := c.fetchOnce()
		return outcome{result: res, err: err}, nil
	})
	select {
	case <-ctx.Done():
		return Result{Courses: []Course{}, Provenance: Stale}, ctx.Err()
	case r := <-ch:
		o := r.Val.(outcome)
		return o.result.clone(), o.err
	}
}

func (c *Cache) fetchOnce() (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	courses, fetchErr := c.source.Fetch(ctx)
	cancel()
	if errors.Is(fetchErr, context.DeadlineExceeded) && !errors.Is(fetchErr, ErrNetworkFailure) {
		fetchErr = fmt.Errorf("%w: timed out after %s: %w", ErrNetworkFailure, c.timeout, fetchErr)
	}

	var entry *Entry
	if fetchErr != nil {
		entry = c.loadEntry(context.Background())
	}
	return c.decide(courses, fetchErr, entry)
}

// decide is the whole fallback policy:
//
//	fetch ok                 -> persist, Fresh
//	fetch failed, entry      -> entry, Stale, failure as Diagnostic
//	fetch failed, no entry   -> empty, Stale, ErrNoCachedData
func (c *Cache) decide(courses []Course, fetchErr error, entry *Entry) (Result, error) {
	switch {
	case fetchErr == nil:
		// persisted at millisecond precision; report the same instant
		now := time.UnixMilli(c.now().UnixMilli())
		if err := c.persist(courses, now); err != nil {
			c.log.WithError(err).Error("persist courses failed")
		}
		c.log.WithFields(logrus.Fields{"provenance": Fresh, "courses": len(courses)}).Info("courses fetched")
		return Result{Courses: courses, Provenance: Fresh, FetchedAt: now}, nil

	case entry != nil:
		c.log.WithError(fetchErr).WithFields(logrus.Fields{
			"provenance": Stale,
			"courses":    len(entry.Courses),
			"stored_at":  entry.StoredAt,
		}).Warn("courses fetch failed, serving cached copy")
		return Result{
			Courses:    entry.Courses,
			Provenance: Stale,
			FetchedAt:  entry.StoredAt,
			Diagnostic: fetchErr,
		}, nil

	default:
		c.log.WithError(fetchErr).Error("courses fetch failed with nothing cached")
		return Result{Courses: []Course{}, Provenance: Stale}, fmt.Errorf("%w: %w", ErrNoCachedData, fetchErr)
	}
}

func (c *Cache) persist(courses []Course, at time.Time) error {
	buf, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.store.PutMany(context.Background(), map[string][]byte{
		CoursesKey:   buf,
		TimestampKey: []byte(strconv.FormatInt(at.UnixMilli(), 10)),
	})
}

// loadEntry returns nil when nothing usable is persisted.
func (c *Cache) loadEntry(ctx context.Context) *Entry {
	raw, err := c.store.Get(ctx, CoursesKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.WithError(err).Error("read cached courses failed")
		}
		return nil
	}
	at, ok, err := c.LastFetchedAt(ctx)
	if err != nil || !ok {
		c.log.WithError(err).Warn("cached courses have no usable timestamp, ignoring")
		return nil
	}
	var courses []Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.WithError(err).Warn("cached courses are corrupt, ignoring")
		return nil
	}
	if courses == nil {
		courses = []Course{}
	}
	return &Entry{Courses: courses, StoredAt: at}
}

// LastFetchedAt reads the persisted timestamp without touching the network.
func (c *Cache) LastFetchedAt(ctx context.Context) (time.Time, bool, error) {
	raw, err := c.store.Get(ctx, TimestampKey)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse cache timestamp: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}

// Invalidate drops the persisted entry and its timestamp together.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.store.DeleteMany(ctx, CoursesKey, TimestampKey); err != nil {
		return err
	}
	c.log.Info("courses cache invalidated")
	return nil
}
