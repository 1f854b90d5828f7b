package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/eduquiz/internal/grading"
	"github.com/mind-engage/eduquiz/internal/quiz"
	syncx "github.com/mind-engage/eduquiz/internal/sync"
)

// EventTypeCompleted is appended to the event log once per completed attempt.
const EventTypeCompleted = "QuizCompleted"

type EventAppender interface {
	Append(ctx context.Context, e syncx.Event) error
}

type RegistryOption func(*Registry)

// WithStore persists every session after each change and reloads unknown ids from it.
func WithStore(s *Store) RegistryOption { return func(r *Registry) { r.store = s } }

func WithEvents(e EventAppender) RegistryOption { return func(r *Registry) { r.events = e } }

func WithLogger(l logrus.FieldLogger) RegistryOption { return func(r *Registry) { r.log = l } }

// Registry holds the live sessions behind the HTTP surface. Calls for one
// session id are serialised; different sessions proceed independently.
type Registry struct {
	questions []quiz.Question
	store     *Store
	events    EventAppender
	log       logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*slot
}

type slot struct {
	mu sync.Mutex
	c  *Controller
}

func NewRegistry(questions []quiz.Question, opts ...RegistryOption) (*Registry, error) {
	if err := quiz.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	r := &Registry{
		questions: questions,
		log:       logrus.StandardLogger(),
		sessions:  map[string]*slot{},
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *Registry) Create(ctx context.Context) (string, View, error) {
	c, err := NewController(r.questions)
	if err != nil {
		return "", View{}, err
	}
	id := uuid.NewString()
	if r.store != nil {
		if err := r.store.Save(ctx, id, c); err != nil {
			return "", View{}, err
		}
	}
	r.mu.Lock()
	r.sessions[id] = &slot{c: c}
	r.mu.Unlock()

	r.log.WithField("session_id", id).Info("quiz session created")
	return id, c.View(), nil
}

func (r *Registry) lookup(ctx context.Context, id string) (*slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	if r.store == nil {
		return nil, ErrNotFound
	}
	c, err := r.store.Load(ctx, id, r.questions)
	if err != nil {
		return nil, err
	}
	s := &slot{c: c}
	r.sessions[id] = s
	return s, nil
}

// with runs fn under the session lock and persists the result when mutate is set.
// A failed save rolls the live session back to its state before fn.
func (r *Registry) with(ctx context.Context, id string, mutate bool, fn func(c *Controller) error) error {
	s, err := r.lookup(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	persist := mutate && r.store != nil
	var before quiz.Snapshot
	if persist {
		before = s.c.Snapshot()
	}
	if err := fn(s.c); err != nil {
		return err
	}
	if !persist {
		return nil
	}
	if err := r.store.Save(ctx, id, s.c); err != nil {
		log := r.log.WithError(err).WithField("session_id", id)
		log.Error("persist quiz session failed")
		m, rerr := quiz.Restore(r.questions, before)
		if rerr != nil {
			log.WithField("restore_error", rerr).Error("roll back quiz session failed")
			return err
		}
		s.c = fromMachine(m)
		return err
	}
	return nil
}

func (r *Registry) View(ctx context.Context, id string) (View, error) {
	var v View
	err := r.with(ctx, id, false, func(c *Controller) error {
		v = c.View()
		return nil
	})
	return v, err
}

func (r *Registry) SelectAnswer(ctx context.Context, id string, questionID int, answer string) (View, error) {
	var v View
	err := r.with(ctx, id, true, func(c *Controller) error {
		if err := c.SelectAnswer(questionID, answer); err != nil {
			return err
		}
		v = c.View()
		return nil
	})
	return v, err
}

func (r *Registry) Advance(ctx context.Context, id string) (View, error) {
	var v View
	err := r.with(ctx, id, true, func(c *Controller) error {
		if err := c.Advance(); err != nil {
			return err
		}
		v = c.View()
		return nil
	})
	return v, err
}

func (r *Registry) Retreat(ctx context.Context, id string) (View, error) {
	var v View
	err := r.with(ctx, id, true, func(c *Controller) error {
		if err := c.Retreat(); err != nil {
			return err
		}
		v = c.View()
		return nil
	})
	return v, err
}

func (r *Registry) Reset(ctx context.Context, id string) (View, error) {
	var v View
	err := r.with(ctx, id, true, func(c *Controller) error {
		c.Reset()
		v = c.View()
		return nil
	})
	return v, err
}

// Submit completes the session; repeated calls return the same result.
// The completion is recorded once, after it has been persisted.
func (r *Registry) Submit(ctx context.Context, id string) (Result, error) {
	var (
		res       Result
		completed bool
	)
	err := r.with(ctx, id, true, func(c *Controller) error {
		_, already := c.Result()
		var err error
		if res, err = c.Submit(); err != nil {
			return err
		}
		completed = !already
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if completed {
		r.recordCompletion(ctx, id, res)
	}
	return res, nil
}

func (r *Registry) Review(ctx context.Context, id string) (grading.Report, bool, error) {
	var (
		rep grading.Report
		ok  bool
	)
	err := r.with(ctx, id, false, func(c *Controller) error {
		rep, ok = c.Review()
		return nil
	})
	return rep, ok, err
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	if r.store != nil {
		return r.store.Delete(ctx, id)
	}
	return nil
}

func (r *Registry) recordCompletion(ctx context.Context, id string, res Result) {
	log := r.log.WithFields(logrus.Fields{"session_id": id, "score": res.Score, "total": res.Total})
	log.Info("quiz session completed")
	if r.events == nil {
		return
	}
	buf, err := json.Marshal(res)
	if err != nil {
		log.WithError(err).Error("encode completion event failed")
		return
	}
	if err := r.events.Append(ctx, syncx.Event{Type: EventTypeCompleted, Key: id, DataJSON: string(buf)}); err != nil {
		log.WithError(err).Error("append completion event failed")
	}
}
