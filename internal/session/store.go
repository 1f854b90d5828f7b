package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mind-engage/eduquiz/internal/quiz"
	"github.com/mind-engage/eduquiz/internal/storage"
)

const keyPrefix = "quiz_session/"

// ErrNotFound is returned for a session id that was never created or was deleted.
var ErrNotFound = errors.New("session: not found")

// Store persists controller snapshots in their own slots of a storage.KV.
type Store struct {
	kv storage.KV
}

func NewStore(kv storage.KV) *Store { return &Store{kv: kv} }

func (s *Store) Save(ctx context.Context, id string, c *Controller) error {
	buf, err := json.Marshal(c.Snapshot())
	if err != nil {
		return err
	}
	return s.kv.PutMany(ctx, map[string][]byte{keyPrefix + id: buf})
}

func (s *Store) Load(ctx context.Context, id string, questions []quiz.Question) (*Controller, error) {
	raw, err := s.kv.Get(ctx, keyPrefix+id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap quiz.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	m, err := quiz.Restore(questions, snap)
	if err != nil {
		return nil, err
	}
	return fromMachine(m), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.DeleteMany(ctx, keyPrefix+id)
}
