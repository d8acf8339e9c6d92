package repository

import (
	"context"
	"encoding/json"
	"pod360_backend/internal/model"
	"pod360_backend/internal/session"
	"pod360_backend/internal/util"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
)

// ProgressStore persists per-token session progress so a respondent can
// resume after a reload. Two independent slots per token: idx_{T} holds the
// cursor as a decimal string, ans_{T} the answer map as JSON. Absent or
// unparseable slots read back as fresh progress, never as an error; slots
// are only ever removed by an explicit Clear on successful completion.
type ProgressStore interface {
	Get(ctx context.Context, token string) (session.Progress, error)
	Set(ctx context.Context, token string, p session.Progress) error
	Clear(ctx context.Context, token string) error
}

type RedisProgressStore struct {
	RDB *redis.Client
}

func NewRedisProgressStore(rdb *redis.Client) *RedisProgressStore {
	return &RedisProgressStore{RDB: rdb}
}

func indexKey(token string) string   { return util.ProgressIndexPrefix + token }
func answersKey(token string) string { return util.ProgressAnswersPrefix + token }

func (s *RedisProgressStore) Get(ctx context.Context, token string) (session.Progress, error) {
	p := session.Progress{Answers: make(map[string]model.Answer)}

	idxVal, err := s.RDB.Get(ctx, indexKey(token)).Result()
	if err != nil && err != redis.Nil {
		return p, err
	}
	if err == nil {
		if idx, convErr := strconv.Atoi(idxVal); convErr == nil && idx >= 0 {
			p.Index = idx
		}
	}

	ansVal, err := s.RDB.Get(ctx, answersKey(token)).Result()
	if err != nil && err != redis.Nil {
		return p, err
	}
	if err == nil {
		var answers map[string]model.Answer
		if jsonErr := json.Unmarshal([]byte(ansVal), &answers); jsonErr == nil && answers != nil {
			p.Answers = answers
		}
	}

	return p, nil
}

func (s *RedisProgressStore) Set(ctx context.Context, token string, p session.Progress) error {
	data, err := json.Marshal(p.Answers)
	if err != nil {
		return err
	}

	pipe := s.RDB.TxPipeline()
	pipe.Set(ctx, indexKey(token), strconv.Itoa(p.Index), 0)
	pipe.Set(ctx, answersKey(token), string(data), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisProgressStore) Clear(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, indexKey(token), answersKey(token)).Err()
}

// MemoryProgressStore backs tests and single-node development.
type MemoryProgressStore struct {
	mu    sync.RWMutex
	slots map[string]session.Progress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{slots: make(map[string]session.Progress)}
}

func (s *MemoryProgressStore) Get(ctx context.Context, token string) (session.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.slots[token]
	if !ok {
		return session.Progress{Answers: make(map[string]model.Answer)}, nil
	}

	answers := make(map[string]model.Answer, len(p.Answers))
	for id, a := range p.Answers {
		answers[id] = a
	}
	return session.Progress{Index: p.Index, Answers: answers}, nil
}

func (s *MemoryProgressStore) Set(ctx context.Context, token string, p session.Progress) error {
	answers := make(map[string]model.Answer, len(p.Answers))
	for id, a := range p.Answers {
		answers[id] = a
	}

	s.mu.Lock()
	s.slots[token] = session.Progress{Index: p.Index, Answers: answers}
	s.mu.Unlock()
	return nil
}

func (s *MemoryProgressStore) Clear(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.slots, token)
	s.mu.Unlock()
	return nil
}

// Has reports whether any slot exists for the token. Test helper.
func (s *MemoryProgressStore) Has(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.slots[token]
	return ok
}
