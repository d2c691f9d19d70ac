package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/accounts/core"
)

// Store is an in-memory UserStorage. Records are copied in and out so callers
// never share memory with the store.
type Store struct {
	users   map[string]*core.User // by id
	byEmail map[string]string     // email -> id
	mu      sync.RWMutex
	failErr error

	// counters
	reads  int64
	writes int64
}

var _ core.UserStorage = (*Store)(nil)

// Stats reports how many read and write calls reached the store.
type Stats struct {
	Reads  int64
	Writes int64
}

func New() *Store {
	return &Store{
		users:   make(map[string]*core.User),
		byEmail: make(map[string]string),
	}
}

// SetError makes every subsequent call fail with err, simulating an
// unreachable store. A nil err restores normal operation.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) Stats() Stats {
	return Stats{
		Reads:  atomic.LoadInt64(&s.reads),
		Writes: atomic.LoadInt64(&s.writes),
	}
}

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	atomic.AddInt64(&s.writes, 1)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	if _, taken := s.byEmail[u.Email]; taken {
		return core.ErrUserExists
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = clone(u)
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	atomic.AddInt64(&s.reads, 1)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return clone(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	atomic.AddInt64(&s.reads, 1)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}
	id, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return clone(s.users[id]), nil
}

func (s *Store) ListUsers(_ context.Context) ([]*core.User, error) {
	atomic.AddInt64(&s.reads, 1)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}
	out := make([]*core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, clone(u))
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, u *core.User) error {
	atomic.AddInt64(&s.writes, 1)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	existing, ok := s.users[u.ID]
	if !ok {
		return core.ErrUserNotFound
	}
	if owner, taken := s.byEmail[u.Email]; taken && owner != u.ID {
		return core.ErrUserExists
	}

	delete(s.byEmail, existing.Email)
	existing.Name = u.Name
	existing.Email = u.Email
	existing.UpdatedAt = time.Now().UTC()
	s.byEmail[existing.Email] = existing.ID

	u.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, u *core.User) error {
	atomic.AddInt64(&s.writes, 1)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	existing, ok := s.users[u.ID]
	if !ok {
		return core.ErrUserNotFound
	}

	existing.PasswordHash = u.PasswordHash
	existing.UpdatedAt = time.Now().UTC()

	u.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	atomic.AddInt64(&s.writes, 1)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.users, id)
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failErr
}

func clone(u *core.User) *core.User {
	c := *u
	return &c
}
