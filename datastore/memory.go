package datastore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/coreybb/userdir/models"
)

// MemoryUserStore is the reference UserStore: a mutex-guarded map with a
// monotonic id counter. It backs the "memory" driver and the handler
// tests.
type MemoryUserStore struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]models.User
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]models.User)}
}

func (s *MemoryUserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	// Insertion order and id order coincide.
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryUserStore) Find(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) ExistsEmail(ctx context.Context, email string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailTakenLocked(email, exceptID), nil
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(user.Email, 0) {
		return ErrDuplicateEmail
	}

	s.seq++
	now := time.Now().UTC()
	user.ID = s.seq
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Update(ctx context.Context, id int64, changes UserChanges) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if changes.Email != nil && s.emailTakenLocked(*changes.Email, id) {
		return nil, ErrDuplicateEmail
	}

	if changes.FirstName != nil {
		u.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		u.LastName = *changes.LastName
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	// The id counter is never rewound, so deleted ids are never reused.
	delete(s.users, id)
	return true, nil
}

func (s *MemoryUserStore) emailTakenLocked(email string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
