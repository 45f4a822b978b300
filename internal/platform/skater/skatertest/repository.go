// Package skatertest provides an in-memory skater.Repository for tests.
package skatertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"skatepark/internal/database"
	"skatepark/internal/platform/skater"
)

var _ skater.Repository = (*Repository)(nil)

// Repository keeps skaters in maps. WithTx serialises transactions and
// restores a snapshot when fn fails, so rollbacks behave like the database.
type Repository struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID  uint
	skaters map[uint]database.Skater
	admins  map[uint]bool

	// CommitErr, when set, is returned by WithTx after fn succeeded and the
	// changes are rolled back, as if the commit failed.
	CommitErr error
	// Err, when set, fails every query with it.
	Err error
}

func NewRepository() *Repository {
	return &Repository{
		skaters: make(map[uint]database.Skater),
		admins:  make(map[uint]bool),
	}
}

type snapshot struct {
	nextID  uint
	skaters map[uint]database.Skater
	admins  map[uint]bool
}

func (r *Repository) snapshot() snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := snapshot{
		nextID:  r.nextID,
		skaters: make(map[uint]database.Skater, len(r.skaters)),
		admins:  make(map[uint]bool, len(r.admins)),
	}
	for id, s := range r.skaters {
		snap.skaters[id] = s
	}
	for id, a := range r.admins {
		snap.admins[id] = a
	}
	return snap
}

func (r *Repository) restore(snap snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID = snap.nextID
	r.skaters = snap.skaters
	r.admins = snap.admins
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx skater.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	snap := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snap)
		return err
	}
	if r.CommitErr != nil {
		r.restore(snap)
		return r.CommitErr
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, s *database.Skater) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.skaters {
		if existing.Email == s.Email {
			return skater.ErrEmailTaken
		}
	}

	r.nextID++
	now := time.Now()
	s.ID = r.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	r.skaters[s.ID] = *s
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*database.Skater, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.skaters[id]
	if !ok {
		return nil, skater.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) LockByID(ctx context.Context, id uint) (*database.Skater, error) {
	return r.FindByID(ctx, id)
}

func (r *Repository) FindCredentials(ctx context.Context, email string) (*skater.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for id, s := range r.skaters {
		if s.Email == email {
			return &skater.Credentials{Skater: s, Admin: r.admins[id]}, nil
		}
	}
	return nil, skater.ErrNotFound
}

func (r *Repository) Save(ctx context.Context, s *database.Skater) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	current, ok := r.skaters[s.ID]
	if !ok {
		return skater.ErrNotFound
	}
	for id, existing := range r.skaters {
		if id != s.ID && existing.Email == s.Email {
			return skater.ErrEmailTaken
		}
	}

	current.Email = s.Email
	current.Nombre = s.Nombre
	current.Password = s.Password
	current.AnosExperiencia = s.AnosExperiencia
	current.Especialidad = s.Especialidad
	current.UpdatedAt = time.Now()
	r.skaters[s.ID] = current
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.skaters[id]; !ok {
		return skater.ErrNotFound
	}
	delete(r.skaters, id)
	delete(r.admins, id)
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id uint, estado bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	s, ok := r.skaters[id]
	if !ok {
		return skater.ErrNotFound
	}
	s.Estado = estado
	r.skaters[id] = s
	return nil
}

func (r *Repository) List(ctx context.Context) ([]database.Skater, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	skaters := make([]database.Skater, 0, len(r.skaters))
	for _, s := range r.skaters {
		s.Password = ""
		skaters = append(skaters, s)
	}
	sort.Slice(skaters, func(i, j int) bool { return skaters[i].ID < skaters[j].ID })
	return skaters, nil
}

func (r *Repository) IsAdmin(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return false, r.Err
	}
	return r.admins[id], nil
}

func (r *Repository) SetAdmin(ctx context.Context, email string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for id, s := range r.skaters {
		if s.Email == email {
			r.admins[id] = active
			return nil
		}
	}
	return skater.ErrNotFound
}

// Len returns the number of stored skaters.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.skaters)
}
