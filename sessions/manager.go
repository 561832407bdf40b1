package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"landcheck/wizard"
)

// Manager loads a wizard, hands it to the caller and writes it back.
// Calls for the same session id run one at a time within this process.
type Manager struct {
	store     Store
	submitter wizard.Submitter
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, submitter wizard.Submitter) *Manager {
	return &Manager{
		store:     store,
		submitter: submitter,
		now:       time.Now,
		locks:     map[string]*keyLock{},
	}
}

// Create starts a new wizard on step 1 and returns its session id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	now := m.now().UTC()
	s := &Snapshot{
		ID:        uuid.NewString(),
		Wizard:    wizard.New(m.submitter).Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", err
	}
	return s.ID, nil
}

// With runs fn against the session's wizard and saves the result, also when
// fn fails, so touched fields and submission errors survive the request.
// fn's error is returned unchanged.
func (m *Manager) With(ctx context.Context, id string, fn func(*wizard.Wizard) error) error {
	unlock := m.lock(id)
	defer unlock()

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return err
	}
	w, err := wizard.Restore(snap.Wizard, m.submitter)
	if err != nil {
		return fmt.Errorf("restore session %s: %w", id, err)
	}

	fnErr := fn(w)

	snap.Wizard = w.Snapshot()
	snap.UpdatedAt = m.now().UTC()
	if err := m.store.Save(ctx, snap); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &keyLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
