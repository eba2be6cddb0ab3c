package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// AccountStore persists sign-in credentials. accountstore.Store is the
// Mongo implementation; MemoryAccounts serves local mode.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByProvider(ctx context.Context, provider, subject string) (*models.Account, error)
	Create(ctx context.Context, a models.Account) (models.Account, error)
}

// MemoryAccounts is an in-process AccountStore.
type MemoryAccounts struct {
	mu   sync.RWMutex
	byID map[string]models.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{byID: make(map[string]models.Account)}
}

func (m *MemoryAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	key := text.Fold(strings.TrimSpace(email))
	if key == "" {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.byID {
		if a.EmailCI == key {
			out := a.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryAccounts) GetByProvider(_ context.Context, provider, subject string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.byID {
		if a.Provider == provider && a.ProviderSubject == subject {
			out := a.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryAccounts) Create(_ context.Context, a models.Account) (models.Account, error) {
	if a.Email != "" {
		a.EmailCI = text.Fold(strings.TrimSpace(a.Email))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byID[a.ID]; taken {
		return models.Account{}, apperr.ErrDuplicate
	}
	if a.EmailCI != "" {
		for _, other := range m.byID {
			if other.EmailCI == a.EmailCI {
				return models.Account{}, apperr.ErrDuplicate
			}
		}
	}
	m.byID[a.ID] = a
	return a, nil
}
