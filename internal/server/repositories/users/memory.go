package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository indexes users by id and by user name.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]models.User
	byName map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]models.User),
		byName: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	r.byID[user.ID] = *user
	r.byName[user.UserName] = user.ID
	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
