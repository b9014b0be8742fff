package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]models.RefreshToken), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return common.ErrorAlreadyExists
	}
	r.tokens[token] = models.RefreshToken{UserID: userID, Token: token, Expires: r.now().Add(validity)}
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
