package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps one process-local instance of each
// repository and returns it for any handle, including nil. Nothing survives
// a restart unless the posts are snapshotted.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	posts         *posts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		posts:         posts.NewMemoryRepository(),
	}
}

// RunMigrations is a no-op: there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *MemoryRepositoryManager) Posts(dbx.DBTX) posts.Repository {
	return m.posts
}

// MemoryPosts exposes the concrete store for snapshotting.
func (m *MemoryRepositoryManager) MemoryPosts() *posts.MemoryRepository {
	return m.posts
}
