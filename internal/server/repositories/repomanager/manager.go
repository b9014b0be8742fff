// Package repomanager hands out repositories bound to a database handle or
// transaction, so services can run several repositories in one unit of work.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Posts(db dbx.DBTX) posts.Repository
}
