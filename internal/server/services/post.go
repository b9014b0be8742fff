package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// PostService validates post input and forwards it to the post store.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewPostService wires the service to a repository manager. db may be nil
// when the manager is in-memory.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.repomanager.Posts(s.db).List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.repomanager.Posts(s.db).Get(ctx, id)
}

// Create stores a new post. Title and content are trimmed and must be
// non-empty; otherwise common.ErrorValidation is returned and the store is
// not touched. An empty author becomes common.AnonymousAuthor.
func (s *PostService) Create(ctx context.Context, title, content, author string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}

	author = strings.TrimSpace(author)
	if author == "" {
		author = common.AnonymousAuthor
	}

	return s.repomanager.Posts(s.db).Create(ctx, &models.Post{Title: title, Content: content, Author: author})
}

// Update changes the supplied fields of post id. A nil field, or one that is
// blank after trimming, keeps the stored value.
func (s *PostService) Update(ctx context.Context, id int64, title, content *string) (*models.Post, error) {
	patch := models.PostPatch{Title: normalize(title), Content: normalize(content)}
	return s.repomanager.Posts(s.db).Update(ctx, id, patch)
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Posts(s.db).Delete(ctx, id)
}

func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
