package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// PostgresRepository stores posts in the posts table. Ids come from a
// BIGSERIAL sequence, which never hands out the same value twice.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	query :=
		`SELECT id, title, content, author, created_at FROM posts
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p := &models.Post{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	query :=
		`SELECT id, title, content, author, created_at FROM posts
		 WHERE id = $1
		 `

	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (title, content, author)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	p := *post
	err := r.db.QueryRowContext(ctx, query, p.Title, p.Content, p.Author).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	query :=
		`UPDATE posts SET title = COALESCE($2, title), content = COALESCE($3, content)
		 WHERE id = $1
		 RETURNING id, title, content, author, created_at
		 `

	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Content).
		Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
