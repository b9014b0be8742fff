// Package posts declares the post store contract and its two
// implementations: an in-memory store and a PostgreSQL table.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository is the authoritative set of posts.
//
// Implementations return common.ErrorNotFound for unknown ids. Ids are
// assigned on Create, strictly increase, and are never handed out twice,
// even after the post holding them is deleted.
type Repository interface {
	// List returns every post in id (insertion) order.
	List(ctx context.Context) ([]*models.Post, error)

	Get(ctx context.Context, id int64) (*models.Post, error)

	// Create stores post, ignoring any ID/CreatedAt it carries, and returns
	// the stored record with both assigned.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)

	// Update applies patch to the post and returns the result. ID, Author and
	// CreatedAt never change.
	Update(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error)

	Delete(ctx context.Context, id int64) error
}
