// Package users stores registered authors.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the user name is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
