package client

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
)

// AuthResult is what login and registration return.
type AuthResult struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// Client is the blog API contract used by the session holder and the view
// controller.
type Client interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, title, content string) (models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error

	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)

	Ping(ctx context.Context) error
}
