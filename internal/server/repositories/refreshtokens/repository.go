// Package refreshtokens stores the opaque refresh tokens handed out at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
