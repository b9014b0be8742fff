// Package services contains application services for the gophblog client.
// This file defines the session holder: the authenticated identity and its
// bearer token, kept in memory and mirrored to the local metadata store.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

// Keys under which the session is persisted.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// AuthAPI is the part of the blog API the session holder needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*client.AuthResult, error)
	Register(ctx context.Context, username, email, password string) (*client.AuthResult, error)
}

// SessionHolder owns the current session. It is safe for concurrent use.
//
// Lifecycle:
//   - Restore once at startup;
//   - Login or Register on successful authentication;
//   - Clear on logout.
type SessionHolder struct {
	api     AuthAPI
	db      *sql.DB
	newRepo func(dbx.DBTX) metadata.Repository
	logger  logging.Logger

	mu      sync.RWMutex
	session *models.Session
}

func NewSessionHolder(api AuthAPI, db *sql.DB, logger logging.Logger) *SessionHolder {
	return &SessionHolder{
		api: api,
		db:  db,
		newRepo: func(tx dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(tx)
		},
		logger: logger.With("module", "session"),
	}
}

// Login authenticates against the server and stores the resulting session.
// A failure to persist is logged; the in-memory session still stands.
func (h *SessionHolder) Login(ctx context.Context, username, password string) (models.Session, error) {
	res, err := h.api.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	return h.adopt(ctx, res), nil
}

// Register creates the account and signs in as it.
func (h *SessionHolder) Register(ctx context.Context, username, email, password string) (models.Session, error) {
	res, err := h.api.Register(ctx, username, email, password)
	if err != nil {
		return models.Session{}, err
	}
	return h.adopt(ctx, res), nil
}

func (h *SessionHolder) adopt(ctx context.Context, res *client.AuthResult) models.Session {
	s := models.Session{User: res.User, Token: res.Token}

	h.mu.Lock()
	h.session = &s
	h.mu.Unlock()

	if err := h.persist(ctx, s); err != nil {
		h.logger.Warn(ctx, "failed to persist session", "error", err)
	}
	return s
}

func (h *SessionHolder) persist(ctx context.Context, s models.Session) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, h.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return h.newRepo(tx).SetMany(ctx, map[string][]byte{
			TokenKey: []byte(s.Token),
			UserKey:  userJSON,
		})
	})
}

// Restore loads a previously persisted session. ok is false when either key
// is missing, the user record is unreadable, or the store cannot be read.
func (h *SessionHolder) Restore(ctx context.Context) (models.Session, bool) {
	repo := h.newRepo(h.db)

	token, err := repo.Get(ctx, TokenKey)
	if err != nil {
		h.logger.Warn(ctx, "failed to read persisted token", "error", err)
		return models.Session{}, false
	}
	userJSON, err := repo.Get(ctx, UserKey)
	if err != nil {
		h.logger.Warn(ctx, "failed to read persisted user", "error", err)
		return models.Session{}, false
	}
	if len(token) == 0 || len(userJSON) == 0 {
		return models.Session{}, false
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		h.logger.Warn(ctx, "persisted user is corrupt", "error", err)
		return models.Session{}, false
	}

	s := models.Session{User: user, Token: string(token)}

	h.mu.Lock()
	h.session = &s
	h.mu.Unlock()

	h.logger.Debug(ctx, "session restored", "username", user.UserName)
	return s, true
}

// Clear forgets the session. Memory is wiped before persistence is touched,
// so the holder is empty even when the returned error is non-nil.
func (h *SessionHolder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.session = nil
	h.mu.Unlock()

	err := dbx.WithTx(ctx, h.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return h.newRepo(tx).Delete(ctx, TokenKey, UserKey)
	})
	if err != nil {
		return fmt.Errorf("error clearing persisted session: %w", err)
	}
	return nil
}

func (h *SessionHolder) Current() (models.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.session == nil {
		return models.Session{}, false
	}
	return *h.session, true
}

// Token returns the current bearer token or "" when signed out. It matches
// client.TokenSource.
func (h *SessionHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.session == nil {
		return ""
	}
	return h.session.Token
}
