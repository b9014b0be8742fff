package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService() (*PostService, *repomanager.MemoryRepositoryManager) {
	rm := repomanager.NewMemoryRepositoryManager()
	return NewPostService(nil, rm), rm
}

func strPtr(s string) *string { return &s }

func TestPostService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newPostService()

	p, err := s.Create(ctx, "Hello", "World", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, common.AnonymousAuthor, p.Author)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Content)
}

func TestPostService_CreateUsesAuthor(t *testing.T) {
	s, _ := newPostService()

	p, err := s.Create(context.Background(), " T ", " C ", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Author)
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, "C", p.Content)
}

func TestPostService_CreateValidationConsumesNoID(t *testing.T) {
	ctx := context.Background()
	s, rm := newPostService()

	_, err := s.Create(ctx, "", "body", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(ctx, "title", "   ", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, 0, rm.MemoryPosts().Len())

	p, err := s.Create(ctx, "title", "body", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
}

func TestPostService_UpdateKeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newPostService()

	p, err := s.Create(ctx, "old", "body", "alice")
	require.NoError(t, err)

	u, err := s.Update(ctx, p.ID, strPtr("new"), strPtr("  "))
	require.NoError(t, err)
	assert.Equal(t, "new", u.Title)
	assert.Equal(t, "body", u.Content)
	assert.Equal(t, p.ID, u.ID)
	assert.Equal(t, p.Author, u.Author)
	assert.Equal(t, p.CreatedAt, u.CreatedAt)

	u, err = s.Update(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "new", u.Title)
}

func TestPostService_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	s, rm := newPostService()

	_, err := s.Create(ctx, "t", "c", "")
	require.NoError(t, err)
	before := rm.MemoryPosts().Snapshot()

	_, err = s.Update(ctx, 99, strPtr("x"), nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, before, rm.MemoryPosts().Snapshot())
}

func TestPostService_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newPostService()

	p, err := s.Create(ctx, "Hello", "World", "")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, p.ID))

	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, p.ID), common.ErrorNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	p2, err := s.Create(ctx, "Again", "Body", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p2.ID)
}
