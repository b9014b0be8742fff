// Package models defines the client-side view of blog data and the pure
// helpers that operate on it.
package models

import (
	"strings"
	"time"
)

// Post mirrors the server's JSON representation of a post.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// FilterPosts returns the posts whose title or content contains term,
// ignoring case. An empty term returns posts unchanged. The input is never
// modified.
func FilterPosts(posts []Post, term string) []Post {
	if term == "" {
		return posts
	}

	needle := strings.ToLower(term)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Content), needle) {
			out = append(out, p)
		}
	}
	return out
}

// RemovePost drops the post with the given id, keeping order.
func RemovePost(posts []Post, id int64) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
