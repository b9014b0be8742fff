// Package models defines the server-side records shared by the repositories,
// services and the HTTP layer.
package models

import "time"

// Post is a blog post. ID is assigned by the store and never reused;
// Author and CreatedAt are fixed at creation.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostPatch carries the fields of an update. A nil field keeps the stored value.
type PostPatch struct {
	Title   *string
	Content *string
}

// Apply overwrites the supplied fields of p in place.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
}
