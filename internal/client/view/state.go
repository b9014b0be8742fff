// Package view holds the terminal client's screen state machine.
//
// The Controller owns a single State value. Screen is one of
// Unauthenticated, List or Single; the form overlay is orthogonal to it.
// Every action records its outcome in State.Err, nil on success.
package view

import (
	"github.com/dmitrijs2005/gophblog/internal/client/models"
)

type Screen int

const (
	ScreenUnauthenticated Screen = iota
	ScreenList
	ScreenSingle
)

func (s Screen) String() string {
	switch s {
	case ScreenUnauthenticated:
		return "unauthenticated"
	case ScreenList:
		return "list"
	case ScreenSingle:
		return "single"
	}
	return "unknown"
}

type Overlay int

const (
	OverlayClosed Overlay = iota
	OverlayAdd
	OverlayEdit
)

func (o Overlay) String() string {
	switch o {
	case OverlayClosed:
		return "closed"
	case OverlayAdd:
		return "add"
	case OverlayEdit:
		return "edit"
	}
	return "unknown"
}

// Form is the add/edit overlay contents. PostID is set only when editing.
type Form struct {
	PostID  int64
	Title   string
	Content string
}

type State struct {
	Screen  Screen
	Overlay Overlay
	Form    Form

	User    *models.User
	Posts   []models.Post
	Current *models.Post
	Search  string

	Err     error
	Loading bool
}

// VisiblePosts applies the search term to the loaded list.
func (s State) VisiblePosts() []models.Post {
	return models.FilterPosts(s.Posts, s.Search)
}
