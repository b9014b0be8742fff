package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

// PostsAPI is the post half of client.Client.
type PostsAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, title, content string) (models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, content string) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// Sessions is implemented by services.SessionHolder.
type Sessions interface {
	Restore(ctx context.Context) (models.Session, bool)
	Login(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, username, email, password string) (models.Session, error)
	Clear(ctx context.Context) error
}

type Controller struct {
	api      PostsAPI
	sessions Sessions
	logger   logging.Logger

	mu    sync.Mutex
	state State
}

func NewController(api PostsAPI, sessions Sessions, logger logging.Logger) *Controller {
	return &Controller{
		api:      api,
		sessions: sessions,
		logger:   logger.With("module", "view"),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Posts = append([]models.Post(nil), c.state.Posts...)
	if c.state.Current != nil {
		p := *c.state.Current
		s.Current = &p
	}
	if c.state.User != nil {
		u := *c.state.User
		s.User = &u
	}
	return s
}

func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// begin marks a request in flight.
func (c *Controller) begin() {
	c.update(func(s *State) { s.Loading = true })
}

// finish clears the loading flag and records the outcome in the error slot.
func (c *Controller) finish(ctx context.Context, err error) error {
	c.update(func(s *State) {
		s.Loading = false
		s.Err = err
	})
	if err != nil {
		c.logger.Debug(ctx, "action failed", "error", err)
	}
	return err
}

func (c *Controller) authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Screen != ScreenUnauthenticated
}

func (c *Controller) requireAuth(ctx context.Context) error {
	if c.authenticated() {
		return nil
	}
	return c.finish(ctx, &ViewError{Message: "Please log in first", Cause: ErrNotAuthenticated})
}

// Start restores a persisted session. With one, the list screen is shown
// and posts are loaded; without, the controller waits for authentication.
func (c *Controller) Start(ctx context.Context) error {
	sess, ok := c.sessions.Restore(ctx)
	if !ok {
		c.update(func(s *State) {
			s.Screen = ScreenUnauthenticated
			s.Err = nil
		})
		return nil
	}
	return c.enter(ctx, sess)
}

func (c *Controller) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return c.finish(ctx, &ViewError{Message: "Please fill in username and password", Cause: client.ErrValidation})
	}

	c.begin()
	sess, err := c.sessions.Login(ctx, username, password)
	if err != nil {
		return c.finish(ctx, authFailure("Login failed", err))
	}
	return c.enter(ctx, sess)
}

func (c *Controller) Register(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return c.finish(ctx, &ViewError{Message: "Please fill in username and password", Cause: client.ErrValidation})
	}

	c.begin()
	sess, err := c.sessions.Register(ctx, username, email, password)
	if err != nil {
		return c.finish(ctx, authFailure("Registration failed", err))
	}
	return c.enter(ctx, sess)
}

func (c *Controller) enter(ctx context.Context, sess models.Session) error {
	c.update(func(s *State) {
		u := sess.User
		s.User = &u
		s.Screen = ScreenList
		s.Overlay = OverlayClosed
		s.Current = nil
	})
	return c.LoadPosts(ctx)
}

// Logout always ends on the unauthenticated screen. A failure to wipe the
// persisted session is only logged.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "failed to clear session", "error", err)
	}
	c.update(func(s *State) {
		*s = State{Screen: ScreenUnauthenticated}
	})
	return nil
}

// LoadPosts re-fetches the list. The screen does not change.
func (c *Controller) LoadPosts(ctx context.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}

	c.begin()
	posts, err := c.api.ListPosts(ctx)
	if err != nil {
		return c.finish(ctx, failure("Error loading posts", err))
	}
	c.update(func(s *State) { s.Posts = posts })
	return c.finish(ctx, nil)
}

// ViewPost opens a post. On failure the screen stays put.
func (c *Controller) ViewPost(ctx context.Context, id int64) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}

	c.begin()
	p, err := c.api.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return c.finish(ctx, &ViewError{Message: "Post not found", Cause: err})
		}
		return c.finish(ctx, failure("Error loading post", err))
	}
	c.update(func(s *State) {
		s.Current = &p
		s.Screen = ScreenSingle
	})
	return c.finish(ctx, nil)
}

func (c *Controller) Back(ctx context.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Screen = ScreenList
		s.Current = nil
	})
	return c.finish(ctx, nil)
}

func (c *Controller) OpenAdd(ctx context.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Overlay = OverlayAdd
		s.Form = Form{}
	})
	return c.finish(ctx, nil)
}

// OpenEdit opens the overlay pre-filled with p.
func (c *Controller) OpenEdit(ctx context.Context, p models.Post) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Overlay = OverlayEdit
		s.Form = Form{PostID: p.ID, Title: p.Title, Content: p.Content}
	})
	return c.finish(ctx, nil)
}

// CloseForm closes the overlay without touching the screen.
func (c *Controller) CloseForm(ctx context.Context) error {
	c.update(func(s *State) {
		s.Overlay = OverlayClosed
		s.Form = Form{}
	})
	return c.finish(ctx, nil)
}

// SetForm replaces the overlay's title and content.
func (c *Controller) SetForm(title, content string) {
	c.update(func(s *State) {
		s.Form.Title = title
		s.Form.Content = content
	})
}

// Submit saves the overlay. Empty fields are rejected locally. On success
// the overlay closes and the affected data is re-fetched; on failure it
// stays open.
func (c *Controller) Submit(ctx context.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}

	st := c.State()
	if st.Overlay == OverlayClosed {
		return c.finish(ctx, &ViewError{Message: "Nothing to save", Cause: ErrNoOverlay})
	}

	title := strings.TrimSpace(st.Form.Title)
	content := strings.TrimSpace(st.Form.Content)
	if title == "" || content == "" {
		return c.finish(ctx, &ViewError{Message: "Please fill in both title and content", Cause: client.ErrValidation})
	}

	c.begin()
	var err error
	if st.Overlay == OverlayEdit {
		_, err = c.api.UpdatePost(ctx, st.Form.PostID, title, content)
	} else {
		_, err = c.api.CreatePost(ctx, title, content)
	}
	if err != nil {
		return c.finish(ctx, failure("Error saving post", err))
	}

	c.update(func(s *State) {
		s.Overlay = OverlayClosed
		s.Form = Form{}
	})

	if st.Overlay == OverlayEdit && st.Screen == ScreenSingle &&
		st.Current != nil && st.Current.ID == st.Form.PostID {
		return c.refreshCurrent(ctx, st.Form.PostID)
	}
	return c.LoadPosts(ctx)
}

func (c *Controller) refreshCurrent(ctx context.Context, id int64) error {
	p, err := c.api.GetPost(ctx, id)
	if err != nil {
		return c.finish(ctx, failure("Error loading post", err))
	}
	c.update(func(s *State) { s.Current = &p })
	return c.finish(ctx, nil)
}

// Delete removes a post. If it is the one open on the single screen the
// controller returns to the list and drops it locally; otherwise the list
// is re-fetched.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.requireAuth(ctx); err != nil {
		return err
	}

	c.begin()
	if err := c.api.DeletePost(ctx, id); err != nil {
		return c.finish(ctx, failure("Error deleting post", err))
	}

	st := c.State()
	if st.Screen == ScreenSingle && st.Current != nil && st.Current.ID == id {
		c.update(func(s *State) {
			s.Screen = ScreenList
			s.Current = nil
			s.Posts = models.RemovePost(s.Posts, id)
		})
		return c.finish(ctx, nil)
	}
	return c.LoadPosts(ctx)
}

// SetSearch changes the list filter. It never issues a request.
func (c *Controller) SetSearch(term string) {
	c.update(func(s *State) {
		s.Search = term
		s.Err = nil
	})
}
