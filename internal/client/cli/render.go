package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/client/view"
)

const dateLayout = "2006-01-02 15:04"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func renderList(w io.Writer, st view.State) {
	posts := st.VisiblePosts()
	if st.Search != "" {
		fmt.Fprintf(w, "Search: %q (%d of %d)\n", st.Search, len(posts), len(st.Posts))
	}
	if len(posts) == 0 {
		if st.Search != "" {
			fmt.Fprintln(w, "No posts match your search.")
		} else {
			fmt.Fprintln(w, "No posts yet. Type 'new' to write one.")
		}
		return
	}

	for _, p := range posts {
		fmt.Fprintf(w, "[%d] %s\n", p.ID, p.Title)
		fmt.Fprintf(w, "     by %s, %s\n", p.Author, formatDate(p.CreatedAt))
	}
}

func renderPost(w io.Writer, p models.Post) {
	fmt.Fprintln(w, p.Title)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(p.Title))))
	fmt.Fprintf(w, "#%d by %s, %s\n\n", p.ID, p.Author, formatDate(p.CreatedAt))
	fmt.Fprintln(w, p.Content)
}

func renderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ve *view.ViewError
	if errors.As(err, &ve) {
		fmt.Fprintln(w, "Error:", ve.Message)
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// render prints whatever the current screen shows, then the error slot.
func render(w io.Writer, st view.State) {
	switch st.Screen {
	case view.ScreenUnauthenticated:
		fmt.Fprintln(w, "You are not logged in. Type 'login' or 'register'.")
	case view.ScreenList:
		renderList(w, st)
	case view.ScreenSingle:
		if st.Current != nil {
			renderPost(w, *st.Current)
		}
	}
	renderError(w, st.Err)
}
