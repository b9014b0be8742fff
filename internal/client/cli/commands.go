package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
)

func (a *App) show() {
	render(a.out, a.view.State())
}

func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "-Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.view.Login(ctx, userName, string(password))
	a.show()
	return err
}

func (a *App) Register(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "-Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "-Enter email (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.view.Register(ctx, userName, email, string(password))
	a.show()
	return err
}

func (a *App) Logout(ctx context.Context) error {
	err := a.view.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return err
}

func (a *App) List(ctx context.Context) error {
	if err := a.view.Back(ctx); err != nil {
		a.show()
		return err
	}
	err := a.view.LoadPosts(ctx)
	a.show()
	return err
}

// Search filters the loaded list locally. No argument clears the filter.
func (a *App) Search(ctx context.Context, term string) error {
	if err := a.view.Back(ctx); err != nil {
		a.show()
		return err
	}
	a.view.SetSearch(term)
	a.show()
	return nil
}

func (a *App) View(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: view <id>")
		return err
	}
	err = a.view.ViewPost(ctx, id)
	a.show()
	return err
}

func (a *App) Back(ctx context.Context) error {
	err := a.view.Back(ctx)
	a.show()
	return err
}

func (a *App) New(ctx context.Context) error {
	if err := a.view.OpenAdd(ctx); err != nil {
		a.show()
		return err
	}
	return a.fillAndSubmit(ctx, models.Post{})
}

// Edit opens the form for the given post, or for the open one when arg is
// empty.
func (a *App) Edit(ctx context.Context, arg string) error {
	p, err := a.resolvePost(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return err
	}
	if err := a.view.OpenEdit(ctx, p); err != nil {
		a.show()
		return err
	}
	return a.fillAndSubmit(ctx, p)
}

// fillAndSubmit prompts for the form fields and submits until it succeeds
// or the user gives up. Blank answers keep the pre-filled values.
func (a *App) fillAndSubmit(ctx context.Context, prefill models.Post) error {
	for {
		title, err := GetSimpleText(a.reader, fieldPrompt("-Enter title", prefill.Title), a.out)
		if err != nil {
			_ = a.view.CloseForm(ctx)
			return err
		}
		if title == "" {
			title = prefill.Title
		}

		content, err := GetMultiline(a.reader, fieldPrompt("-Enter content", prefill.Content), a.out)
		if err != nil {
			_ = a.view.CloseForm(ctx)
			return err
		}
		if content == "" {
			content = prefill.Content
		}

		a.view.SetForm(title, content)
		err = a.view.Submit(ctx)
		if err == nil {
			fmt.Fprintln(a.out, "Post saved")
			a.show()
			return nil
		}

		renderError(a.out, err)
		if !confirm(a.reader, "Try again?", a.out) {
			_ = a.view.CloseForm(ctx)
			return err
		}
		prefill = models.Post{Title: title, Content: content}
	}
}

func fieldPrompt(label, current string) string {
	if current == "" {
		return label
	}
	return fmt.Sprintf("%s (Enter to keep %q)", label, current)
}

func (a *App) Delete(ctx context.Context, arg string) error {
	p, err := a.resolvePost(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return err
	}
	label := fmt.Sprintf("post #%d", p.ID)
	if p.Title != "" {
		label = fmt.Sprintf("%q", p.Title)
	}
	if !confirm(a.reader, "Are you sure you want to delete "+label+"?", a.out) {
		return nil
	}

	err = a.view.Delete(ctx, p.ID)
	if err == nil {
		fmt.Fprintln(a.out, "Post deleted")
	}
	a.show()
	return err
}

// resolvePost finds the post named by arg among the loaded ones. An empty
// arg means the post open on the single screen.
func (a *App) resolvePost(arg string) (models.Post, error) {
	st := a.view.State()
	if arg == "" {
		if st.Current == nil {
			return models.Post{}, fmt.Errorf("no post is open")
		}
		return *st.Current, nil
	}

	id, err := parseID(arg)
	if err != nil {
		return models.Post{}, err
	}
	if st.Current != nil && st.Current.ID == id {
		return *st.Current, nil
	}
	for _, p := range st.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	// unknown locally; the server decides
	return models.Post{ID: id}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}
