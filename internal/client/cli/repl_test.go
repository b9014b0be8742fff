package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name, arg string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, arg)
	return nil
}

func (f *fakeExec) isLoggedIn() bool                         { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error           { return f.record("register", "") }
func (f *fakeExec) Logout(context.Context) error             { f.loggedIn = false; return f.record("logout", "") }
func (f *fakeExec) List(context.Context) error               { return f.record("list", "") }
func (f *fakeExec) Back(context.Context) error               { return f.record("back", "") }
func (f *fakeExec) New(context.Context) error                { return f.record("new", "") }
func (f *fakeExec) Login(context.Context) error              { f.loggedIn = true; return f.record("login", "") }
func (f *fakeExec) Search(_ context.Context, s string) error { return f.record("search", s) }
func (f *fakeExec) View(_ context.Context, s string) error   { return f.record("view", s) }
func (f *fakeExec) Edit(_ context.Context, s string) error   { return f.record("edit", s) }
func (f *fakeExec) Delete(_ context.Context, s string) error { return f.record("delete", s) }

func runScript(t *testing.T, f *fakeExec, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), f, func() string { return "(test)" }, in, &out)
	return out.String()
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f,
		"help",
		"login",
		"help",
		"",
		"list",
		"search Go tips",
		"view 3",
		"back",
		"new",
		"edit 3",
		"delete",
		"logout",
		"exit",
		"list",
	)

	assert.Equal(t, []string{"login", "list", "search", "view", "back", "new", "edit", "delete", "logout"}, f.calls)
	assert.Equal(t, []string{"", "", "Go tips", "3", "", "", "3", "", ""}, f.args)
	assert.Contains(t, out, helpLoggedOut)
	assert.Contains(t, out, helpLoggedIn)
	assert.Contains(t, out, "blog (test)> ")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_AliasesAndUnknown(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	out := runScript(t, f, "l", "s", "v 1", "b", "add", "e", "rm 2", "frobnicate", "quit")

	assert.Equal(t, []string{"list", "search", "view", "back", "new", "edit", "delete"}, f.calls)
	assert.Contains(t, out, "Unknown command: frobnicate")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	f := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("list")), &out)

	assert.Equal(t, []string{"list"}, f.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	f := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")), &out)
	assert.Empty(t, f.calls)
}
