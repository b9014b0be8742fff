package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	View(ctx context.Context, arg string) error
	Back(ctx context.Context) error
	New(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, search [term], view <id>, back, new, edit [id], delete [id], logout, exit"
)

// runREPL reads one command per line and dispatches it to a. The loop
// exits on EOF, on "exit"/"quit", or when ctx is done.
//
// Handlers report their own errors to the user, so returned errors are
// ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "blog %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), parts[0]))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search", "s":
			_ = a.Search(ctx, arg)

		case "view", "v":
			_ = a.View(ctx, arg)

		case "back", "b":
			_ = a.Back(ctx)

		case "new", "add":
			_ = a.New(ctx)

		case "edit", "e":
			_ = a.Edit(ctx, arg)

		case "delete", "rm":
			_ = a.Delete(ctx, arg)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
