// Package cli provides the interactive gophblog terminal client.
//
// It wires configuration, the local session store, the HTTP API client and
// the view controller behind a line-oriented REPL. Typical flow: restore a
// saved session (or prompt for login), start a background connectivity
// watcher, then execute user commands until exit.
//
// Key features:
//   - Login / Register / Logout
//   - List, search and view posts
//   - Create, edit and delete posts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
