// Package client contains client-side building blocks for gophblog.
//
// # Overview
//
// The package provides:
//  1. The Client interface, the blog API contract used by the terminal
//     client: post CRUD, Login/Register and Ping.
//  2. HTTPClient, a net/http implementation talking JSON to the REST API.
//     It attaches the bearer token from a TokenSource and bounds every
//     request with a timeout.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError, which unwraps to ErrValidation, ErrUnauthorized, ErrNotFound or
// ErrConflict depending on the status code.
package client
