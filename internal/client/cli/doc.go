// Package cli provides the interactive blog command-line client.
//
// It wires configuration, the local credential store, the API client and the
// session manager into an interactive REPL. Typical flow: restore the session
// from stored credentials, then execute user commands.
//
// Key features:
//   - Login / Register / Logout with transparent token refresh
//   - Browse posts and comments
//   - Publish and delete posts, comment, reply, edit and delete comments
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
