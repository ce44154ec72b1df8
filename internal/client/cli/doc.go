// Package cli provides the interactive Shadow Shield command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL. The
// password prompt runs the terminal in raw mode so that key press times can
// be captured and sent with the credentials as keystroke vectors. The user
// gets a limited number of login attempts; after that the client exits.
//
// Commands once logged in: upload, list, download, logout, help, exit.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
