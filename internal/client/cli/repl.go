package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Shadow Shield CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Vault commands require a successful login.
// The loop exits on EOF, on "exit" or "quit", or when Login reports that no
// attempts are left.
//
//	Not logged in:
//	  - help           - show available commands
//	  - login          - authenticate
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - help                         - show available commands
//	  - upload <path>                - encrypt a file into the vault
//	  - (l)ist                       - list vault entries
//	  - download <name> [dest_dir]   - decrypt an entry to disk
//	  - logout                       - log out
//	  - exit | quit                  - leave the program
//
// Other errors returned by command handlers are ignored here; handlers
// report their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shield %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if ctx.Err() != nil {
			return
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload <path>, (l)ist, download <name> [dest_dir], logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			if errors.Is(a.Login(ctx), ErrNoAttemptsLeft) {
				return
			}

		case "upload", "l", "list", "download", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "upload":
				_ = a.Upload(ctx, args)
			case "l", "list":
				_ = a.List(ctx)
			case "download":
				_ = a.Download(ctx, args)
			case "logout":
				_ = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
