package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root asks for a login until one succeeds or the attempts run out, then
// starts the connectivity watcher and the command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Shadow Shield CLI (type 'help' for commands)")

	for !a.isLoggedIn() {
		err := a.Login(ctx)
		if errors.Is(err, ErrNoAttemptsLeft) || errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
			return
		}
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return
		}
		if a.mode() == ModeOffline {
			// Server unreachable; let the user retry from the prompt.
			break
		}
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
