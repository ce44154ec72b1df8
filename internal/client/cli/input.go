package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/shadowshield/internal/keystroke"
)

// Terminal seams. Tests replace them to avoid touching a real TTY.
var (
	isTerminal      = term.IsTerminal
	makeRaw         = term.MakeRaw
	restoreTerminal = term.Restore
	stdinFd         = func() int { return int(os.Stdin.Fd()) }
	clock           = time.Now
)

// ErrInterrupted is returned when the user presses Ctrl-C at a secret prompt.
var ErrInterrupted = errors.New("interrupted")

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTimedPassword prints a password prompt to w and reads a password
// without echo, recording when each key was pressed. When stdin is not a
// terminal the password is read as a plain line and no timings are returned.
//
// The returned password should be wiped by the caller when no longer needed.
func GetTimedPassword(reader *bufio.Reader, w io.Writer, keys int) ([]byte, []float64, []float64, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, nil, nil, err
	}

	fd := stdinFd()
	if !isTerminal(fd) {
		line, err := GetSimpleText(reader, "", io.Discard)
		if err != nil {
			return nil, nil, nil, err
		}
		return []byte(line), []float64{}, []float64{}, nil
	}

	state, err := makeRaw(fd)
	if err != nil {
		return nil, nil, nil, err
	}
	defer restoreTerminal(fd, state)

	var rec keystroke.Recorder
	pw, err := ReadSecretTimed(reader, &rec)
	// Raw mode disables output post-processing.
	fmt.Fprint(w, "\r\n")
	if err != nil {
		return nil, nil, nil, err
	}

	hold, flight := rec.Vectors(keys)
	return pw, hold, flight, nil
}

// ReadSecretTimed reads a secret from a terminal in raw mode up to Enter.
// Every printable key is timestamped in rec. A terminal reports presses
// only, so each key is recorded as released at the moment it was pressed.
// Backspace edits the secret but keeps the recorded timings. Escape
// sequences (arrow keys and the like) are ignored.
func ReadSecretTimed(r io.ByteReader, rec *keystroke.Recorder) ([]byte, error) {
	var secret []byte
	inEscape := false

	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(secret) > 0 {
				return secret, nil
			}
			return nil, err
		}

		if inEscape {
			// CSI sequences end with a byte in 0x40..0x7e; '[' opens them.
			if b != '[' && b >= 0x40 && b <= 0x7e {
				inEscape = false
			}
			continue
		}

		switch {
		case b == '\r' || b == '\n':
			return secret, nil
		case b == keyCtrlC:
			return nil, ErrInterrupted
		case b == keyCtrlD:
			if len(secret) == 0 {
				return nil, io.EOF
			}
			return secret, nil
		case b == keyBackspace || b == keyDelete:
			secret = dropLastRune(secret)
		case b == keyEscape:
			inEscape = true
		case b < 0x20:
			// other control keys
		default:
			secret = append(secret, b)
			// UTF-8 continuation bytes belong to the key already recorded.
			if b&0xc0 != 0x80 {
				now := clock()
				rec.KeyDown(now)
				rec.KeyUp(now)
			}
		}
	}
}

func dropLastRune(b []byte) []byte {
	for len(b) > 0 {
		last := b[len(b)-1]
		b = b[:len(b)-1]
		if last&0xc0 != 0x80 {
			break
		}
	}
	return b
}
