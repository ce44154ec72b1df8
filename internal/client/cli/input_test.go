package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/dmitrijs2005/shadowshield/internal/keystroke"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

// stepClock returns a clock advancing by step on every call, starting at base.
func stepClock(base time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := base.Add(time.Duration(n) * step)
		n++
		return t
	}
}

func stubClock(t *testing.T, f func() time.Time) {
	t.Helper()
	orig := clock
	clock = f
	t.Cleanup(func() { clock = orig })
}

func TestReadSecretTimed(t *testing.T) {
	stubClock(t, stepClock(time.Unix(1700000000, 0), 250*time.Millisecond))

	var rec keystroke.Recorder
	pw, err := ReadSecretTimed(bufio.NewReader(strings.NewReader("1234\r")), &rec)

	require.NoError(t, err)
	assert.Equal(t, "1234", string(pw))

	hold, flight := rec.Vectors(4)
	assert.Equal(t, []float64{0, 0, 0, 0}, hold)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.25, 0.25}, flight, 1e-9)
}

func TestReadSecretTimed_Editing(t *testing.T) {
	stubClock(t, stepClock(time.Unix(0, 0), time.Millisecond))

	tests := []struct {
		name     string
		input    string
		want     string
		wantKeys int
	}{
		{name: "backspace keeps timings", input: "12x\x7f34\n", want: "1234", wantKeys: 5},
		{name: "ctrl-h", input: "ab\x08c\r", want: "ac", wantKeys: 3},
		{name: "arrow keys ignored", input: "a\x1b[Db\x1b[1~c\r", want: "abc", wantKeys: 3},
		{name: "multibyte rune counted once", input: "pä\x7fa\r", want: "pa", wantKeys: 3},
		{name: "control keys ignored", input: "a\tb\r", want: "ab", wantKeys: 2},
		{name: "eof after input", input: "abc", want: "abc", wantKeys: 3},
		{name: "ctrl-d ends input", input: "ab\x04", want: "ab", wantKeys: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec keystroke.Recorder
			pw, err := ReadSecretTimed(bufio.NewReader(strings.NewReader(tt.input)), &rec)

			require.NoError(t, err)
			assert.Equal(t, tt.want, string(pw))
			assert.Equal(t, tt.wantKeys, rec.Len())
		})
	}
}

func TestReadSecretTimed_Abort(t *testing.T) {
	var rec keystroke.Recorder

	_, err := ReadSecretTimed(bufio.NewReader(strings.NewReader("ab\x03")), &rec)
	assert.ErrorIs(t, err, ErrInterrupted)

	_, err = ReadSecretTimed(bufio.NewReader(strings.NewReader("\x04")), &rec)
	assert.ErrorIs(t, err, io.EOF)

	_, err = ReadSecretTimed(bufio.NewReader(strings.NewReader("")), &rec)
	assert.ErrorIs(t, err, io.EOF)
}

func stubTerminal(t *testing.T, tty bool, rawErr error) *int {
	t.Helper()
	origIs, origRaw, origRestore, origFd := isTerminal, makeRaw, restoreTerminal, stdinFd
	t.Cleanup(func() {
		isTerminal, makeRaw, restoreTerminal, stdinFd = origIs, origRaw, origRestore, origFd
	})

	restored := 0
	stdinFd = func() int { return 42 }
	isTerminal = func(fd int) bool { return tty }
	makeRaw = func(fd int) (*term.State, error) {
		if rawErr != nil {
			return nil, rawErr
		}
		return &term.State{}, nil
	}
	restoreTerminal = func(fd int, _ *term.State) error {
		restored++
		return nil
	}
	return &restored
}

func TestGetTimedPassword_Terminal(t *testing.T) {
	restored := stubTerminal(t, true, nil)
	stubClock(t, stepClock(time.Unix(0, 0), 100*time.Millisecond))

	var out bytes.Buffer
	pw, hold, flight, err := GetTimedPassword(bufio.NewReader(strings.NewReader("abcd\r")), &out, 4)

	require.NoError(t, err)
	assert.Equal(t, "abcd", string(pw))
	assert.Len(t, hold, 4)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.1, 0.1}, flight, 1e-9)
	assert.Equal(t, 1, *restored)
	assert.Equal(t, "Enter password: \r\n", out.String())
}

func TestGetTimedPassword_WrongLengthGivesEmptyVectors(t *testing.T) {
	stubTerminal(t, true, nil)

	_, hold, flight, err := GetTimedPassword(bufio.NewReader(strings.NewReader("abc\r")), io.Discard, 4)

	require.NoError(t, err)
	assert.NotNil(t, hold)
	assert.Empty(t, hold)
	assert.Empty(t, flight)
}

func TestGetTimedPassword_NotATerminal(t *testing.T) {
	stubTerminal(t, false, nil)

	pw, hold, flight, err := GetTimedPassword(bufio.NewReader(strings.NewReader("secret\n")), io.Discard, 4)

	require.NoError(t, err)
	assert.Equal(t, "secret", string(pw))
	assert.Empty(t, hold)
	assert.Empty(t, flight)
}

func TestGetTimedPassword_RawModeError(t *testing.T) {
	boom := errors.New("boom")
	stubTerminal(t, true, boom)

	_, _, _, err := GetTimedPassword(bufio.NewReader(strings.NewReader("x\r")), io.Discard, 4)

	assert.ErrorIs(t, err, boom)
}
