package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"gitlab.com/woeusb/woeusb-flasher/internal/color"
	"golang.org/x/term"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrRefresh       = errors.New("refresh requested")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrNoChoices     = errors.New("nothing to choose from")
)

// Terminal asks the user questions on a terminal. When input is not a tty
// (piped or in tests) answers are read line by line and passwords echo.
type Terminal struct {
	in           *bufio.Reader
	out          io.Writer
	fd           int
	isTerminal   bool
	readPassword func(fd int) ([]byte, error)
	getState     func(fd int) (*term.State, error)
	restore      func(fd int, state *term.State) error

	mu    sync.Mutex
	saved *term.State
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           -1,
		readPassword: term.ReadPassword,
		getState:     term.GetState,
		restore:      term.Restore,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.isTerminal = true
	}
	return t
}

// Confirm returns true only for an explicit yes.
func (t *Terminal) Confirm(message string) (bool, error) {
	fmt.Fprintf(t.out, "%v [y/N]: ", color.Yellow(message))
	answer, err := t.readLine()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Password returns an empty string when the user submits nothing or closes
// input, which callers treat as a cancel.
func (t *Terminal) Password(message string) (string, error) {
	fmt.Fprintf(t.out, "%v ", color.Yellow(message))
	if t.isTerminal {
		t.save()
		defer t.forget()
		pw, err := t.readPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	pw, err := t.readLine()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return pw, err
}

// Choose lists options and returns the index picked. Answering "r" returns
// ErrRefresh so the caller can reload the options.
func (t *Terminal) Choose(message string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoChoices
	}
	fmt.Fprintln(t.out, color.Yellow(message))
	for i, option := range options {
		fmt.Fprintf(t.out, "  %d) %v\n", i+1, option)
	}
	fmt.Fprintf(t.out, "Select [1-%d], r to refresh: ", len(options))
	answer, err := t.readLine()
	if err != nil {
		return -1, err
	}
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "r") {
		return -1, ErrRefresh
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return -1, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
	}
	return n - 1, nil
}

// readLine returns io.EOF only when input ended before any text.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Restore puts the terminal back into the state it had before a password
// read that is still in progress. It is safe to call from a signal handler
// goroutine and does nothing when no password is being read.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return nil
	}
	err := t.restore(t.fd, t.saved)
	t.saved = nil
	return err
}

func (t *Terminal) save() {
	state, err := t.getState(t.fd)
	if err != nil {
		return
	}
	t.mu.Lock()
	t.saved = state
	t.mu.Unlock()
}

func (t *Terminal) forget() {
	t.mu.Lock()
	t.saved = nil
	t.mu.Unlock()
}
