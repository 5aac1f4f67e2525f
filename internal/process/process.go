package process

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"io/fs"
	"os/exec"
	"strings"
)

// ExitCodeNotFound mirrors the shell convention for a missing executable.
const ExitCodeNotFound = 127

// maxLineLength bounds a single forwarded line; longer output without a
// line break is forwarded in pieces of this size.
const maxLineLength = 64 * 1024

var (
	ErrNotFound = errors.New("executable not found")
	ErrSpawn    = errors.New("failed to start process")
)

type Command struct {
	Name  string
	Args  []string
	Stdin string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type Runner struct {
	logger *logrus.Logger
}

func NewRunner(logger *logrus.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts cmd and forwards each line of its combined stdout and stderr to
// lines as soon as it is written. It blocks until the process exits and
// returns its exit code. A non-nil error means the process never ran.
func (r *Runner) Run(cmd Command, lines chan<- string) (int, error) {
	logger := r.logger.WithField("command", cmd.String())

	c := exec.Command(cmd.Name, cmd.Args...)
	pr, pw := io.Pipe()
	c.Stdout = pw
	c.Stderr = pw
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin + "\n")
	}

	logger.Debug("starting process")
	if err := c.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("executable not found: %v", err)
			return ExitCodeNotFound, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		lines <- fmt.Sprintf("ERROR: Subprocess error: %v", err)
		return 1, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 4096), 2*maxLineLength)
		scanner.Split(scanOutputLines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Warnf("stopped reading process output: %v", err)
		}
		// keep the writer side unblocked until the process exits
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := c.Wait()
	_ = pw.Close()
	<-done

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debugf("process exited with code %v", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}
		lines <- fmt.Sprintf("ERROR: Subprocess error: %v", err)
		return 1, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	logger.Debug("process exited cleanly")
	return 0, nil
}

// scanOutputLines is bufio.ScanLines that also breaks on a lone carriage
// return, which installers use to redraw percentages in place.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 && i < maxLineLength {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell \r from \r\n
		return 0, nil, nil
	}
	if len(data) >= maxLineLength {
		return maxLineLength, data[:maxLineLength], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
