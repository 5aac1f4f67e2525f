package process

import (
	"bufio"
	"errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

func collect(t *testing.T, cmd Command) ([]string, int, error) {
	t.Helper()
	lines := make(chan string, 64)
	code, err := NewRunner(logrus.StandardLogger()).Run(cmd, lines)
	close(lines)
	var out []string
	for line := range lines {
		out = append(out, line)
	}
	return out, code, err
}

func TestRun(t *testing.T) {
	tests := map[string]struct {
		cmd           Command
		expectedLines []string
		expectedCode  int
		expectedErr   error
	}{
		"combined output in order": {
			cmd:           Command{Name: "sh", Args: []string{"-c", "echo Erasing; echo Partitioning >&2; echo Copying"}},
			expectedLines: []string{"Erasing", "Partitioning", "Copying"},
			expectedCode:  0,
		},
		"non zero exit is not an error": {
			cmd:           Command{Name: "sh", Args: []string{"-c", "echo failing; exit 3"}},
			expectedLines: []string{"failing"},
			expectedCode:  3,
		},
		"stdin is piped with trailing newline": {
			cmd:           Command{Name: "sh", Args: []string{"-c", "read pw; echo got:$pw"}, Stdin: "hunter2"},
			expectedLines: []string{"got:hunter2"},
			expectedCode:  0,
		},
		"carriage returns split lines": {
			cmd:           Command{Name: "sh", Args: []string{"-c", `printf 'Copying 10%%\rCopying 20%%\r\nInstalling bootloader\n'`}},
			expectedLines: []string{"Copying 10%", "Copying 20%", "Installing bootloader"},
			expectedCode:  0,
		},
		"trailing output without newline": {
			cmd:           Command{Name: "sh", Args: []string{"-c", "printf 'ERROR: no newline'; exit 1"}},
			expectedLines: []string{"ERROR: no newline"},
			expectedCode:  1,
		},
		"missing executable on path": {
			cmd:          Command{Name: "woeusb-does-not-exist-on-this-host"},
			expectedCode: ExitCodeNotFound,
			expectedErr:  ErrNotFound,
		},
		"missing absolute executable": {
			cmd:          Command{Name: "/nonexistent/bin/woeusb"},
			expectedCode: ExitCodeNotFound,
			expectedErr:  ErrNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			lines, code, err := collect(t, tc.cmd)
			assert.Equal(t, tc.expectedCode, code)
			assert.Equal(t, tc.expectedLines, lines)
			if tc.expectedErr == nil {
				assert.Nil(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.expectedErr))
			}
		})
	}
}

func TestRunSpawnFailureReportsLine(t *testing.T) {
	lines, code, err := collect(t, Command{Name: t.TempDir()})
	assert.Equal(t, 1, code)
	assert.True(t, errors.Is(err, ErrSpawn))
	if assert.Len(t, lines, 1) {
		assert.True(t, strings.HasPrefix(lines[0], "ERROR: Subprocess error: "))
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "pkexec", Args: []string{"woeusb", "--device", "/tmp/win.iso", "/dev/sdb"}}
	assert.Equal(t, "pkexec woeusb --device /tmp/win.iso /dev/sdb", cmd.String())
}

func drain(cmd Command) ([]string, int, error) {
	lines := make(chan string, 16)
	var out []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range lines {
			out = append(out, line)
		}
	}()
	code, err := NewRunner(logrus.StandardLogger()).Run(cmd, lines)
	close(lines)
	<-done
	return out, code, err
}

func TestRunKeepsStreamingAfterLongProgressRun(t *testing.T) {
	script := `i=0
while [ $i -lt 100000 ]; do printf 'Copying %05d%%\r' $i; i=$((i+1)); done
echo
echo 'Installing bootloader'
echo 'ERROR: grub-install failed'
exit 1`
	lines, code, err := drain(Command{Name: "sh", Args: []string{"-c", script}})
	assert.Nil(t, err)
	assert.Equal(t, 1, code)
	// the \r\n after the last percentage is a single break
	if assert.Len(t, lines, 100002) {
		assert.Equal(t, "Copying 00000%", lines[0])
		assert.Equal(t, "Copying 99999%", lines[99999])
		assert.Equal(t, []string{"Installing bootloader", "ERROR: grub-install failed"}, lines[100000:])
	}
}

func TestRunSplitsOverlongLines(t *testing.T) {
	script := `head -c 200000 /dev/zero | tr '\0' a; echo; echo 'Installation succeeded'`
	lines, code, err := drain(Command{Name: "sh", Args: []string{"-c", script}})
	assert.Nil(t, err)
	assert.Equal(t, 0, code)
	total := 0
	for _, line := range lines[:len(lines)-1] {
		assert.LessOrEqual(t, len(line), maxLineLength)
		total += len(line)
	}
	assert.Equal(t, 200000, total)
	assert.Equal(t, "Installation succeeded", lines[len(lines)-1])
}

func TestScanOutputLines(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected []string
	}{
		"newlines":          {input: "Erasing\nCopying\n", expected: []string{"Erasing", "Copying"}},
		"carriage returns":  {input: "1%\r2%\r3%\n", expected: []string{"1%", "2%", "3%"}},
		"crlf is one break": {input: "a\r\nb\r\n", expected: []string{"a", "b"}},
		"blank line kept":   {input: "a\n\nb", expected: []string{"a", "", "b"}},
		"trailing cr":       {input: "done\r", expected: []string{"done"}},
		"overlong chunked": {
			input:    strings.Repeat("x", maxLineLength+5) + "\nend\n",
			expected: []string{strings.Repeat("x", maxLineLength), "xxxxx", "end"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			scanner := bufio.NewScanner(strings.NewReader(tc.input))
			scanner.Buffer(make([]byte, 16), 2*maxLineLength)
			scanner.Split(scanOutputLines)
			var got []string
			for scanner.Scan() {
				got = append(got, scanner.Text())
			}
			assert.Nil(t, scanner.Err())
			assert.Equal(t, tc.expected, got)
		})
	}
}
