package woeusb

import (
	"errors"
	"fmt"
	"gitlab.com/woeusb/woeusb-flasher/internal/process"
	"os/exec"
	"strings"
)

const (
	woeusbExecutable = "woeusb"
	deviceMode       = "--device"
)

var ErrorCommandFailure = errors.New("failed running command")

type Tool struct {
	executable string
}

func New(executable string) *Tool {
	if executable == "" {
		executable = woeusbExecutable
	}
	return &Tool{
		executable: executable,
	}
}

// Command builds the install invocation. Any elevation prefix is prepended
// verbatim, e.g. Command(image, device, "sudo", "-S", "-p", "").
func (t *Tool) Command(imagePath, devicePath string, elevation ...string) process.Command {
	args := []string{deviceMode, imagePath, devicePath}
	if len(elevation) == 0 {
		return process.Command{Name: t.executable, Args: args}
	}
	return process.Command{
		Name: elevation[0],
		Args: append(append(append([]string{}, elevation[1:]...), t.executable), args...),
	}
}

func (t *Tool) Version() (string, error) {
	resp, err := exec.Command(t.executable, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrorCommandFailure, err)
	}
	return strings.TrimSpace(string(resp)), nil
}

func (t *Tool) Name() string {
	return woeusbExecutable
}
