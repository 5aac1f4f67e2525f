//go:generate mockgen -destination=mocks/mocks.go -package=mocks . ProcessRunner,PasswordPrompter
package launcher

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/platformtools/woeusb"
	"gitlab.com/woeusb/woeusb-flasher/internal/process"
	"os"
)

const (
	LineSucceeded      = "INFO: Installation succeeded!"
	LineAuthCanceled   = "ERROR: Authentication canceled."
	LinePKExecMissing  = "INFO: pkexec not found; trying sudo..."
	LinePKExecFailed   = "INFO: pkexec failed or was canceled; trying sudo..."
	lineFailedTemplate = "ERROR: Installation failed with return code %d."
	passwordPrompt     = "Enter your password to run woeusb with sudo:"
)

var sudoStdinArgs = []string{"-S", "-p", ""}

var (
	ErrAuthCanceled  = errors.New("authentication canceled")
	ErrNotFound      = errors.New("woeusb not found")
	ErrInstallFailed = errors.New("installation failed")
)

type ProcessRunner interface {
	Run(cmd process.Command, lines chan<- string) (int, error)
}

type PasswordPrompter interface {
	Password(message string) (string, error)
}

type Request struct {
	ImagePath  string
	DevicePath string
}

type Config struct {
	WoeUSB   *woeusb.Tool
	PKExec   string
	Sudo     string
	Runner   ProcessRunner
	Prompter PasswordPrompter
	Elevated func() bool
	Logger   *logrus.Logger
}

// Launcher runs woeusb with administrative privilege. Strategies are tried
// in order, each at most once: direct execution when already root, pkexec
// when installed, then sudo with a prompted password. An empty PKExec or
// Sudo path means that tool is not installed.
type Launcher struct {
	woeusb   *woeusb.Tool
	pkexec   string
	sudo     string
	runner   ProcessRunner
	prompter PasswordPrompter
	elevated func() bool
	logger   *logrus.Logger
}

func New(config *Config) *Launcher {
	elevated := config.Elevated
	if elevated == nil {
		elevated = func() bool { return os.Geteuid() == 0 }
	}
	return &Launcher{
		woeusb:   config.WoeUSB,
		pkexec:   config.PKExec,
		sudo:     config.Sudo,
		runner:   config.Runner,
		prompter: config.Prompter,
		elevated: elevated,
		logger:   config.Logger,
	}
}

// Launch streams installer output to lines and returns once the installer
// has exited. The final line sent is always a success or ERROR: line.
// lines is not closed.
func (l *Launcher) Launch(req Request, lines chan<- string) error {
	logger := l.logger.WithFields(logrus.Fields{
		"image":  req.ImagePath,
		"device": req.DevicePath,
	})

	if l.elevated() {
		logger.Debug("already running as root, starting woeusb directly")
		rc, err := l.runner.Run(l.woeusb.Command(req.ImagePath, req.DevicePath), lines)
		return l.finish(rc, err, lines)
	}

	if l.pkexec != "" {
		logger.Debug("starting woeusb through pkexec")
		rc, err := l.runner.Run(l.woeusb.Command(req.ImagePath, req.DevicePath, l.pkexec), lines)
		if rc == 0 && err == nil {
			return l.finish(rc, err, lines)
		}
		logger.Warnf("pkexec attempt failed with return code %v: %v", rc, err)
		lines <- LinePKExecFailed
	} else {
		logger.Debug("pkexec is not installed")
		lines <- LinePKExecMissing
	}

	if l.sudo == "" {
		logger.Warn("sudo is not installed")
		return l.finish(process.ExitCodeNotFound, process.ErrNotFound, lines)
	}

	password, err := l.prompter.Password(passwordPrompt)
	if err != nil {
		lines <- LineAuthCanceled
		return fmt.Errorf("%w: %v", ErrAuthCanceled, err)
	}
	if password == "" {
		lines <- LineAuthCanceled
		return ErrAuthCanceled
	}

	logger.Debug("starting woeusb through sudo")
	cmd := l.woeusb.Command(req.ImagePath, req.DevicePath, append([]string{l.sudo}, sudoStdinArgs...)...)
	cmd.Stdin = password
	rc, err := l.runner.Run(cmd, lines)
	return l.finish(rc, err, lines)
}

func (l *Launcher) finish(rc int, runErr error, lines chan<- string) error {
	if rc == 0 && runErr == nil {
		lines <- LineSucceeded
		return nil
	}
	lines <- fmt.Sprintf(lineFailedTemplate, rc)
	if rc == process.ExitCodeNotFound || errors.Is(runErr, process.ErrNotFound) {
		return fmt.Errorf("%w: return code %v", ErrNotFound, rc)
	}
	if runErr != nil {
		return fmt.Errorf("%w: return code %v: %v", ErrInstallFailed, rc, runErr)
	}
	return fmt.Errorf("%w: return code %v", ErrInstallFailed, rc)
}
