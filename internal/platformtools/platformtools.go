package platformtools

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"os"
	"os/exec"
)

var ErrToolNotFound = errors.New("tool not found")

type ToolName string

const (
	WoeUSB ToolName = "woeusb"
	PKExec ToolName = "pkexec"
	Sudo   ToolName = "sudo"
	Lsblk  ToolName = "lsblk"
)

type Config struct {
	Overrides map[ToolName]string
	LookPath  func(file string) (string, error)
	Logger    *logrus.Logger
}

// PlatformTools resolves the host executables the installer depends on.
type PlatformTools struct {
	overrides map[ToolName]string
	lookPath  func(file string) (string, error)
	logger    *logrus.Logger
}

func New(config *Config) *PlatformTools {
	lookPath := config.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	overrides := map[ToolName]string{}
	for name, path := range config.Overrides {
		if path != "" {
			overrides[name] = path
		}
	}
	return &PlatformTools{
		overrides: overrides,
		lookPath:  lookPath,
		logger:    config.Logger,
	}
}

func (p *PlatformTools) Path(name ToolName) (string, error) {
	if override, ok := p.overrides[name]; ok {
		p.logger.Debugf("using configured path %v for %v", override, name)
		info, err := os.Stat(override)
		if err != nil {
			return "", fmt.Errorf("%w: %v: %v", ErrToolNotFound, name, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %v: %v is a directory", ErrToolNotFound, name, override)
		}
		return override, nil
	}
	path, err := p.lookPath(string(name))
	if err != nil {
		return "", fmt.Errorf("%w: %v: %v", ErrToolNotFound, name, err)
	}
	p.logger.Debugf("found %v at %v", name, path)
	return path, nil
}

// Available reports whether a tool can be resolved, without the error detail.
func (p *PlatformTools) Available(name ToolName) bool {
	_, err := p.Path(name)
	return err == nil
}

// CheckRequired fails on the first RequiredTools entry that cannot be found.
func (p *PlatformTools) CheckRequired() error {
	for _, name := range RequiredTools {
		if _, err := p.Path(name); err != nil {
			return err
		}
	}
	return nil
}
