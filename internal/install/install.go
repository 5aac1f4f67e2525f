//go:generate mockgen -destination=mocks/mocks.go -package=mocks . InstallLauncher,Confirmer
package install

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/color"
	"gitlab.com/woeusb/woeusb-flasher/internal/device"
	"gitlab.com/woeusb/woeusb-flasher/internal/launcher"
	"gitlab.com/woeusb/woeusb-flasher/internal/progress"
	"golang.org/x/sync/errgroup"
	"os"
	"strings"
	"time"
)

const (
	DefaultQueueSize = 64
	MessageSucceeded = "The USB drive has been successfully created!"
	MessageFailed    = "Installation failed. Check the log for details."
	confirmTemplate  = "This will ERASE all data on %v.\nAre you sure you want to proceed?"
)

var (
	ErrInvalidImage     = errors.New("please select a valid Windows ISO file")
	ErrNoDeviceSelected = errors.New("please select a target USB device")
	ErrNotConfirmed     = errors.New("installation not confirmed")
)

type InstallLauncher interface {
	Launch(req launcher.Request, lines chan<- string) error
}

type Confirmer interface {
	Confirm(message string) (bool, error)
}

type Config struct {
	Launcher     InstallLauncher
	Confirmer    Confirmer
	PollInterval time.Duration
	QueueSize    int
	AssumeYes    bool
	Logger       *logrus.Logger
}

type Request struct {
	ImagePath string
	Selection string
	Devices   []*device.Device
}

type Result struct {
	Progress int
	State    progress.State
}

type Install struct {
	launcher     InstallLauncher
	confirmer    Confirmer
	pollInterval time.Duration
	queueSize    int
	assumeYes    bool
	logger       *logrus.Logger
}

func New(config *Config) *Install {
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Install{
		launcher:     config.Launcher,
		confirmer:    config.Confirmer,
		pollInterval: config.PollInterval,
		queueSize:    queueSize,
		assumeYes:    config.AssumeYes,
		logger:       config.Logger,
	}
}

// Validate checks the request and returns the device it targets.
func (i *Install) Validate(req Request) (*device.Device, error) {
	if req.ImagePath == "" {
		return nil, ErrInvalidImage
	}
	info, err := os.Stat(req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %v is a directory", ErrInvalidImage, req.ImagePath)
	}
	if strings.TrimSpace(req.Selection) == "" {
		return nil, ErrNoDeviceSelected
	}
	return device.Resolve(req.Devices, req.Selection)
}

// Install validates and confirms the request, then runs the launcher on a
// worker goroutine while the calling goroutine drains its output.
func (i *Install) Install(req Request) (*Result, error) {
	target, err := i.Validate(req)
	if err != nil {
		return nil, err
	}
	logger := i.logger.WithFields(logrus.Fields{
		"image":  req.ImagePath,
		"device": target.Path(),
	})

	if i.assumeYes {
		logger.Debug("skipping confirmation")
	} else {
		ok, err := i.confirmer.Confirm(fmt.Sprintf(confirmTemplate, target.Path()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConfirmed, err)
		}
		if !ok {
			return nil, ErrNotConfirmed
		}
	}

	logger.Info("starting installation")
	sink := progress.NewSink(&progress.SinkConfig{
		PollInterval: i.pollInterval,
		Logger:       i.logger,
	})
	lines := make(chan string, i.queueSize)
	var g errgroup.Group
	g.Go(func() error {
		defer close(lines)
		return i.launcher.Launch(launcher.Request{
			ImagePath:  req.ImagePath,
			DevicePath: target.Path(),
		}, lines)
	})
	sink.Drain(lines)
	err = g.Wait()

	tracker := sink.Tracker()
	result := &Result{Progress: tracker.Value(), State: tracker.State()}
	if err != nil || result.State != progress.Succeeded {
		logger.Error(color.Red(MessageFailed))
		if err == nil {
			err = launcher.ErrInstallFailed
		}
		return result, err
	}
	logger.Info(color.Green(MessageSucceeded))
	return result, nil
}
