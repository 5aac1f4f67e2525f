package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gitlab.com/woeusb/woeusb-flasher/internal/color"
	"gitlab.com/woeusb/woeusb-flasher/internal/device"
	"gitlab.com/woeusb/woeusb-flasher/internal/devicediscovery"
	"gitlab.com/woeusb/woeusb-flasher/internal/imagediscovery"
	"gitlab.com/woeusb/woeusb-flasher/internal/install"
	"gitlab.com/woeusb/woeusb-flasher/internal/launcher"
	"gitlab.com/woeusb/woeusb-flasher/internal/platformtools"
	"gitlab.com/woeusb/woeusb-flasher/internal/platformtools/lsblk"
	"gitlab.com/woeusb/woeusb-flasher/internal/platformtools/woeusb"
	"gitlab.com/woeusb/woeusb-flasher/internal/process"
	"gitlab.com/woeusb/woeusb-flasher/internal/progress"
	"gitlab.com/woeusb/woeusb-flasher/internal/prompt"
	"gitlab.com/woeusb/woeusb-flasher/internal/sourceimage"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

var (
	imagePath          string
	deviceName         string
	woeusbPath         string
	logFile            string
	assumeYes          bool
	listOnly           bool
	debug              bool
	pollInterval       time.Duration
	hostOS             = runtime.GOOS
	logger             = logrus.New()
	logHook            *fileHook
	console            = prompt.NewTerminal(os.Stdin, os.Stdout)
	cleanupDirectories []string
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "image",
			Usage:       "Windows ISO file, a directory holding one, or an archive containing one",
			Destination: &imagePath,
			Sources:     cli.EnvVars("WOEUSB_IMAGE"),
		},
		&cli.StringFlag{
			Name:        "device",
			Usage:       "target device name or path, e.g. sdb or /dev/sdb",
			Destination: &deviceName,
			Sources:     cli.EnvVars("WOEUSB_DEVICE"),
		},
		&cli.BoolFlag{
			Name:        "yes",
			Usage:       "do not ask before erasing the device",
			Destination: &assumeYes,
		},
		&cli.BoolFlag{
			Name:        "list",
			Usage:       "list removable devices and exit",
			Destination: &listOnly,
		},
		&cli.StringFlag{
			Name:        "woeusb",
			Usage:       "path to the woeusb executable",
			Destination: &woeusbPath,
			Sources:     cli.EnvVars("WOEUSB_BIN"),
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "debug logging",
			Destination: &debug,
			Sources:     cli.EnvVars("WOEUSB_DEBUG"),
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append the log to this file",
			Destination: &logFile,
			Sources:     cli.EnvVars("WOEUSB_LOG_FILE"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "how often installer output is collected",
			Value:       progress.DefaultPollInterval,
			Destination: &pollInterval,
			Sources:     cli.EnvVars("WOEUSB_POLL_INTERVAL"),
		},
	}
}

func main() {
	app := &cli.Command{
		Name:  "woeusb-flasher",
		Usage: "create a bootable Windows USB drive with woeusb",
		Flags: flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, setupLogger()
		},
		Action: run,
	}

	cleanupOnCtrlC()
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error(color.Red(err))
	}
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	formatter := &prefixed.TextFormatter{ForceColors: true, ForceFormatting: true}
	formatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle: "white",
	})
	logger.SetFormatter(formatter)
	logger.SetOutput(colorable.NewColorableStdout())
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		hook, err := newFileHook(logFile)
		if err != nil {
			return err
		}
		logHook = hook
		logger.AddHook(hook)
	}
	return nil
}

func run(ctx context.Context, c *cli.Command) error {
	err := platformtools.CheckHostOS(hostOS)
	if err != nil {
		return err
	}

	// platform tools setup
	logger.Debug("locating platform tools")
	tools := platformtools.New(&platformtools.Config{
		Overrides: map[platformtools.ToolName]string{platformtools.WoeUSB: woeusbPath},
		Logger:    logger,
	})
	err = tools.CheckRequired()
	if err != nil {
		return err
	}
	lsblkPath, err := tools.Path(platformtools.Lsblk)
	if err != nil {
		return err
	}
	discovery := devicediscovery.New(lsblk.New(lsblkPath), logger)

	if listOnly {
		devices, err := discovery.DiscoverDevices()
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}
		for _, d := range devices {
			logger.Infof("💾 %v", d)
		}
		return nil
	}

	// woeusb setup
	woeusbExecutable, err := tools.Path(platformtools.WoeUSB)
	if err != nil {
		return fmt.Errorf("woeusb is required: %w", err)
	}
	woeusbTool := woeusb.New(woeusbExecutable)
	if version, err := woeusbTool.Version(); err != nil {
		logger.Debugf("unable to read %v version: %v", woeusbTool.Name(), err)
	} else {
		logger.Debugf("using %v %v", woeusbTool.Name(), version)
	}

	// image discovery
	if imagePath == "" {
		return errors.New("--image flag must be specified")
	}
	logger.Debug("running image discovery")
	discovered, err := imagediscovery.Discover(imagePath)
	if err != nil {
		return fmt.Errorf("image discovery failed for %v: %w", imagePath, err)
	}
	workingDirectory := ""
	if sourceimage.IsArchive(discovered) {
		workingDirectory, err = tempExtractDir("image")
		if err != nil {
			return fmt.Errorf("failed to create temp dir for image: %w", err)
		}
	}
	iso, err := sourceimage.New(&sourceimage.Config{
		ImagePath:        discovered,
		WorkingDirectory: workingDirectory,
		Logger:           logger,
	}).Prepare()
	if err != nil {
		return err
	}
	logger.Infof("💿 image=%v", iso)

	// device selection
	devices, selection, err := selectDevice(discovery, console)
	if err != nil {
		return err
	}

	// privilege escalation setup, an empty path skips that strategy
	pkexecPath := ""
	if tools.Available(platformtools.PKExec) {
		pkexecPath, _ = tools.Path(platformtools.PKExec)
	}
	sudoPath := ""
	if tools.Available(platformtools.Sudo) {
		sudoPath, _ = tools.Path(platformtools.Sudo)
	} else {
		logger.Debug("sudo unavailable")
	}
	installLauncher := launcher.New(&launcher.Config{
		WoeUSB:   woeusbTool,
		PKExec:   pkexecPath,
		Sudo:     sudoPath,
		Runner:   process.NewRunner(logger),
		Prompter: console,
		Logger:   logger,
	})

	_, err = install.New(&install.Config{
		Launcher:     installLauncher,
		Confirmer:    console,
		PollInterval: pollInterval,
		AssumeYes:    assumeYes,
		Logger:       logger,
	}).Install(install.Request{
		ImagePath: iso,
		Selection: selection,
		Devices:   devices,
	})
	return err
}

// selectDevice returns the current device list and the entry the user picked,
// refreshing the list on request.
func selectDevice(discovery *devicediscovery.Discovery, terminal *prompt.Terminal) ([]*device.Device, string, error) {
	for {
		devices, err := discovery.DiscoverDevices()
		if err != nil {
			return nil, "", fmt.Errorf("failed to run device discovery: %w", err)
		}
		if deviceName != "" {
			d, err := device.Lookup(devices, deviceName)
			if err != nil {
				return nil, "", err
			}
			return devices, d.String(), nil
		}

		options := make([]string, len(devices))
		for i, d := range devices {
			options[i] = d.String()
		}
		choice, err := terminal.Choose("Select the target USB device:", options)
		switch {
		case errors.Is(err, prompt.ErrRefresh):
			logger.Debug("refreshing device list")
			continue
		case errors.Is(err, prompt.ErrInvalidChoice):
			logger.Warn(err)
			continue
		case err != nil:
			return nil, "", err
		}
		return devices, options[choice], nil
	}
}

func tempExtractDir(usage string) (string, error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("woeusb-flasher-extracted-%v", usage))
	if err != nil {
		return "", err
	}
	cleanupDirectories = append(cleanupDirectories, dir)
	return dir, nil
}

func cleanup() {
	for _, dir := range cleanupDirectories {
		err := os.RemoveAll(dir)
		if err != nil {
			fmt.Printf("cleanup error removing dir %v: %v\n", dir, err)
		}
	}
	cleanupDirectories = nil
	if logHook != nil {
		if err := logHook.Close(); err != nil {
			fmt.Printf("cleanup error closing log file: %v\n", err)
		}
	}
}

func cleanupOnCtrlC() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if err := console.Restore(); err != nil {
			fmt.Printf("cleanup error restoring terminal: %v\n", err)
		}
		fmt.Println("\r- Ctrl+C pressed in Terminal")
		cleanup()
		os.Exit(exitInterrupted)
	}()
}
