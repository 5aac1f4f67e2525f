package device

import (
	"errors"
	"fmt"
	"strings"
)

const DevDirectory = "/dev/"

var (
	ErrUnknownSelection = errors.New("could not determine the selected device path")
	ErrUnknownDevice    = errors.New("device is not a listed removable device")
)

// Device is a removable block device as reported by the device lister.
// Records are replaced wholesale on every refresh.
type Device struct {
	Name  string
	Model string
	Size  string
}

func New(name, model, size string) *Device {
	return &Device{
		Name:  name,
		Model: model,
		Size:  size,
	}
}

func (d *Device) Path() string {
	return DevDirectory + d.Name
}

func (d *Device) String() string {
	return fmt.Sprintf("%v - %v (%v)", d.Name, d.Model, d.Size)
}

// Resolve maps a display string back to the listed device whose name prefixes
// it. When several names prefix the selection the longest one wins, so sda
// never captures a selection for sdaa.
func Resolve(devices []*Device, selection string) (*Device, error) {
	var resolved *Device
	for _, d := range devices {
		if d.Name == "" || !strings.HasPrefix(selection, d.Name) {
			continue
		}
		if resolved == nil || len(d.Name) > len(resolved.Name) {
			resolved = d
		}
	}
	if resolved == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, selection)
	}
	return resolved, nil
}

// Lookup finds a listed device by exact name or device path.
func Lookup(devices []*Device, nameOrPath string) (*Device, error) {
	name := strings.TrimPrefix(nameOrPath, DevDirectory)
	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownDevice, nameOrPath)
}
