//go:generate mockgen -destination=mocks/mocks.go -package=mocks . DeviceLister
package devicediscovery

import (
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/device"
	"sort"
)

var (
	ErrNoDevicesFound = errors.New("no removable devices detected")
	ErrGetDevices     = errors.New("unable to get devices")
)

type DeviceLister interface {
	ListDevices() ([]*device.Device, error)
	Name() string
}

type Discovery struct {
	lister DeviceLister
	logger *logrus.Logger
}

func New(lister DeviceLister, logger *logrus.Logger) *Discovery {
	return &Discovery{
		lister: lister,
		logger: logger,
	}
}

// DiscoverDevices returns a fresh list of removable devices sorted by path.
// Each call replaces the previous result entirely.
func (d *Discovery) DiscoverDevices() ([]*device.Device, error) {
	listerName := d.lister.Name()
	d.logger.Debugf("discovering %v devices", listerName)
	listed, err := d.lister.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("%v %w: %v", listerName, ErrGetDevices, err)
	}

	seen := map[string]bool{}
	var devices []*device.Device
	for _, dev := range listed {
		if dev.Name == "" {
			d.logger.Warnf("%v skipping device without a name", listerName)
			continue
		}
		if seen[dev.Name] {
			d.logger.Warnf("%v skipping duplicate device %v", listerName, dev.Name)
			continue
		}
		seen[dev.Name] = true
		d.logger.Debugf("%v found %v", listerName, dev)
		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path() < devices[j].Path()
	})
	return devices, nil
}
