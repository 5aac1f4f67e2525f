package lsblk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"gitlab.com/woeusb/woeusb-flasher/internal/device"
	"os/exec"
	"strconv"
	"strings"
)

const (
	lsblkExecutable = "lsblk"
	unknownModel    = "Unknown"
	diskType        = "disk"
	usbTransport    = "usb"
)

var (
	ErrCommandFailure = errors.New("failed running command")
	ErrParse          = errors.New("unable to parse lsblk output")
)

var listArgs = []string{"--json", "--bytes", "--nodeps", "--output", "NAME,MODEL,SIZE,RM,TRAN,TYPE"}

type Tool struct {
	executable string
	run        func(executable string, args []string) ([]byte, error)
}

func New(executable string) *Tool {
	if executable == "" {
		executable = lsblkExecutable
	}
	return &Tool{
		executable: executable,
		run:        command,
	}
}

func (t *Tool) ListDevices() ([]*device.Device, error) {
	resp, err := t.run(t.executable, listArgs)
	if err != nil {
		return nil, err
	}
	return parseDevices(resp)
}

func (t *Tool) Name() string {
	return lsblkExecutable
}

func command(executable string, args []string) ([]byte, error) {
	cmd := exec.Command(executable, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	data, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", ErrCommandFailure, err, strings.TrimSpace(stderr.String()))
	}
	return data, nil
}

type listing struct {
	BlockDevices []blockDevice `json:"blockdevices"`
}

type blockDevice struct {
	Name      string   `json:"name"`
	Model     string   `json:"model"`
	Size      flexUint `json:"size"`
	Removable flexBool `json:"rm"`
	Transport string   `json:"tran"`
	Type      string   `json:"type"`
}

// util-linux before 2.33 reports numbers and booleans as strings.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexUint(n)
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

func parseDevices(data []byte) ([]*device.Device, error) {
	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	var devices []*device.Device
	for _, bd := range l.BlockDevices {
		if bd.Type != diskType {
			continue
		}
		if !bool(bd.Removable) && bd.Transport != usbTransport {
			continue
		}
		if bd.Size == 0 {
			// empty card readers report a zero sized medium
			continue
		}
		model := strings.TrimSpace(bd.Model)
		if model == "" {
			model = unknownModel
		}
		devices = append(devices, device.New(bd.Name, model, humanize.IBytes(uint64(bd.Size))))
	}
	return devices, nil
}
