package platformtools

import "fmt"

type SupportedHostOS string

const (
	OSLinux SupportedHostOS = "linux"
)

var SupportedHostOSes = []SupportedHostOS{OSLinux}

// RequiredTools are needed before any install can start. pkexec and sudo are
// optional: the launcher skips whichever is missing, and root needs neither.
var RequiredTools = []ToolName{Lsblk}

func CheckHostOS(hostOS string) error {
	for _, supported := range SupportedHostOSes {
		if SupportedHostOS(hostOS) == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported host os %v: supported %v", hostOS, SupportedHostOSes)
}
