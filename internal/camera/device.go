package camera

import (
	"strings"

	"golang.org/x/sys/unix"

	"bodywise/internal/services"
)

// CheckDevice verifies the configured capture device node exists and is
// readable by this process. A failing check maps to the camera prerequisite
// error phase.
func CheckDevice(device string) error {
	device = strings.TrimSpace(device)
	if device == "" {
		return services.Wrap(services.ErrConfiguration, "camera", "check", "device path required", nil)
	}
	if err := unix.Access(device, unix.R_OK); err != nil {
		return services.Wrap(services.ErrUnavailable, "camera", "check",
			"device "+device+" not accessible", err)
	}
	return nil
}
