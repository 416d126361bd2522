package camera

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"bodywise/internal/logging"
)

// Event reports a camera attach or detach for the watched device.
type Event struct {
	Device   string
	Attached bool
}

// Monitor listens for udev netlink events on the video4linux subsystem and
// reports attach/detach of the configured capture device. Losing netlink
// access is non-fatal; sessions then rely on the up-front device check only.
type Monitor struct {
	device  string
	logger  *slog.Logger
	handler func(Event)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a hotplug monitor for the given device node. Returns
// nil when no device is configured.
func NewMonitor(device string, logger *slog.Logger, handler func(Event)) *Monitor {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil
	}
	return &Monitor{
		device:  device,
		logger:  logging.NewComponentLogger(logger, "camera-monitor"),
		handler: handler,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; camera hotplug detection unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the process can access netlink sockets"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("camera monitor started",
		logging.String(logging.FieldEventType, "camera_monitor_started"),
		logging.String("device", m.device),
	)
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("camera monitor stopped",
		logging.String(logging.FieldEventType, "camera_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
			)
		}
	}
}

// buildMatcher matches add/remove events on the video4linux subsystem.
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if devname != m.device {
		m.logger.Debug("ignoring event for non-configured device",
			logging.String("device", devname),
			logging.String("configured_device", m.device),
		)
		return
	}

	attached := uevent.Action == netlink.ADD
	m.logger.Info("camera hotplug event",
		logging.String(logging.FieldEventType, "camera_hotplug"),
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)),
	)

	if m.handler != nil {
		m.handler(Event{Device: devname, Attached: attached})
	}
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname, ok := uevent.Env["DEVNAME"]; ok && devname != "" {
		if strings.HasPrefix(devname, "/") {
			return devname
		}
		return filepath.Join("/dev", devname)
	}
	return ""
}
