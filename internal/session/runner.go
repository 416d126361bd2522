package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"bodywise/internal/advisor"
	"bodywise/internal/analysis"
	"bodywise/internal/camera"
	"bodywise/internal/config"
	"bodywise/internal/feedback"
	"bodywise/internal/frames"
	"bodywise/internal/logging"
	"bodywise/internal/notifications"
	"bodywise/internal/photostore"
	"bodywise/internal/poses"
	"bodywise/internal/profile"
)

// Runner wires the full capture stack for the CLI: photo storage, analysis
// client, frame source, advisory guide, hotplug monitor, and a flock-based
// single-instance lock. One Runner executes one session.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	controller *Controller
	store      *photostore.Store
	monitor    *camera.Monitor
	lockPath   string
	lock       *flock.Flock
}

// NewRunner builds the session dependency graph from configuration.
func NewRunner(cfg *config.Config, presenter feedback.Presenter, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("session: config required")
	}
	if cfg.Camera.SnapshotURL == "" {
		return nil, errors.New("session: camera snapshot_url required to run a capture session")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := photostore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open photo store: %w", err)
	}

	catalog := poses.Default()

	var adv *advisor.Advisor
	if cfg.Advisor.Enabled {
		if cfg.Advisor.TemplatePath != "" {
			adv, err = advisor.NewFromFile(catalog, cfg.Advisor.TemplatePath)
			if err != nil {
				_ = store.Close()
				return nil, err
			}
		} else {
			adv = advisor.New(catalog)
		}
	}

	snapshotTimeout := time.Duration(cfg.Camera.RequestTimeout) * time.Second
	source, err := frames.NewSnapshotSource(cfg.Camera.SnapshotURL, snapshotTimeout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	provider, err := profile.NewFileProvider(cfg.Profile.Path)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	clientOpts := []analysis.Option{analysis.WithBaseURL(cfg.Analysis.BaseURL)}
	if cfg.Analysis.MaxAttempts > 0 {
		clientOpts = append(clientOpts, analysis.WithMaxAttempts(cfg.Analysis.MaxAttempts))
	}
	if cfg.Analysis.TimeoutSeconds > 0 {
		clientOpts = append(clientOpts, analysis.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second,
		}))
	}
	client := analysis.NewClient(cfg.Analysis.APIKey, clientOpts...)

	deps := Deps{
		Catalog:   catalog,
		Analyzer:  client,
		Sampler:   frames.NewSampler(),
		Source:    source,
		Store:     store,
		Profiles:  provider,
		Presenter: presenter,
		Notifier:  notifications.NewService(cfg),
		Logger:    logger,
	}
	if adv != nil {
		deps.Advisor = adv
	}
	if device := cfg.Camera.Device; device != "" {
		deps.CameraCheck = func() error { return camera.CheckDevice(device) }
	}

	controller, err := New(cfg, deps)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "bodywise.lock")
	runner := &Runner{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "runner"),
		controller: controller,
		store:      store,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	if cfg.Camera.Device != "" {
		runner.monitor = camera.NewMonitor(cfg.Camera.Device, logger, controller.HandleCameraEvent)
	}
	return runner, nil
}

// Controller returns the underlying session controller.
func (r *Runner) Controller() *Controller {
	return r.controller
}

// Store returns the photo store backing this runner.
func (r *Runner) Store() *photostore.Store {
	return r.store
}

// Run executes one guided capture session to completion, a terminal error
// phase, or context cancellation.
func (r *Runner) Run(ctx context.Context) error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return errors.New("another bodywise session is already running")
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("failed to release session lock", logging.Error(err))
		}
	}()

	if err := r.controller.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.controller.Stop(stopCtx)
	}()

	if r.monitor != nil {
		_ = r.monitor.Start(ctx)
		defer r.monitor.Stop()
	}

	if err := r.waitPrerequisites(ctx); err != nil {
		return err
	}
	snap := r.controller.Snapshot()
	if snap.Phase != PhaseReady {
		return fmt.Errorf("session cannot start: %s", describeBlockedPhase(snap.Phase))
	}

	r.controller.Begin()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.controller.Done():
	}

	final := r.controller.Snapshot()
	if final.Phase != PhaseComplete {
		return fmt.Errorf("session ended in phase %s", final.Phase)
	}
	return nil
}

// Close releases the runner's resources.
func (r *Runner) Close() error {
	if r.monitor != nil {
		r.monitor.Stop()
	}
	return r.store.Close()
}

// waitPrerequisites blocks until the prerequisite checks resolve the phase.
func (r *Runner) waitPrerequisites(ctx context.Context) error {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		if r.controller.Snapshot().Phase != PhaseIdle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func describeBlockedPhase(phase Phase) string {
	switch phase {
	case PhasePrerequisitesUnmet:
		return "profile is incomplete; set height, weight, and age with 'bodywise profile set'"
	case PhaseErrorCamera:
		return "camera is unavailable; connect the device and check camera settings"
	case PhaseErrorService:
		return "advisory pose guide failed to load"
	default:
		return fmt.Sprintf("unexpected phase %s", phase)
	}
}
