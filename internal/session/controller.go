package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

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
	"bodywise/internal/services"
)

const notifyTimeout = 10 * time.Second

// Analyzer scores one frame against one target pose description.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, currentPoseLabel string, spec poses.Spec) (analysis.Result, error)
}

// FrameSampler extracts a validated still frame from a live source.
type FrameSampler interface {
	Capture(ctx context.Context, source frames.Source) (frames.Frame, error)
}

// RecordStore persists photo records durably.
type RecordStore interface {
	Write(ctx context.Context, record photostore.Record) error
	Reset(ctx context.Context, poseID string) error
}

// GuideSource supplies advisory overlay templates per pose.
type GuideSource interface {
	Ready() bool
	Guide(spec poses.Spec) []poses.Landmark
}

// Deps collects the controller's collaborators. Catalog, Analyzer, Sampler,
// Source, Store, and Profiles are required; the rest default to noops.
type Deps struct {
	Catalog     *poses.Catalog
	Analyzer    Analyzer
	Sampler     FrameSampler
	Source      frames.Source
	Store       RecordStore
	Profiles    profile.Provider
	Presenter   feedback.Presenter
	Advisor     GuideSource
	Notifier    notifications.Service
	CameraCheck func() error
	Logger      *slog.Logger
}

func (d *Deps) validate() error {
	switch {
	case d.Catalog == nil || d.Catalog.Len() == 0:
		return errors.New("session: pose catalog required")
	case d.Analyzer == nil:
		return errors.New("session: analyzer required")
	case d.Sampler == nil:
		return errors.New("session: frame sampler required")
	case d.Source == nil:
		return errors.New("session: frame source required")
	case d.Store == nil:
		return errors.New("session: record store required")
	case d.Profiles == nil:
		return errors.New("session: profile provider required")
	}
	return nil
}

// Controller is the guided-capture state machine. It owns the capture
// session exclusively; a single event-loop goroutine applies every state
// change, so collaborators never observe partial transitions.
type Controller struct {
	cfg       *config.Config
	deps      Deps
	base      *slog.Logger
	logger    *slog.Logger
	timings   timings
	sessionID string

	events   chan event
	sched    *scheduler
	ctx      context.Context
	cancel   context.CancelFunc
	loopDone chan struct{}
	terminal chan struct{}
	termOnce sync.Once
	stopOnce sync.Once

	mu             sync.Mutex
	state          state
	analysisCancel context.CancelFunc
	started        bool
	startedAt      time.Time
}

// New builds a controller for one capture session.
func New(cfg *config.Config, deps Deps) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("session: config required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Presenter == nil {
		deps.Presenter = feedback.Noop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewNoop()
	}

	sessionID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	ctx = services.WithSessionID(ctx, sessionID)
	c := &Controller{
		cfg:       cfg,
		deps:      deps,
		sessionID: sessionID,
		timings: timings{
			sampleInterval: cfg.SampleInterval(),
			prepDelay:      cfg.PrepDelay(),
			captureDwell:   cfg.CaptureDwell(),
			confirmDwell:   cfg.ConfirmDwell(),
		},
		events:   make(chan event, 32),
		ctx:      ctx,
		cancel:   cancel,
		loopDone: make(chan struct{}),
		terminal: make(chan struct{}),
		state:    newState(deps.Catalog),
	}
	c.sched = newScheduler(c.post)

	c.base = logging.NewComponentLogger(deps.Logger, "session")
	c.logger = logging.WithContext(c.ctx, c.base)
	return c, nil
}

// SessionID returns the unique identifier for this session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Start launches the event loop, starts the frame source, and kicks off the
// prerequisite checks. The session lands in ready or a labeled error phase.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("session: already started")
	}
	c.started = true
	c.startedAt = time.Now()
	c.mu.Unlock()

	if err := c.deps.Source.Start(c.ctx); err != nil {
		return services.Wrap(services.ErrUnavailable, "session", "start", "frame source start failed", err)
	}

	go func() {
		select {
		case <-ctx.Done():
			c.cancel()
		case <-c.ctx.Done():
		}
	}()
	go c.loop()

	c.logger.Info("session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.Int("pose_count", c.deps.Catalog.Len()),
	)
	c.evaluatePrerequisitesAsync()
	return nil
}

// Begin starts pose progression once the session is ready.
func (c *Controller) Begin() { c.post(beginRequested{}) }

// Pause suspends sampling and cancels any in-flight analysis.
func (c *Controller) Pause() { c.post(pauseRequested{}) }

// Resume re-enters pose initialization for the current pose.
func (c *Controller) Resume() { c.post(resumeRequested{}) }

// RetryPose clears the active pose's record and restarts it. Idempotent and
// callable from any non-terminal phase.
func (c *Controller) RetryPose() { c.post(retryPoseRequested{}) }

// RetryPrerequisites resets the session and re-runs the prerequisite checks.
func (c *Controller) RetryPrerequisites() { c.post(retryPrerequisitesRequested{}) }

// HandleCameraEvent feeds hotplug events into the session. A detach of the
// capture device ends the session with a camera error.
func (c *Controller) HandleCameraEvent(ev camera.Event) {
	if !ev.Attached {
		c.post(cameraLost{device: ev.Device})
	}
}

// Done is closed when the session reaches a terminal phase.
func (c *Controller) Done() <-chan struct{} {
	return c.terminal
}

// Snapshot returns a read-only copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Phase:       c.state.phase,
		PoseIndex:   c.state.poseIndex,
		Correctness: c.state.correctness,
		Photos:      c.state.snapshotPhotos(),
	}
	if spec, ok := c.deps.Catalog.At(c.state.poseIndex); ok {
		snap.PoseID = spec.ID
	}
	return snap
}

// Stop tears the session down: pending timers are cancelled, any in-flight
// analysis is aborted, and the frame source is released. Runs the same
// cleanup on every exit path.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	var waitErr error
	c.stopOnce.Do(func() {
		if started {
			c.post(stopRequested{})
			select {
			case <-c.loopDone:
			case <-ctx.Done():
				waitErr = ctx.Err()
			}
		}
		c.cancel()
		c.sched.Shutdown()
		c.abortAnalysis()
		c.deps.Source.Stop()
		c.logger.Info("session stopped",
			logging.String(logging.FieldEventType, "session_stopped"),
		)
	})
	return waitErr
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

func (c *Controller) loop() {
	defer close(c.loopDone)
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ev)
			if _, stopped := ev.(stopRequested); stopped {
				return
			}
		}
	}
}

func (c *Controller) handle(ev event) {
	c.mu.Lock()
	before := c.state.phase
	next, cmds := transition(c.state, ev, c.deps.Catalog, c.timings)
	c.state = next
	c.mu.Unlock()

	if next.phase != before {
		c.logger.Info("phase transition",
			logging.String(logging.FieldEventType, "phase_transition"),
			logging.String("from", before.String()),
			logging.String(logging.FieldPhase, next.phase.String()),
			logging.Int("pose_index", next.poseIndex),
		)
	}
	for _, cmd := range cmds {
		c.execute(cmd)
	}
	if next.phase.IsTerminal() {
		c.termOnce.Do(func() { close(c.terminal) })
	}
}

func (c *Controller) execute(cmd command) {
	switch cmd := cmd.(type) {
	case cmdAnnounce:
		c.deps.Presenter.Announce(cmd.text)
	case cmdOverlay:
		c.deps.Presenter.ShowOverlay(cmd.landmarks, cmd.hint)
	case cmdShowGuide:
		if c.deps.Advisor == nil {
			return
		}
		if guide := c.deps.Advisor.Guide(cmd.spec); len(guide) > 0 {
			c.deps.Presenter.ShowOverlay(guide, feedback.ColorNeutral)
		}
	case cmdToast:
		c.deps.Presenter.Toast(cmd.title, cmd.message, cmd.severity)
	case cmdStartTicker:
		c.sched.StartTicker(cmd.interval)
	case cmdStopTicker:
		c.sched.StopTicker()
	case cmdAfter:
		c.sched.After(cmd.delay, cmd.next)
	case cmdBeginAnalysis:
		c.beginAnalysis(cmd)
	case cmdAbortAnalysis:
		c.abortAnalysis()
	case cmdPersistRecord:
		c.persistRecord(cmd.record)
	case cmdResetRecord:
		if err := c.deps.Store.Reset(c.ctx, cmd.poseID); err != nil {
			c.logger.Warn("photo record reset failed",
				logging.Error(err),
				logging.String(logging.FieldPose, cmd.poseID),
			)
		}
	case cmdEvaluatePrerequisites:
		c.evaluatePrerequisitesAsync()
	case cmdNotifySessionStarted:
		c.notifyAsync("session started", func(ctx context.Context) error {
			return c.deps.Notifier.NotifySessionStarted(ctx, cmd.poseCount)
		})
	case cmdNotifyPoseConfirmed:
		c.notifyAsync("pose confirmed", func(ctx context.Context) error {
			return c.deps.Notifier.NotifyPoseConfirmed(ctx, cmd.poseName, cmd.index, cmd.total)
		})
	case cmdNotifySessionCompleted:
		elapsed := time.Since(c.startedAt)
		c.notifyAsync("session completed", func(ctx context.Context) error {
			return c.deps.Notifier.NotifySessionCompleted(ctx, cmd.poseCount, elapsed)
		})
	case cmdNotifyError:
		c.notifyAsync("session error", func(ctx context.Context) error {
			return c.deps.Notifier.NotifyError(ctx, cmd.err, cmd.context)
		})
	}
}

// beginAnalysis samples a frame and runs one analysis round trip off the
// event loop. The context carries the session, pose, and request ids so both
// the log records and the wire request correlate; the stored cancel func is
// the session's single-flight handle, and the phase guard in transition
// keeps a second call from ever starting.
func (c *Controller) beginAnalysis(cmd cmdBeginAnalysis) {
	ctx := services.WithPose(c.ctx, cmd.spec.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx, cancel := context.WithCancel(ctx)
	logger := logging.WithContext(ctx, c.base)

	c.mu.Lock()
	c.analysisCancel = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()

		frame, err := c.deps.Sampler.Capture(ctx, c.deps.Source)
		if err != nil {
			if services.IsNotReady(err) {
				logger.Debug("frame source not ready, skipping tick")
			} else {
				logger.Warn("frame capture failed", logging.Error(err))
			}
			c.post(sampleUnavailable{epoch: cmd.epoch})
			return
		}

		label := fmt.Sprintf("user attempting %s", cmd.spec.Name)
		result, err := c.deps.Analyzer.Analyze(ctx, frame.Data, label, cmd.spec)
		if err != nil {
			logger.Warn("pose analysis failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Classify(err)),
			)
		}
		c.post(analysisFinished{epoch: cmd.epoch, frame: frame, result: result, err: err})
	}()
}

func (c *Controller) abortAnalysis() {
	c.mu.Lock()
	cancel := c.analysisCancel
	c.analysisCancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) persistRecord(record photostore.Record) {
	if err := c.deps.Store.Write(c.ctx, record); err != nil {
		c.logger.Error("photo record write failed",
			logging.Error(err),
			logging.String(logging.FieldPose, record.PoseID),
		)
		c.deps.Presenter.Toast("Storage", "Captured photo could not be saved.", feedback.SeverityWarning)
		return
	}
	c.logger.Info("photo record written",
		logging.String(logging.FieldEventType, "photo_record_written"),
		logging.String(logging.FieldPose, record.PoseID),
		logging.Int("bytes", len(record.ImageData)),
	)
}

// evaluatePrerequisitesAsync runs the prerequisite checks off the event loop
// and reports the outcome as a single event. Checks run only at start and on
// explicit retry, never continuously.
func (c *Controller) evaluatePrerequisitesAsync() {
	go func() {
		ev := prerequisitesEvaluated{advisorReady: true}

		prof, err := c.deps.Profiles.Load()
		if err != nil {
			c.logger.Warn("profile load failed", logging.Error(err))
			ev.missingProfile = []string{"profile"}
		} else {
			ev.missingProfile = prof.MissingFields()
		}

		if c.deps.CameraCheck != nil {
			ev.cameraErr = c.deps.CameraCheck()
		}
		if c.deps.Advisor != nil {
			ev.advisorReady = c.deps.Advisor.Ready()
		}
		c.post(ev)
	}()
}

func (c *Controller) notifyAsync(label string, send func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			c.logger.Warn("notification failed",
				logging.Error(err),
				logging.String("notification", label),
			)
		}
	}()
}
