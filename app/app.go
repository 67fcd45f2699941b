// Package app owns the viewer state and runs one frame at a time: step the
// world, read its snapshot, synchronize instance pools, resolve the pointer,
// drive the camera and rebuild the debug overlay.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/camera"
	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/debugtree"
	"github.com/pthm-cable/pasture/input"
	"github.com/pthm-cable/pasture/picker"
	"github.com/pthm-cable/pasture/pool"
	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/telemetry"
	"github.com/pthm-cable/pasture/world"
)

// ErrHalted wraps the failure that stopped stepping.
var ErrHalted = errors.New("viewer halted")

// Selection holds the hovered and tracked agent ids. Either may be "".
type Selection struct {
	Hovered string
	Tracked string
}

// Options configures an App beyond the loaded config.
type Options struct {
	// LogStats emits rolling stats and perf records via slog.
	LogStats bool
	// Output receives CSV records. May be nil.
	Output *telemetry.OutputManager
}

// App is the explicit application state. Every component is owned here and
// mutated only from Frame.
type App struct {
	cfg   *config.Config
	world world.World
	opts  Options

	layout    scene.Layout
	lens      camera.Lens
	sync      *pool.Synchronizer
	picker    *picker.Picker
	clicks    *picker.ClickTracker
	orbit     *camera.Orbit
	control   *camera.Controller
	stats     *telemetry.Logger
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	turnover  *telemetry.Collector
	viewport  picker.Viewport

	snap      *snapshot.Snapshot
	step      uint64
	selection Selection
	pose      camera.Pose
	events    []telemetry.Bookmark
	lastTurn  telemetry.Turnover

	pointer    mgl32.Vec2
	hasPointer bool
	clicked    bool
	clickAt    mgl32.Vec2

	overlayMode debugtree.Mode
	overlay     debugtree.Overlay
	activeNode  *world.Node

	paused bool
	halted error
}

// New builds the viewer around w and synchronizes the world's initial
// population.
func New(cfg *config.Config, w world.World, opts Options) (*App, error) {
	layout := LayoutFor(cfg, w.Size())
	orbit := camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, layout.Extent()/2, OrbitParamsFor(cfg))

	a := &App{
		cfg:         cfg,
		world:       w,
		opts:        opts,
		layout:      layout,
		lens:        LensFor(cfg),
		sync:        pool.NewSynchronizer(cfg.Derived.Capacities, StyleFor(cfg, layout)),
		picker:      picker.New(w, layout, float32(cfg.Picker.Radius)),
		clicks:      picker.NewClickTracker(float32(cfg.Picker.DragThreshold)),
		orbit:       orbit,
		control:     camera.NewController(orbit, layout, TrackingParamsFor(cfg)),
		stats:       telemetry.NewLogger(cfg.Stats.Window),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarks:   telemetry.NewBookmarkDetector(bookmarkHistory),
		turnover:    telemetry.NewCollector(),
		viewport:    picker.Viewport{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
		overlayMode: cfg.Derived.Overlay,
	}
	a.pose = a.control.Pose()

	snap, err := a.read()
	if err != nil {
		return nil, err
	}
	if err := a.sync.Sync(snap); err != nil {
		return nil, fmt.Errorf("synchronizing initial population: %w", err)
	}
	a.snap = snap
	a.turnover.Observe(snap)
	a.record(a.stats.Append(snap))

	return a, nil
}

// Frame processes one frame: drained input events first, then (unless
// paused or halted) step, read, sync and stats, then picking, clicks,
// camera, selection and overlay. dt is the elapsed wall time in seconds.
//
// A malformed snapshot, pool overflow or world step failure halts the app
// and is returned wrapped in ErrHalted once. A halted app keeps handling
// input and presenting the last good frame.
func (a *App) Frame(dt float64, events []input.Event) error {
	a.perf.StartFrame()
	defer a.perf.EndFrame()

	a.perf.StartPhase(telemetry.PhaseInput)
	for _, e := range events {
		a.handle(e)
	}

	var err error
	if !a.paused && a.halted == nil {
		err = a.advance(dt)
	}

	a.perf.StartPhase(telemetry.PhasePick)
	a.updateHover()
	if a.clicked {
		a.clicked = false
		// A click on empty ground keeps the current target
		a.control.Track(a.clickTarget())
	}

	a.perf.StartPhase(telemetry.PhaseCamera)
	a.pose = a.control.Update(a.snap, a.selection.Hovered)
	a.reconcile()

	a.perf.StartPhase(telemetry.PhaseOverlay)
	a.updateOverlay()

	return err
}

// advance steps the world and refreshes everything derived from the
// snapshot. Pools and the current snapshot change only on success.
func (a *App) advance(dt float64) error {
	a.perf.StartPhase(telemetry.PhaseStep)
	if err := a.world.Step(a.cfg.World.HighPrecision, dt); err != nil {
		return a.halt(fmt.Errorf("stepping world: %w", err))
	}
	a.step++

	a.perf.StartPhase(telemetry.PhaseRead)
	snap, err := a.read()
	if err != nil {
		return a.halt(err)
	}

	a.perf.StartPhase(telemetry.PhaseSync)
	if err := a.sync.Sync(snap); err != nil {
		return a.halt(err)
	}
	a.snap = snap

	a.perf.StartPhase(telemetry.PhaseStats)
	a.turnover.Observe(snap)
	a.record(a.stats.Append(snap))
	a.flushPerf()
	return nil
}

func (a *App) read() (*snapshot.Snapshot, error) {
	raw, err := a.world.Agents()
	if err != nil {
		return nil, fmt.Errorf("querying agents: %w", err)
	}
	snap, err := snapshot.Read(a.step, raw)
	if err != nil {
		return nil, fmt.Errorf("reading step %d: %w", a.step, err)
	}
	return snap, nil
}

func (a *App) halt(err error) error {
	a.halted = err
	slog.Error("halting simulation", "step", a.step, "error", err)
	return fmt.Errorf("%w: %w", ErrHalted, err)
}

// handle applies one input event. Clicks are only recorded here and
// resolved after picking.
func (a *App) handle(e input.Event) {
	switch e.Kind {
	case input.PointerMove:
		a.pointer, a.hasPointer = e.Pos, true
		a.clicks.Move(e.Pos)
	case input.PointerDown:
		a.pointer, a.hasPointer = e.Pos, true
		a.clicks.Down(e.Pos)
	case input.PointerUp:
		a.pointer, a.hasPointer = e.Pos, true
		if a.clicks.Up(e.Pos) {
			a.clicked, a.clickAt = true, e.Pos
		}
	case input.Wheel:
		delta := e.Delta.Y()
		if !a.control.Scroll(delta) {
			a.orbit.ZoomBy(float32(math.Pow(a.cfg.Camera.Orbit.WheelZoom, float64(delta))))
		}
	case input.Rotate:
		a.orbit.Rotate(e.Delta.X(), e.Delta.Y())
	case input.Pan:
		a.orbit.Pan(e.Delta.X(), e.Delta.Y())
	case input.Resize:
		if e.Size[0] <= 0 || e.Size[1] <= 0 {
			return
		}
		a.viewport = picker.Viewport{Width: e.Size[0], Height: e.Size[1]}
		a.orbit.Resize(float32(e.Size[0]), float32(e.Size[1]))
	case input.Key:
		a.handleAction(e)
	}
}

func (a *App) handleAction(e input.Event) {
	switch e.Action {
	case input.ActionPause:
		a.paused = !a.paused
		slog.Debug("pause toggled", "paused", a.paused, "step", a.step)
	case input.ActionRelease:
		a.control.Release()
	case input.ActionResetCamera:
		a.orbit.Reset()
	case input.ActionCycleOverlay:
		a.overlayMode = a.overlayMode.Next()
	case input.ActionSetOverlay:
		if m := debugtree.Mode(e.Value); m.Valid() {
			a.overlayMode = m
		}
	}
}

// updateHover picks against the last presented pose.
func (a *App) updateHover() {
	if !a.hasPointer {
		a.selection.Hovered = ""
		return
	}
	a.selection.Hovered = a.pickAt(a.pointer)
}

// clickTarget resolves the click where the button was released, which may
// differ from the hover when the pointer moved later in the same frame.
func (a *App) clickTarget() string {
	if a.clickAt == a.pointer {
		return a.selection.Hovered
	}
	return a.pickAt(a.clickAt)
}

// pickAt returns the agent under a screen position, or "" for none.
func (a *App) pickAt(p mgl32.Vec2) string {
	id, ok, err := a.picker.Pick(p, a.pose.View(), a.projection(), a.viewport)
	if err != nil {
		slog.Warn("hover query failed", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return id
}

// reconcile clears selection ids absent from the current snapshot.
func (a *App) reconcile() {
	if a.selection.Hovered != "" && !a.snap.Has(a.selection.Hovered) {
		slog.Debug("hovered agent gone", "id", a.selection.Hovered)
		a.selection.Hovered = ""
	}
	a.selection.Tracked = a.control.Tracked()
}

func (a *App) updateOverlay() {
	a.activeNode = nil
	if a.overlayMode == debugtree.ModeOff {
		a.overlay = debugtree.Overlay{Mode: debugtree.ModeOff}
		return
	}

	if a.overlayMode == debugtree.ModeActive && a.hasPointer {
		if p, ok := a.picker.Ground(a.pointer, a.pose.View(), a.projection(), a.viewport); ok {
			if n, ok := a.world.ActivateNode(p.X(), p.Y()); ok {
				a.activeNode = &n
			}
		}
	}

	tree := debugtree.Reconstruct(a.world.SpatialIndex())
	a.overlay = debugtree.BuildOverlay(a.overlayMode, tree, a.activeNode)
}

func (a *App) projection() mgl32.Mat4 {
	return a.lens.Projection(a.viewport.Aspect())
}

// Accessors for the presentation layer.

// Snapshot returns the last good snapshot.
func (a *App) Snapshot() *snapshot.Snapshot { return a.snap }

// Step returns the number of completed world steps.
func (a *App) Step() uint64 { return a.step }

// Selection returns the current hovered and tracked ids.
func (a *App) Selection() Selection { return a.selection }

// Pose returns the presented camera pose.
func (a *App) Pose() camera.Pose { return a.pose }

// Projection returns the presented projection matrix.
func (a *App) Projection() mgl32.Mat4 { return a.projection() }

// Lens returns the camera lens.
func (a *App) Lens() camera.Lens { return a.lens }

// CameraMode returns the camera controller mode.
func (a *App) CameraMode() camera.Mode { return a.control.Mode() }

// Zoom returns the tracking zoom.
func (a *App) Zoom() float32 { return a.control.Zoom() }

// Layout returns the world-to-scene layout.
func (a *App) Layout() scene.Layout { return a.layout }

// Pools returns the instance pools in kind order.
func (a *App) Pools() [snapshot.NumKinds]*pool.Pool { return a.sync.Pools() }

// Stats returns the rolling stats series of a kind.
func (a *App) Stats(k snapshot.Kind) *telemetry.Series { return a.stats.Series(k) }

// Bookmarks returns the population bookmarks raised so far, oldest first.
func (a *App) Bookmarks() []telemetry.Bookmark { return a.events }

// Turnover returns the last completed births and deaths window.
func (a *App) Turnover() telemetry.Turnover { return a.lastTurn }

// Perf returns the frame timing collector.
func (a *App) Perf() *telemetry.PerfCollector { return a.perf }

// Overlay returns the debug overlay built this frame.
func (a *App) Overlay() debugtree.Overlay { return a.overlay }

// ActiveNode returns the index region under the pointer in ModeActive.
func (a *App) ActiveNode() (world.Node, bool) {
	if a.activeNode == nil {
		return world.Node{}, false
	}
	return *a.activeNode, true
}

// World returns the world being viewed.
func (a *App) World() world.World { return a.world }

// Paused reports whether stepping is paused.
func (a *App) Paused() bool { return a.paused }

// Halted returns the failure that stopped stepping, or nil.
func (a *App) Halted() error { return a.halted }
