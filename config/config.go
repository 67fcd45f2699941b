// Package config provides configuration loading for the viewer and its
// reference world.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pasture/debugtree"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Pools     PoolsConfig     `yaml:"pools"`
	Layout    LayoutConfig    `yaml:"layout"`
	Picker    PickerConfig    `yaml:"picker"`
	Camera    CameraConfig    `yaml:"camera"`
	Stats     StatsConfig     `yaml:"stats"`
	Debug     DebugConfig     `yaml:"debug"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// WorldConfig holds the reference world's parameters.
type WorldConfig struct {
	Size          float64 `yaml:"size"`           // Side of the world square
	Seed          int64   `yaml:"seed"`           // 0 = seed from the clock
	Predators     int     `yaml:"predators"`      // Initial predator count
	Prey          int     `yaml:"prey"`           // Initial prey count
	Forage        int     `yaml:"forage"`         // Initial forage count
	MaxForage     int     `yaml:"max_forage"`     // Forage regrowth stops here
	ForageSpawn   float64 `yaml:"forage_spawn"`   // New forage per second
	ForageRegrow  float64 `yaml:"forage_regrow"`  // Forage health regained per second
	DT            float64 `yaml:"dt"`             // Seconds per step
	Substeps      int     `yaml:"substeps"`       // Integration substeps in high precision
	HighPrecision bool    `yaml:"high_precision"` // Step with substeps
	NoiseScale    float64 `yaml:"noise_scale"`    // Noise frequency in 1/world units
	WanderNoise   float64 `yaml:"wander_noise"`   // Noise-driven heading drift, radians per second
	EatRange      float64 `yaml:"eat_range"`      // Contact distance for grazing and kills
	GrazeRate     float64 `yaml:"graze_rate"`     // Forage health eaten per second
	StarveDamage  float64 `yaml:"starve_damage"`  // Health lost per second at full hunger
	MutationRate  float64 `yaml:"mutation_rate"`  // Per-trait mutation probability
	MutationScale float64 `yaml:"mutation_scale"` // Relative mutation magnitude
	MaxPredators  int     `yaml:"max_predators"`  // Reproduction stops here
	MaxPrey       int     `yaml:"max_prey"`       // Reproduction stops here
}

// PoolsConfig holds the fixed instance capacity per kind.
type PoolsConfig struct {
	Predator int `yaml:"predator"`
	Prey     int `yaml:"prey"`
	Forage   int `yaml:"forage"`
}

// LayoutConfig maps world units to scene units and agents to models.
type LayoutConfig struct {
	Scale       float64 `yaml:"scale"`
	GroundY     float64 `yaml:"ground_y"`
	AgentScale  float64 `yaml:"agent_scale"`
	ForageScale float64 `yaml:"forage_scale"`
	DeadTilt    float64 `yaml:"dead_tilt"` // Degrees
}

// PickerConfig holds pointer picking parameters.
type PickerConfig struct {
	Radius        float64 `yaml:"radius"`         // World units
	DragThreshold float64 `yaml:"drag_threshold"` // Pixels
}

// CameraConfig holds lens, orbit and tracking parameters.
type CameraConfig struct {
	FovY     float64        `yaml:"fov_y"`
	Near     float64        `yaml:"near"`
	Far      float64        `yaml:"far"`
	Orbit    OrbitConfig    `yaml:"orbit"`
	Tracking TrackingConfig `yaml:"tracking"`
}

// OrbitConfig holds the free camera home and limits. Angles are in degrees.
type OrbitConfig struct {
	Yaw         float64 `yaml:"yaw"`
	Pitch       float64 `yaml:"pitch"`
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	MinPitch    float64 `yaml:"min_pitch"`
	MaxPitch    float64 `yaml:"max_pitch"`
	RotateSpeed float64 `yaml:"rotate_speed"` // Degrees per pixel
	PanSpeed    float64 `yaml:"pan_speed"`    // Scene units per pixel per unit distance
	WheelZoom   float64 `yaml:"wheel_zoom"`   // Distance factor per wheel notch
}

// TrackingConfig holds follow camera parameters.
type TrackingConfig struct {
	Offset          [3]float64 `yaml:"offset"`
	Zoom            float64    `yaml:"zoom"`
	MinZoom         float64    `yaml:"min_zoom"`
	MaxZoom         float64    `yaml:"max_zoom"`
	ZoomStep        float64    `yaml:"zoom_step"`
	SubstituteHover bool       `yaml:"substitute_hover"`
}

// StatsConfig holds rolling statistics parameters.
type StatsConfig struct {
	Window      int `yaml:"window"`       // Samples kept per kind
	LogInterval int `yaml:"log_interval"` // Steps between stats log lines (0 = off)
}

// DebugConfig holds debug overlay settings.
type DebugConfig struct {
	Overlay           string  `yaml:"overlay"` // off, leaves, tree, active
	Terrain           bool    `yaml:"terrain"`
	TerrainResolution int     `yaml:"terrain_resolution"` // Tiles per side
	TerrainHeight     float64 `yaml:"terrain_height"`     // Scene units at noise 1
}

// TelemetryConfig holds performance logging parameters.
type TelemetryConfig struct {
	PerfWindow      int `yaml:"perf_window"`       // Frames averaged
	PerfLogInterval int `yaml:"perf_log_interval"` // Steps between perf records (0 = off)
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	DT32        float32        // World.DT as float32
	WorldSize32 float32        // World.Size as float32
	ScreenW32   float32        // Screen.Width as float32
	ScreenH32   float32        // Screen.Height as float32
	Capacities  [3]int         // Pool capacities in kind order
	Overlay     debugtree.Mode // Parsed Debug.Overlay
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values that would otherwise fail at runtime.
func (c *Config) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	checks := []error{
		check(c.World.Size > 0, "world.size must be positive, got %v", c.World.Size),
		check(c.World.DT > 0, "world.dt must be positive, got %v", c.World.DT),
		check(c.World.Substeps >= 1, "world.substeps must be at least 1, got %d", c.World.Substeps),
		check(c.Pools.Predator > 0 && c.Pools.Prey > 0 && c.Pools.Forage > 0,
			"pool capacities must be positive, got %+v", c.Pools),
		check(c.Layout.Scale > 0, "layout.scale must be positive, got %v", c.Layout.Scale),
		check(c.Picker.Radius > 0, "picker.radius must be positive, got %v", c.Picker.Radius),
		check(c.Stats.Window > 0, "stats.window must be positive, got %d", c.Stats.Window),
		check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near,
			"camera near/far must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far),
		check(c.Camera.Orbit.MinDistance > 0 && c.Camera.Orbit.MinDistance <= c.Camera.Orbit.MaxDistance,
			"camera.orbit distance range [%v, %v] is invalid", c.Camera.Orbit.MinDistance, c.Camera.Orbit.MaxDistance),
		check(c.Camera.Tracking.MinZoom > 0 && c.Camera.Tracking.MinZoom <= c.Camera.Tracking.MaxZoom,
			"camera.tracking zoom range [%v, %v] is invalid", c.Camera.Tracking.MinZoom, c.Camera.Tracking.MaxZoom),
	}
	if _, err := debugtree.ParseMode(c.Debug.Overlay); err != nil {
		checks = append(checks, fmt.Errorf("%w: debug.overlay: %v", ErrInvalid, err))
	}
	return errors.Join(checks...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.World.DT)
	c.Derived.WorldSize32 = float32(c.World.Size)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Capacities = [3]int{c.Pools.Predator, c.Pools.Prey, c.Pools.Forage}
	c.Derived.Overlay, _ = debugtree.ParseMode(c.Debug.Overlay)
}

// SetOverlay changes the overlay mode by name.
func (c *Config) SetOverlay(name string) error {
	m, err := debugtree.ParseMode(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c.Debug.Overlay = name
	c.Derived.Overlay = m
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
