// Package config provides configuration loading and access for the dice tray.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Dice      DiceConfig      `yaml:"dice"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Throw     ThrowConfig     `yaml:"throw"`
	Motion    MotionConfig    `yaml:"motion"`
	Timing    TimingConfig    `yaml:"timing"`
	Oscillate OscillateConfig `yaml:"oscillate"`
	Selection SelectionConfig `yaml:"selection"`
	Layout    LayoutConfig    `yaml:"layout"`
	Camera    CameraConfig    `yaml:"camera"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" env:"D20_SCREEN_WIDTH"`
	Height    int `yaml:"height" env:"D20_SCREEN_HEIGHT"`
	TargetFPS int `yaml:"target_fps" env:"D20_TARGET_FPS"`
}

// ArenaConfig holds the playing area bounds in world units.
// X runs left to right, Z runs far (negative) to near (positive).
type ArenaConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Far    float64 `yaml:"far"`
	Near   float64 `yaml:"near"`
	Floor  float64 `yaml:"floor"`
	Margin float64 `yaml:"margin"` // Inset from left/right edges for row slots
}

// DiceConfig holds die creation parameters.
type DiceConfig struct {
	Count       int     `yaml:"count" env:"D20_DICE_COUNT"`
	Radius      float64 `yaml:"radius"`
	SpawnHeight float64 `yaml:"spawn_height"`
}

// PhysicsConfig holds reference physics engine parameters.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	Gravity        float64 `yaml:"gravity"`
	LinearDamping  float64 `yaml:"linear_damping"`  // Fraction of linear velocity lost per second
	AngularDamping float64 `yaml:"angular_damping"` // Fraction of angular velocity lost per second
	Restitution    float64 `yaml:"restitution"`     // Bounce on floor and walls
	Friction       float64 `yaml:"friction"`        // Tangential velocity kept on floor contact
	SleepSpeed     float64 `yaml:"sleep_speed"`     // Speed below which a body may fall asleep
	SleepTime      float64 `yaml:"sleep_time"`      // Seconds below SleepSpeed before sleeping
}

// ThrowConfig holds throw velocity parameters.
type ThrowConfig struct {
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
	Jitter   float64 `yaml:"jitter"` // Blend weight of the random jitter vector
	Spin     float64 `yaml:"spin"`   // Max angular speed (rad/s) assigned on throw
}

// MotionConfig holds settle detection parameters.
type MotionConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// TimingConfig holds phase and animation timings.
type TimingConfig struct {
	SettleTimeout time.Duration `yaml:"settle_timeout"`
	MoveDuration  time.Duration `yaml:"move_duration"`
	ScoreStagger  time.Duration `yaml:"score_stagger"`
	ShakeDelay    time.Duration `yaml:"shake_delay"`
	ShakeInterval time.Duration `yaml:"shake_interval"`
	ShakeDuration time.Duration `yaml:"shake_duration"`
}

// OscillateConfig holds idle and shake oscillation shapes.
type OscillateConfig struct {
	IdleAmplitude  float64       `yaml:"idle_amplitude"`  // World units of vertical bob
	IdleTilt       float64       `yaml:"idle_tilt"`       // Radians of yaw wobble
	IdlePeriod     time.Duration `yaml:"idle_period"`
	ShakeAmplitude float64       `yaml:"shake_amplitude"`
	ShakeTilt      float64       `yaml:"shake_tilt"`
	ShakePeriod    time.Duration `yaml:"shake_period"`
}

// SelectionConfig holds selection set parameters.
type SelectionConfig struct {
	Capacity int `yaml:"capacity" env:"D20_SELECTION_CAPACITY"`
}

// LayoutConfig holds row depths (Z) for each zone row.
type LayoutConfig struct {
	StoredDepth float64 `yaml:"stored_depth"`
	StagedDepth float64 `yaml:"staged_depth"`
	ScoreDepth  float64 `yaml:"score_depth"`
}

// CameraConfig holds the fixed view setup.
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Pitch    float64 `yaml:"pitch"` // Radians above the horizon
	Yaw      float64 `yaml:"yaw"`   // Radians around +Y, 0 = viewer on +Z
	FovY     float64 `yaml:"fov_y"` // Degrees
	MinZoom  float64 `yaml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom"`
}

// RenderConfig holds flat shading colors and lighting.
// Colors are RGB, 0-255.
type RenderConfig struct {
	Light      [3]float64 `yaml:"light"`   // Direction toward the light
	Ambient    float64    `yaml:"ambient"` // Minimum brightness, 0-1
	Background [3]int     `yaml:"background"`
	Floor      [3]int     `yaml:"floor"`
	Die        [3]int     `yaml:"die"`
	Selected   [3]int     `yaml:"selected"`
	Scoring    [3]int     `yaml:"scoring"`
	Edges      bool       `yaml:"edges" env:"D20_RENDER_EDGES"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int  `yaml:"perf_collector_window"`
	LogPerfEvery        int  `yaml:"log_perf_every"` // Frames between perf log lines (0 = never)
	Enabled             bool `yaml:"enabled" env:"D20_TELEMETRY"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT        time.Duration // Physics.DT as a duration
	ScreenW32 float32       // Screen.Width as float32
	ScreenH32 float32       // Screen.Height as float32
	ArenaW    float64       // Right - Left
	ArenaD    float64       // Near - Far
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults without reading files or the environment.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	cfg.computeDerived()
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies D20_* environment overrides.
// If path is empty, only embedded defaults and the environment are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
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

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the game cannot run with.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Dice.Count < 1 {
		return fmt.Errorf("dice.count must be at least 1, got %d", c.Dice.Count)
	}
	if c.Selection.Capacity < 1 {
		return fmt.Errorf("selection.capacity must be at least 1, got %d", c.Selection.Capacity)
	}
	if c.Throw.MinSpeed > c.Throw.MaxSpeed {
		return fmt.Errorf("throw.min_speed %v exceeds throw.max_speed %v", c.Throw.MinSpeed, c.Throw.MaxSpeed)
	}
	if c.Arena.Right <= c.Arena.Left {
		return fmt.Errorf("arena.right %v must exceed arena.left %v", c.Arena.Right, c.Arena.Left)
	}
	if 2*c.Arena.Margin >= c.Arena.Right-c.Arena.Left {
		return fmt.Errorf("arena.margin %v leaves no room between left and right", c.Arena.Margin)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = time.Duration(c.Physics.DT * float64(time.Second))
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.ArenaW = c.Arena.Right - c.Arena.Left
	c.Derived.ArenaD = c.Arena.Near - c.Arena.Far
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
