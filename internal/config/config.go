package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/magphyx/internal/physics"
	"github.com/san-kum/magphyx/internal/sim"
)

const (
	EnvPrefix = "MAGPHYX"

	DefaultH         = 1e-2
	DefaultEps       = 1e-10
	DefaultNumEvents = 100000
	DefaultDataDir   = ".magphyx"

	// maxLogNumSteps keeps 2^n inside an int on every platform.
	maxLogNumSteps = 30
)

// InitialConditions are in the units a user types: angles in degrees.
type InitialConditions struct {
	R      float64 `mapstructure:"r" yaml:"r"`
	Theta  float64 `mapstructure:"theta" yaml:"theta"`
	Phi    float64 `mapstructure:"phi" yaml:"phi"`
	Pr     float64 `mapstructure:"pr" yaml:"pr"`
	Ptheta float64 `mapstructure:"ptheta" yaml:"ptheta"`
	Pphi   float64 `mapstructure:"pphi" yaml:"pphi"`
}

// Dipole converts to radians and builds the starting state.
func (ic InitialConditions) Dipole() physics.Dipole {
	return physics.NewDipole(ic.R, physics.Deg2Rad(ic.Theta), physics.Deg2Rad(ic.Phi), ic.Pr, ic.Ptheta, ic.Pphi)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Config is built once per run and passed by value.
type Config struct {
	Initial     InitialConditions `mapstructure:"initial" yaml:"initial"`
	InitFile    string            `mapstructure:"init_file" yaml:"init_file,omitempty"`
	H           float64           `mapstructure:"h" yaml:"h"`
	Eps         float64           `mapstructure:"eps" yaml:"eps"`
	Fixed       bool              `mapstructure:"fixed" yaml:"fixed"`
	NumEvents   int               `mapstructure:"num_events" yaml:"num_events"`
	LogNumSteps int               `mapstructure:"log_num_steps" yaml:"log_num_steps"`
	Output      string            `mapstructure:"output" yaml:"output,omitempty"`
	Sample      string            `mapstructure:"sample" yaml:"sample,omitempty"`
	FFT         bool              `mapstructure:"fft" yaml:"fft"`
	DataDir     string            `mapstructure:"data_dir" yaml:"data_dir"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
}

func SetDefaults(v *viper.Viper) {
	// Demo 7: a magnet released at rest, perpendicular to the line of centres.
	v.SetDefault("initial.r", 1.5)
	v.SetDefault("initial.theta", 0.0)
	v.SetDefault("initial.phi", 90.0)
	v.SetDefault("initial.pr", 0.0)
	v.SetDefault("initial.ptheta", 0.0)
	v.SetDefault("initial.pphi", 0.0)
	v.SetDefault("init_file", "")

	v.SetDefault("h", DefaultH)
	v.SetDefault("eps", DefaultEps)
	v.SetDefault("fixed", false)
	v.SetDefault("num_events", DefaultNumEvents)
	v.SetDefault("log_num_steps", -1)

	v.SetDefault("output", "")
	v.SetDefault("sample", "")
	v.SetDefault("fft", false)
	v.SetDefault("data_dir", DefaultDataDir)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

func DefaultConfig() Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// NewViper layers defaults, the optional YAML file at path and MAGPHYX_*
// environment variables. Callers may bind flags on top before calling
// NewFromViper.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func NewFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return Config{}, err
	}
	return NewFromViper(v)
}

// Write encodes cfg as YAML that Load accepts.
func Write(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Save writes cfg to path with Write.
func Save(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c Config) Validate() error {
	var errs []error
	if c.H <= 0 {
		errs = append(errs, fmt.Errorf("h must be positive, got %g", c.H))
	}
	if c.Eps <= 0 {
		errs = append(errs, fmt.Errorf("eps must be positive, got %g", c.Eps))
	}
	if c.InitFile == "" && c.Initial.R < sim.Boundary {
		errs = append(errs, fmt.Errorf("initial.r must be at least %g, got %g", sim.Boundary, c.Initial.R))
	}
	if c.NumEvents <= 0 && c.LogNumSteps < 0 {
		errs = append(errs, errors.New("one of num_events or log_num_steps must be set"))
	}
	if c.LogNumSteps > maxLogNumSteps {
		errs = append(errs, fmt.Errorf("log_num_steps must be at most %d, got %d", maxLogNumSteps, c.LogNumSteps))
	}
	switch c.Sample {
	case "", "theta", "phi":
	default:
		errs = append(errs, fmt.Errorf("sample must be theta or phi, got %q", c.Sample))
	}
	if c.FFT && c.Sample == "" {
		errs = append(errs, errors.New("fft requires sample"))
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format))
	}
	return errors.Join(errs...)
}

// NumSteps is the step budget, or 0 when the run is bounded by events.
func (c Config) NumSteps() int {
	if c.LogNumSteps < 0 {
		return 0
	}
	return 1 << c.LogNumSteps
}

// Budget is the Driver configuration. An event budget, when set, wins
// over a step budget.
func (c Config) Budget() sim.Config {
	if c.NumEvents > 0 {
		return sim.Config{NumEvents: c.NumEvents}
	}
	return sim.Config{NumSteps: c.NumSteps()}
}

// WithInitial returns a copy with the initial conditions replaced.
func (c Config) WithInitial(ic InitialConditions) Config {
	c.Initial = ic
	c.InitFile = ""
	return c
}
