// Package config loads simulator settings from a YAML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-elevator-3d/pkg/panel"
	"go-elevator-3d/pkg/sim"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "ELEVATOR_CONFIG"
	EnvPort       = "PORT"
	EnvLogLevel   = "LOG_LEVEL"
)

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // TUI only; empty discards logs
}

type Server struct {
	Port      string `yaml:"port"`
	FrameRate int    `yaml:"frameRate"`
}

type Building struct {
	Floors       int      `yaml:"floors"`
	FloorHeight  float64  `yaml:"floorHeight"`
	FloorNames   []string `yaml:"floorNames"`
	InitialFloor int      `yaml:"initialFloor"`
}

type Elevator struct {
	Speed        float64       `yaml:"speed"`
	DoorSpeed    float64       `yaml:"doorSpeed"`
	DoorOpenTime time.Duration `yaml:"doorOpenTime"`
	EventBuffer  int           `yaml:"eventBuffer"`
}

type Panel struct {
	Columns    int     `yaml:"columns"`
	Rows       int     `yaml:"rows"`
	ButtonSize float64 `yaml:"buttonSize"`
	Spacing    float64 `yaml:"spacing"`
}

type Player struct {
	Height float64 `yaml:"height"`
	Reach  float64 `yaml:"reach"`
}

// Config is the full settings tree.
type Config struct {
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server"`
	Building Building `yaml:"building"`
	Elevator Elevator `yaml:"elevator"`
	Panel    Panel    `yaml:"panel"`
	Player   Player   `yaml:"player"`
}

// Default returns the settings the simulator ships with.
func Default() Config {
	ec := sim.DefaultConfig()
	return Config{
		Log:    Log{Level: "info"},
		Server: Server{Port: "8080", FrameRate: 75},
		Building: Building{
			Floors:       ec.Elevator.Floors,
			FloorHeight:  ec.Elevator.FloorHeight,
			FloorNames:   ec.Elevator.FloorNames,
			InitialFloor: ec.Elevator.InitialFloor,
		},
		Elevator: Elevator{
			Speed:        ec.Elevator.Speed,
			DoorSpeed:    ec.Elevator.DoorSpeed,
			DoorOpenTime: ec.Elevator.DoorOpenTime,
			EventBuffer:  ec.Elevator.EventBuffer,
		},
		Panel: Panel{
			Columns:    ec.Panel.Columns,
			Rows:       ec.Panel.Rows,
			ButtonSize: ec.Panel.ButtonSize,
			Spacing:    ec.Panel.Spacing,
		},
		Player: Player{Height: ec.PlayerHeight, Reach: ec.Reach},
	}
}

// Load builds the configuration. A missing .env is fine; a missing YAML file
// is an error only when path was given explicitly or via ELEVATOR_CONFIG.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := c.decodeFile(path); err != nil {
			return Config{}, err
		}
	}

	if port := os.Getenv(EnvPort); port != "" {
		c.Server.Port = port
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	// Default names only fit the default floor count.
	names := c.Building.FloorNames
	c.Building.FloorNames = nil

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if c.Building.FloorNames == nil && c.Building.Floors == len(names) {
		c.Building.FloorNames = names
	}
	return nil
}

// Validate checks the settings the controller itself does not.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid config: server.port %q: %w", c.Server.Port, err)
	}
	if c.Server.FrameRate < 1 {
		return fmt.Errorf("invalid config: server.frameRate (%d) must be positive", c.Server.FrameRate)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Panel.Columns < 1 || c.Panel.Rows < 1 {
		return fmt.Errorf("invalid config: panel grid %dx%d", c.Panel.Columns, c.Panel.Rows)
	}
	if c.Player.Height <= 0 || c.Player.Reach <= 0 {
		return fmt.Errorf("invalid config: player height (%v) and reach (%v) must be positive", c.Player.Height, c.Player.Reach)
	}
	return c.Simulation("").Elevator.Validate()
}

// FrameInterval returns the tick period for Server.FrameRate.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Server.FrameRate)
}

// Simulation converts the settings into a sim.Config for one session.
func (c Config) Simulation(id string) sim.Config {
	sc := sim.DefaultConfig()

	sc.Elevator.ID = id
	sc.Elevator.Floors = c.Building.Floors
	sc.Elevator.FloorHeight = c.Building.FloorHeight
	sc.Elevator.FloorNames = c.Building.FloorNames
	sc.Elevator.InitialFloor = c.Building.InitialFloor
	sc.Elevator.Speed = c.Elevator.Speed
	sc.Elevator.DoorSpeed = c.Elevator.DoorSpeed
	sc.Elevator.DoorOpenTime = c.Elevator.DoorOpenTime
	sc.Elevator.EventBuffer = c.Elevator.EventBuffer

	sc.Panel = panel.Layout{
		Columns:    c.Panel.Columns,
		Rows:       c.Panel.Rows,
		ButtonSize: c.Panel.ButtonSize,
		Spacing:    c.Panel.Spacing,
		WallX:      sc.Panel.WallX,
		CenterY:    sc.Panel.CenterY,
		CenterZ:    sc.Panel.CenterZ,
		Shaft:      sc.Panel.Shaft,
	}
	sc.PlayerHeight = c.Player.Height
	sc.Reach = c.Player.Reach
	return sc
}

// SlogLevel returns Log.Level as a slog level; unknown names map to Info.
func (c Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid config: log.level: %w", err)
	}
	return l, nil
}
