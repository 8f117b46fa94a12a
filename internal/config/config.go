// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"

	"KufiCraft/internal/state"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Board   Board   `toml:"board"`
	Storage Storage `toml:"storage"`
	Preview Preview `toml:"preview"`
	Export  Export  `toml:"export"`
	Log     Log     `toml:"log"`
}

type Board struct {
	Name       string `toml:"name"`
	Monospaced bool   `toml:"monospaced"`
	Size       int    `toml:"size"`
	Color      string `toml:"color"`
	Shape      string `toml:"shape"`
	ArchDir    int    `toml:"arch_dir"`
}

type Storage struct {
	Dir string `toml:"dir"`
}

type Preview struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

type Export struct {
	Scale float64 `toml:"scale"`
	Dir   string  `toml:"dir"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := "."
	if d, err := os.UserConfigDir(); err == nil {
		dir = d + string(os.PathSeparator) + "kuficraft"
	}
	return Config{
		Board: Board{
			Name:    "kufi",
			Size:    state.DefaultSize,
			Color:   state.DefaultColor,
			Shape:   string(state.ShapeSquare),
			ArchDir: 1,
		},
		Storage: Storage{Dir: dir},
		Preview: Preview{Port: 8765, Advertise: true},
		Export:  Export{Scale: 20, Dir: "."},
		Log:     Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	b := c.Board
	if b.Size < state.MinSize || b.Size > state.MaxSize || b.Size%state.SizeStep != 0 {
		errs = append(errs, fmt.Errorf("board.size %d: want a multiple of %d in [%d, %d]",
			b.Size, state.SizeStep, state.MinSize, state.MaxSize))
	}
	if !ValidColor(b.Color) {
		errs = append(errs, fmt.Errorf("board.color %q: unknown color", b.Color))
	}
	switch state.ShapeKind(b.Shape) {
	case state.ShapeSquare, state.ShapeCircle:
	default:
		errs = append(errs, fmt.Errorf("board.shape %q: want square or circle", b.Shape))
	}
	if b.ArchDir != 0 && b.ArchDir != 1 {
		errs = append(errs, fmt.Errorf("board.arch_dir %d: want 0 or 1", b.ArchDir))
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		errs = append(errs, fmt.Errorf("preview.port %d out of range", c.Preview.Port))
	}
	if c.Export.Scale <= 0 {
		errs = append(errs, fmt.Errorf("export.scale %v: must be positive", c.Export.Scale))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}

// ValidColor accepts SVG color names and #rgb / #rrggbb hex values.
func ValidColor(c string) bool {
	if _, ok := colornames.Map[strings.ToLower(c)]; ok {
		return true
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return false
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Write stores cfg at path in TOML form.
func Write(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
