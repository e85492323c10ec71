package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
)

// Config holds the emulator settings loaded from a TOML file. Command line
// flags override the values read from the file.
type Config struct {
	// CmdLine is passed to the terminal as the boot command line.
	CmdLine string `toml:"cmdline"`

	// Log is the path of a file that receives the kernel log.
	Log string `toml:"log"`

	// Screenshot is the path of a PNG file that captures the display when
	// the emulator exits.
	Screenshot string `toml:"screenshot"`

	// Palette overrides the RGB value of console colors. Keys are color
	// names and values are #rrggbb strings.
	Palette map[string]string `toml:"palette"`
}

// loadConfig reads the configuration stored at path. A missing file yields
// an empty configuration.
func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := parseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return cfg, nil
}

// parseConfig decodes a TOML configuration from r.
func parseConfig(r io.Reader) (*Config, error) {
	var cfg Config

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BootCmdLine parses CmdLine with the kernel's multiboot command line
// parser.
func (cfg *Config) BootCmdLine() *multiboot.CmdLine {
	cmdLine := multiboot.ParseCmdLine([]byte(cfg.CmdLine))
	return &cmdLine
}

// ApplyPalette returns a copy of palette with the configured overrides
// applied.
func (cfg *Config) ApplyPalette(palette color.Palette) (color.Palette, error) {
	out := make(color.Palette, len(palette))
	copy(out, palette)

	for name, hex := range cfg.Palette {
		index, ok := console.ColorByName(name)
		if !ok || int(index) >= len(out) {
			return nil, fmt.Errorf("palette: unknown color %q", name)
		}

		rgba, err := parseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette: %s: %w", name, err)
		}
		out[index] = rgba
	}

	return out, nil
}

// parseHexColor parses a #rrggbb color.
func parseHexColor(s string) (color.RGBA, error) {
	var c color.RGBA
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid color %q; expected #rrggbb", s)
	}

	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c.A = 0xff

	return c, nil
}
