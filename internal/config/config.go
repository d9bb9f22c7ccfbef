package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the render session settings. Zero/omitted values are filled
// in by ApplyDefaults; the canvas dimensions are fixed for the session once
// resolved.
type Config struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	FrameCount    int     `yaml:"frame_count"`
	Transition    string  `yaml:"transition"`
	Workers       int     `yaml:"workers"` // 0 = hardware parallelism
	EncodeWorkers int     `yaml:"encode_workers"`
	MaxBlurRadius int     `yaml:"max_blur_radius"`
	CubeStrips    int     `yaml:"cube_strips"`
	CubeFOV       float64 `yaml:"cube_fov"`
	RingRadius    float64 `yaml:"ring_radius"`
	RingDepth     float64 `yaml:"ring_depth"`
	OutputDir     string  `yaml:"output_dir"`
	QRText        string  `yaml:"qr_text,omitempty"`
}

// minFrameCount and maxFrameCount bound the exported sequence length.
const (
	minFrameCount = 10
	maxFrameCount = 1000
)

// Default returns the standard settings: a 1200x800 logical surface at 120
// frames per transition.
func Default() Config {
	return Config{
		Width:         1200,
		Height:        800,
		FrameCount:    120,
		Transition:    "cross-fade",
		EncodeWorkers: 4,
		MaxBlurRadius: 48,
		CubeStrips:    96,
		CubeFOV:       800,
		RingRadius:    600,
		RingDepth:     1000,
		OutputDir:     "output",
	}
}

// ApplyDefaults fills unset fields and clamps the frame count to its sane
// range.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Width < 1 {
		c.Width = def.Width
	}
	if c.Height < 1 {
		c.Height = def.Height
	}
	if c.Transition == "" {
		c.Transition = def.Transition
	}
	if c.EncodeWorkers < 1 {
		c.EncodeWorkers = def.EncodeWorkers
	}
	if c.MaxBlurRadius < 1 {
		c.MaxBlurRadius = def.MaxBlurRadius
	}
	if c.CubeStrips < 1 {
		c.CubeStrips = def.CubeStrips
	}
	if c.CubeFOV <= 0 {
		c.CubeFOV = def.CubeFOV
	}
	if c.RingRadius <= 0 {
		c.RingRadius = def.RingRadius
	}
	if c.RingDepth <= 0 {
		c.RingDepth = def.RingDepth
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.FrameCount < minFrameCount {
		c.FrameCount = minFrameCount
	}
	if c.FrameCount > maxFrameCount {
		c.FrameCount = maxFrameCount
	}
}

// ApplyPreset overrides the canvas dimensions with a named aspect preset.
// Unknown names are reported, an empty name is a no-op.
func (c *Config) ApplyPreset(name string) error {
	switch name {
	case "":
	case "16:9":
		c.Width, c.Height = 1200, 800
	case "9:16":
		c.Width, c.Height = 800, 1200
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return fmt.Errorf("unknown preset %q", name)
	}
	return nil
}

// Load reads a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	c.ApplyDefaults()
	return c, nil
}

// Save writes the effective settings back to a YAML file.
func Save(c Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
