package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/units"
)

// Config holds runtime configuration for measurement, interaction and export.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Measurement inputs
	ReferenceLength    float64 `json:"reference_length"`
	ReferenceUnit      string  `json:"reference_unit"`
	BulletDiameter     float64 `json:"bullet_diameter"`
	BulletUnit         string  `json:"bullet_unit"`
	TargetDistance     float64 `json:"target_distance"`
	TargetDistanceUnit string  `json:"target_distance_unit"`
	ResultUnit         string  `json:"result_unit"`
	AngularUnit        string  `json:"angular_unit"`

	// Interaction tuning
	HitRadiusPx      float64  `json:"hit_radius_px"`
	NudgePx          float64  `json:"nudge_px"`
	DragThresholdPx  float64  `json:"drag_threshold_px"`
	MinReferencePx   float64  `json:"min_reference_px"`
	ZoomStep         float64  `json:"zoom_step"`
	MinZoom          float64  `json:"min_zoom"`
	MaxZoom          float64  `json:"max_zoom"`
	MaxBufferDim     int      `json:"max_buffer_dim"`
	DevicePixelRatio float64  `json:"device_pixel_ratio"`
	CanvasWidth      int      `json:"canvas_width"`
	CanvasHeight     int      `json:"canvas_height"`
	FrameIntervalMs  int      `json:"frame_interval_ms"`
	InfoBoxCacheSize int      `json:"info_box_cache_size"`
	InfoOffsetX      float64  `json:"info_offset_x"`
	InfoOffsetY      float64  `json:"info_offset_y"`
	Smoothing        bool     `json:"smoothing"`
	GroupColors      []string `json:"group_colors"`

	// Export
	ExportFormat   string `json:"export_format"`
	ExportQuality  int    `json:"export_quality"`
	ExportLossless bool   `json:"export_lossless"`
	ExportDir      string `json:"export_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		ReferenceLength:    1,
		ReferenceUnit:      string(units.Inches),
		BulletDiameter:     0.308,
		BulletUnit:         string(units.Inches),
		TargetDistance:     100,
		TargetDistanceUnit: string(units.Yards),
		ResultUnit:         string(units.Inches),
		AngularUnit:        string(units.MOA),
		HitRadiusPx:        12,
		NudgePx:            1,
		DragThresholdPx:    4,
		MinReferencePx:     annotation.DefaultMinReferencePixels,
		ZoomStep:           1.25,
		MinZoom:            0.05,
		MaxZoom:            40,
		MaxBufferDim:       4096,
		DevicePixelRatio:   1,
		CanvasWidth:        960,
		CanvasHeight:       640,
		FrameIntervalMs:    16,
		InfoBoxCacheSize:   64,
		InfoOffsetX:        20,
		InfoOffsetY:        20,
		Smoothing:          true,
		GroupColors:        []string{"#ff3b30", "#34c759", "#0a84ff", "#ff9f0a", "#bf5af2", "#64d2ff"},
		ExportFormat:       "jpg",
		ExportQuality:      90,
		ExportLossless:     false,
		ExportDir:          ".",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.ReferenceLength < 0 {
		c.ReferenceLength = 0
	}
	c.ReferenceUnit = linearOr(c.ReferenceUnit, d.ReferenceUnit)
	if c.BulletDiameter < 0 {
		c.BulletDiameter = 0
	}
	c.BulletUnit = linearOr(c.BulletUnit, d.BulletUnit)
	if c.TargetDistance < 0 {
		c.TargetDistance = 0
	}
	c.TargetDistanceUnit = linearOr(c.TargetDistanceUnit, d.TargetDistanceUnit)
	c.ResultUnit = linearOr(c.ResultUnit, d.ResultUnit)
	if a, err := units.ParseAngular(c.AngularUnit); err != nil {
		c.AngularUnit = d.AngularUnit
	} else {
		c.AngularUnit = string(a)
	}

	if c.HitRadiusPx <= 0 {
		c.HitRadiusPx = d.HitRadiusPx
	}
	if c.NudgePx <= 0 {
		c.NudgePx = d.NudgePx
	}
	if c.DragThresholdPx < 0 {
		c.DragThresholdPx = d.DragThresholdPx
	}
	if c.MinReferencePx <= 0 {
		c.MinReferencePx = d.MinReferencePx
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = d.ZoomStep
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = d.MaxZoom
	}
	if c.MinZoom <= 0 || c.MinZoom > c.MaxZoom {
		c.MinZoom = d.MinZoom
		if c.MinZoom > c.MaxZoom {
			c.MinZoom = c.MaxZoom
		}
	}
	if c.MaxBufferDim < 256 {
		c.MaxBufferDim = d.MaxBufferDim
	}
	if c.DevicePixelRatio <= 0 || c.DevicePixelRatio > 4 {
		c.DevicePixelRatio = d.DevicePixelRatio
	}
	if c.CanvasWidth < 100 {
		c.CanvasWidth = d.CanvasWidth
	}
	if c.CanvasHeight < 100 {
		c.CanvasHeight = d.CanvasHeight
	}
	if c.FrameIntervalMs < 5 || c.FrameIntervalMs > 1000 {
		c.FrameIntervalMs = d.FrameIntervalMs
	}
	if c.InfoBoxCacheSize <= 0 {
		c.InfoBoxCacheSize = d.InfoBoxCacheSize
	}
	colors := c.GroupColors[:0:0]
	for _, h := range c.GroupColors {
		if _, err := colorful.Hex(h); err == nil {
			colors = append(colors, h)
		}
	}
	c.GroupColors = colors

	switch c.ExportFormat {
	case "jpg", "png", "webp":
	case "jpeg":
		c.ExportFormat = "jpg"
	default:
		c.ExportFormat = d.ExportFormat
	}
	if c.ExportQuality < 1 || c.ExportQuality > 100 {
		c.ExportQuality = d.ExportQuality
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	return nil
}

func linearOr(s, fallback string) string {
	u, err := units.ParseLinear(s)
	if err != nil {
		return fallback
	}
	return string(u)
}

// Settings converts the measurement inputs into annotation settings.
func (c *Config) Settings() (annotation.Settings, error) {
	var s annotation.Settings
	var err error
	s.ReferenceLength = c.ReferenceLength
	s.BulletDiameter = c.BulletDiameter
	s.TargetDistance = c.TargetDistance
	if s.ReferenceUnit, err = units.ParseLinear(c.ReferenceUnit); err != nil {
		return s, fmt.Errorf("reference unit: %w", err)
	}
	if s.BulletUnit, err = units.ParseLinear(c.BulletUnit); err != nil {
		return s, fmt.Errorf("bullet unit: %w", err)
	}
	if s.TargetDistanceUnit, err = units.ParseLinear(c.TargetDistanceUnit); err != nil {
		return s, fmt.Errorf("distance unit: %w", err)
	}
	if s.ResultUnit, err = units.ParseLinear(c.ResultUnit); err != nil {
		return s, fmt.Errorf("result unit: %w", err)
	}
	if s.AngularUnit, err = units.ParseAngular(c.AngularUnit); err != nil {
		return s, fmt.Errorf("angular unit: %w", err)
	}
	return s, nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
