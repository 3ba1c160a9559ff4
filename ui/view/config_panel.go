package view

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/soocke/shotgroup-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

var (
	linearUnits  = []string{"in", "cm", "mm", "m", "yd", "ft"}
	angularUnits = []string{"moa", "mrad"}
	formats      = []string{"jpg", "png", "webp"}
	yesNo        = []string{"no", "yes"}
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	// Build constructs widgets in parent starting at startRow and returns the next free row.
	Build(parent *FrameWidget, startRow int) (endRow int)
	// ApplyChanges parses widget text into the config, persists it and notifies.
	ApplyChanges()
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func()
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget      // keyed by internal field id
	choices   map[string]*TComboboxWidget // keyed by internal field id
	options   map[string][]string
}

// NewConfigPanel creates the view bound to cfg. onApplied runs after a
// successful apply.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func()) ConfigPanel {
	return &configPanel{
		cfg:       cfg,
		cfgPath:   cfgPath,
		logger:    logger,
		onApplied: onApplied,
		widgets:   make(map[string]*TextWidget),
		choices:   make(map[string]*TComboboxWidget),
		options:   make(map[string][]string),
	}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	label := func(text string) {
		lbl := Label(Txt(text), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	}
	makeRow := func(id, text, value string) {
		label(text)
		w := Text(Height(1), Width(16))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeChoice := func(id, text string, values []string, value string) {
		label(text)
		cb := TCombobox(Values(values), Width(14), State("readonly"))
		Grid(cb, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		cb.Current(max(0, slices.Index(values, value)))
		v.choices[id] = cb
		v.options[id] = values
		row++
	}
	lossless := "no"
	if c.ExportLossless {
		lossless = "yes"
	}
	makeRow("referenceLength", "Reference Length", formatFloat(c.ReferenceLength))
	makeChoice("referenceUnit", "Reference Unit", linearUnits, c.ReferenceUnit)
	makeRow("bulletDiameter", "Bullet Diameter", formatFloat(c.BulletDiameter))
	makeChoice("bulletUnit", "Bullet Unit", linearUnits, c.BulletUnit)
	makeRow("targetDistance", "Target Distance", formatFloat(c.TargetDistance))
	makeChoice("targetDistanceUnit", "Distance Unit", linearUnits, c.TargetDistanceUnit)
	makeChoice("resultUnit", "Result Unit", linearUnits, c.ResultUnit)
	makeChoice("angularUnit", "Angular Unit", angularUnits, c.AngularUnit)
	makeChoice("exportFormat", "Export Format", formats, c.ExportFormat)
	makeRow("exportQuality", "Export Quality (1-100)", fmt.Sprintf("%d", c.ExportQuality))
	makeChoice("exportLossless", "WebP Lossless", yesNo, lossless)
	makeRow("exportDir", "Export Folder", c.ExportDir)
	v.applyBtn = Button(Txt("Apply Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

// choice returns the selected value of a combobox.
func (v *configPanel) choice(id string) (string, bool) {
	cb := v.choices[id]
	if cb == nil {
		return "", false
	}
	idx, err := strconv.Atoi(cb.Current(nil))
	values := v.options[id]
	if err != nil || idx < 0 || idx >= len(values) {
		return "", false
	}
	return values[idx], true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignChoice := func(id string, dst *string) {
		if s, ok := v.choice(id); ok {
			*dst = s
		}
	}
	assignFloat("referenceLength", &cfg.ReferenceLength)
	assignChoice("referenceUnit", &cfg.ReferenceUnit)
	assignFloat("bulletDiameter", &cfg.BulletDiameter)
	assignChoice("bulletUnit", &cfg.BulletUnit)
	assignFloat("targetDistance", &cfg.TargetDistance)
	assignChoice("targetDistanceUnit", &cfg.TargetDistanceUnit)
	assignChoice("resultUnit", &cfg.ResultUnit)
	assignChoice("angularUnit", &cfg.AngularUnit)
	assignChoice("exportFormat", &cfg.ExportFormat)
	assignInt("exportQuality", &cfg.ExportQuality)
	if s, ok := v.choice("exportLossless"); ok {
		cfg.ExportLossless, _ = parseBoolLoose(s)
	}
	if w := v.widgets["exportDir"]; w != nil {
		if val := strings.TrimSpace(v.text(w)); val != "" {
			cfg.ExportDir = val
		}
	}
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied()
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
