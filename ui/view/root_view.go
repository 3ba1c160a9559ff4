package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/shotgroup-go/config"
	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions.
type Handlers struct {
	SelectMode      func(interaction.Mode)
	LoadFile        func(path string)
	GrabScreen      func()
	LoadSample      func()
	Export          func()
	AddGroup        func()
	NextGroup       func()
	DeleteGroup     func()
	ClearAim        func()
	ClearHoles      func()
	ClearScale      func()
	ZoomToFit       func()
	SettingsApplied func()
	Exit            func()
}

// modeButtons lists the user-selectable modes in toolbar order.
var modeButtons = []struct {
	mode interaction.Mode
	text string
}{
	{interaction.ModeScaling, "Scale"},
	{interaction.ModePlacingHoles, "Holes"},
	{interaction.ModePlacingAim, "Aim"},
	{interaction.ModeSelectingHole, "Select"},
	{interaction.ModePanning, "Pan"},
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	sessionID string

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Canvas      PhotoCanvas

	// Widgets
	ModeLabel   *TLabelWidget
	StatusLabel *LabelWidget
	Results     *TextWidget
	PathField   *TextWidget
	modeBtns    map[interaction.Mode]*TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetModeLabel(text string)
	SetActiveMode(m interaction.Mode)
	SetStatus(text string)
	SetResults(lines []string)
	SetSession(image, total time.Duration)
	ShowFrame(img image.Image)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath, sessionID string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, sessionID: sessionID, logger: logger}
}

// Build constructs the layout. initialPath pre-fills the image path field.
func (rv *RootView) Build(h Handlers, initialPath string) {
	if rv == nil {
		return
	}
	// Row 0: image source and export
	fileFrame := Frame()
	Grid(fileFrame, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	Grid(Label(Txt("Image")), In(fileFrame), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	rv.PathField = Text(Height(1), Width(48))
	Grid(rv.PathField, In(fileFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	rv.PathField.Insert("1.0", initialPath)
	Bind(rv.PathField, "<Return>", Command(func() { call1(h.LoadFile, rv.ImagePath()) }))
	col := 2
	addBtn := func(parent *FrameWidget, text, style string, fn func()) *TButtonWidget {
		b := TButton(Txt(text), Command(func() { call(fn) }), Style(style))
		Grid(b, In(parent), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
		return b
	}
	addBtn(fileFrame, "Load", theme.StyleModeButton, func() { call1(h.LoadFile, rv.ImagePath()) })
	addBtn(fileFrame, "Sample", theme.StyleModeButton, h.LoadSample)
	addBtn(fileFrame, "Grab Screen", theme.StyleModeButton, h.GrabScreen)
	addBtn(fileFrame, "Export", theme.StylePrimaryButton, h.Export)
	addBtn(fileFrame, "Dark", theme.StyleModeButton, func() { theme.ToggleDark() })
	addBtn(fileFrame, "Exit", theme.StyleDangerButton, h.Exit)

	// Row 1: modes, then group commands
	toolFrame := Frame()
	Grid(toolFrame, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col = 0
	rv.modeBtns = make(map[interaction.Mode]*TButtonWidget)
	for _, mb := range modeButtons {
		m := mb.mode
		rv.modeBtns[m] = addBtn(toolFrame, mb.text, theme.StyleModeButton, func() {
			if h.SelectMode != nil {
				h.SelectMode(m)
			}
		})
	}
	col++ // spacer
	addBtn(toolFrame, "Fit", theme.StyleModeButton, h.ZoomToFit)
	addBtn(toolFrame, "New Group", theme.StyleModeButton, h.AddGroup)
	addBtn(toolFrame, "Next Group", theme.StyleModeButton, h.NextGroup)
	addBtn(toolFrame, "Clear Aim", theme.StyleModeButton, h.ClearAim)
	addBtn(toolFrame, "Clear Holes", theme.StyleDangerButton, h.ClearHoles)
	addBtn(toolFrame, "Delete Group", theme.StyleDangerButton, h.DeleteGroup)
	addBtn(toolFrame, "Reset Scale", theme.StyleDangerButton, h.ClearScale)

	// Row 2: canvas and side panel
	rv.Canvas = NewCanvas(2, 0, rv.cfg.CanvasWidth, rv.cfg.CanvasHeight)
	side := Frame()
	Grid(side, Row(2), Column(1), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	rv.ModeLabel = TLabel(Txt("Mode: <none>"), Style(theme.StyleStateLabel))
	Grid(rv.ModeLabel, In(side), Row(0), Column(0), Columnspan(2), Sticky("we"), Pady("0.3m"))
	rv.StatusLabel = Label(Txt(""), Anchor("w"), Width(40))
	Grid(rv.StatusLabel, In(side), Row(1), Column(0), Columnspan(2), Sticky("we"), Pady("0.3m"))
	rv.Results = Text(Height(9), Width(40))
	Grid(rv.Results, In(side), Row(2), Column(0), Columnspan(2), Sticky("we"), Pady("0.3m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.SettingsApplied)
	endRow := rv.ConfigPanel.Build(side, 3)

	// Session row under the side panel
	rv.Session = NewSessionStats(side, endRow, rv.sessionID)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1(fn func(string), s string) {
	if fn != nil {
		fn(s)
	}
}

// ImagePath returns the trimmed content of the path field.
func (rv *RootView) ImagePath() string {
	if rv == nil || rv.PathField == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(rv.PathField.Get("1.0", END), ""))
}

// SetModeLabel updates the mode label text.
func (rv *RootView) SetModeLabel(text string) {
	if rv != nil && rv.ModeLabel != nil {
		rv.ModeLabel.Configure(Txt(text))
	}
}

// SetActiveMode highlights the button of the active mode.
func (rv *RootView) SetActiveMode(m interaction.Mode) {
	if rv == nil {
		return
	}
	for mode, b := range rv.modeBtns {
		style := theme.StyleModeButton
		if mode == m {
			style = theme.StylePrimaryButton
		}
		b.Configure(Style(style))
	}
}

// SetStatus shows a one-line message.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// SetResults replaces the summary text.
func (rv *RootView) SetResults(lines []string) {
	if rv == nil || rv.Results == nil {
		return
	}
	rv.Results.Delete("1.0", END)
	rv.Results.Insert("1.0", strings.Join(lines, "\n"))
}

// SetSession updates the image and total annotation durations.
func (rv *RootView) SetSession(image, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(image, total)
}

// ShowFrame proxies to the canvas.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowFrame(img)
	}
}

// BindCanvas routes canvas events to ev.
func (rv *RootView) BindCanvas(ev CanvasEvents) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.Bind(ev)
	}
}
