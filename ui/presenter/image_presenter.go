package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/shotgroup-go/config"
	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/export"
	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/ui/model"
)

// ImageSource narrows what the presenter needs from the capture layer.
type ImageSource interface {
	LoadFile(path string) (*image.RGBA, error)
	GrabScreen() (*image.RGBA, error)
	Sample() (*image.RGBA, error)
}

// ImageExporter writes the flattened annotation.
type ImageExporter interface {
	Save(m *annotation.Model, dir string, session uuid.UUID, opts export.Options) (string, error)
}

// StatusView shows a one-line status message.
type StatusView interface{ SetStatus(string) }

// ImagePresenter owns loading target images, exporting the result and
// applying edited settings.
type ImagePresenter struct {
	src    ImageSource
	exp    ImageExporter
	ctrl   *interaction.Controller
	sess   *model.SessionModel
	frame  *model.FrameModel
	cfg    *config.Config
	view   StatusView
	logger *slog.Logger
}

func NewImagePresenter(src ImageSource, exp ImageExporter, ctrl *interaction.Controller, sess *model.SessionModel, frame *model.FrameModel, cfg *config.Config, view StatusView, logger *slog.Logger) *ImagePresenter {
	return &ImagePresenter{src: src, exp: exp, ctrl: ctrl, sess: sess, frame: frame, cfg: cfg, view: view, logger: logger}
}

func (p *ImagePresenter) ok() bool { return p != nil && p.src != nil && p.ctrl != nil }

// LoadFile opens the image at path.
func (p *ImagePresenter) LoadFile(path string) error {
	if !p.ok() {
		return nil
	}
	if path == "" {
		p.status("Enter an image path first")
		return nil
	}
	img, err := p.src.LoadFile(path)
	return p.install(img, err)
}

// GrabScreen loads a capture of the current screen.
func (p *ImagePresenter) GrabScreen() error {
	if !p.ok() {
		return nil
	}
	img, err := p.src.GrabScreen()
	return p.install(img, err)
}

// LoadSample loads the bundled practice target.
func (p *ImagePresenter) LoadSample() error {
	if !p.ok() {
		return nil
	}
	img, err := p.src.Sample()
	return p.install(img, err)
}

func (p *ImagePresenter) install(img *image.RGBA, err error) error {
	if err != nil {
		p.status("Load failed: " + err.Error())
		if p.logger != nil {
			p.logger.Warn("image load failed", "error", err)
		}
		return err
	}
	p.ctrl.LoadImage(img)
	p.sess.ImageLoaded(time.Now())
	p.frame.MarkDirty()
	p.status("Drag along a known length, then release")
	return nil
}

// Export saves the annotated image using the configured format.
func (p *ImagePresenter) Export() (string, error) {
	if !p.ok() || p.exp == nil || p.cfg == nil {
		return "", nil
	}
	format, err := export.ParseFormat(p.cfg.ExportFormat)
	if err != nil {
		p.status("Export failed: " + err.Error())
		return "", err
	}
	opts := export.Options{Format: format, Quality: p.cfg.ExportQuality, Lossless: p.cfg.ExportLossless}
	path, err := p.exp.Save(p.ctrl.Model(), p.cfg.ExportDir, p.sess.ID(), opts)
	if err != nil {
		p.status("Export failed: " + err.Error())
		if p.logger != nil {
			p.logger.Error("export failed", "error", err)
		}
		return "", err
	}
	p.status("Saved " + path)
	return path, nil
}

// ApplySettings pushes the measurement settings from the config into the
// model. Statistics of every group are recomputed.
func (p *ImagePresenter) ApplySettings() error {
	if !p.ok() || p.cfg == nil {
		return nil
	}
	s, err := p.cfg.Settings()
	if err != nil {
		p.status(fmt.Sprintf("Invalid settings: %v", err))
		return err
	}
	p.ctrl.SetSettings(s)
	p.frame.MarkDirty()
	if _, ok := p.ctrl.Model().Scale(); !ok && p.ctrl.Model().HasImage() {
		p.status("Settings applied; draw the reference line again")
	} else {
		p.status("Settings applied")
	}
	return nil
}

func (p *ImagePresenter) status(text string) {
	if p.view != nil {
		p.view.SetStatus(text)
	}
}
