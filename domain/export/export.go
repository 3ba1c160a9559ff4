// Package export flattens the annotated photo at full resolution and
// encodes it to disk.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/render"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

var (
	ErrNoImage           = errors.New("export: no image loaded")
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// Format is an output encoding.
type Format string

const (
	JPEG Format = "jpg"
	PNG  Format = "png"
	WebP Format = "webp"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options control encoding.
type Options struct {
	Format   Format
	Quality  int
	Lossless bool
}

// Exporter renders the model with an identity projection, so every marker
// sits exactly on its image pixel and strokes are not scaled by the display.
type Exporter struct {
	logger   *slog.Logger
	builder  *overlay.Builder
	renderer *render.Renderer
	style    overlay.Style
}

// New returns an exporter sharing the live palette.
func New(palette overlay.Palette, style overlay.Style, logger *slog.Logger) *Exporter {
	return &Exporter{
		logger:   logger,
		builder:  overlay.NewBuilder(palette, 64),
		renderer: render.New(render.Bilinear),
		style:    style,
	}
}

// Flatten draws the image and all annotations at native resolution.
func (e *Exporter) Flatten(m *annotation.Model) (*image.RGBA, error) {
	if m == nil || !m.HasImage() {
		return nil, ErrNoImage
	}
	w, h := m.Size()
	full := viewport.Rect{W: w, H: h}
	sc := e.builder.Build(m, overlay.Identity{Size: viewport.Size{W: w, H: h}}, e.style, -1)
	return e.renderer.Frame(m.Image(), full, full, sc), nil
}

// Encode writes img in the requested format.
func Encode(w io.Writer, img image.Image, opts Options) error {
	switch opts.Format {
	case WebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(quality(opts))})
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality(opts)))
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
}

func quality(opts Options) int {
	if opts.Quality <= 0 || opts.Quality > 100 {
		return 90
	}
	return opts.Quality
}

// FileName returns a unique export name for the session.
func FileName(session uuid.UUID, f Format) string {
	return fmt.Sprintf("shotgroup-%s-%s.%s", session.String()[:8], uuid.NewString()[:8], f)
}

// Save flattens the model into dir and returns the written path.
func (e *Exporter) Save(m *annotation.Model, dir string, session uuid.UUID, opts Options) (string, error) {
	path := filepath.Join(dir, FileName(session, opts.Format))
	return path, e.SaveAs(m, path, opts)
}

// SaveAs flattens the model into path.
func (e *Exporter) SaveAs(m *annotation.Model, path string, opts Options) error {
	img, err := e.Flatten(m)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		return fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if e.logger != nil {
		b := img.Bounds()
		e.logger.Info("image exported",
			"path", path,
			"format", string(opts.Format),
			"width", b.Dx(),
			"height", b.Dy(),
			"size", humanize.Bytes(uint64(buf.Len())),
		)
	}
	return nil
}
