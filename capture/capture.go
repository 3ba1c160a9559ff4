// Package capture produces target photos: decoded files, a grab of the
// current screen, or the bundled sample.
package capture

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/vova616/screenshot"

	"github.com/soocke/shotgroup-go/assets"
)

// ErrEmptyImage is returned for sources that decode to zero pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Loader decodes target images and normalises them to *image.RGBA.
type Loader struct {
	logger *slog.Logger
}

// NewLoader returns a loader; logger may be nil.
func NewLoader(logger *slog.Logger) *Loader { return &Loader{logger: logger} }

// LoadFile decodes the file at path, honouring EXIF orientation. WebP is
// decoded explicitly when the registered decoders do not recognise it.
func (l *Loader) LoadFile(path string) (*image.RGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		var werr error
		img, werr = decodeWebP(path)
		if werr != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
	}
	return l.normalise(img, "file", filepath.Base(path))
}

func decodeWebP(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return webp.Decode(f)
}

// GrabScreen returns a capture of the current monitor.
func (l *Loader) GrabScreen() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("grab screen: %w", err)
	}
	return l.normalise(img, "screen", "")
}

// Sample returns the bundled practice target.
func (l *Loader) Sample() (*image.RGBA, error) {
	img, err := assets.SampleTargetImage()
	if err != nil {
		return nil, err
	}
	return l.normalise(img, "sample", "sample_target.png")
}

func (l *Loader) normalise(img image.Image, source, name string) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	rgba := clone.AsRGBA(img)
	if l != nil && l.logger != nil {
		b := rgba.Bounds()
		l.logger.Info("image loaded",
			"source", source,
			"name", name,
			"width", b.Dx(),
			"height", b.Dy(),
			"megapixels", humanize.FtoaWithDigits(float64(b.Dx()*b.Dy())/1e6, 2),
			"memory", humanize.Bytes(uint64(len(rgba.Pix))))
	}
	return rgba, nil
}
