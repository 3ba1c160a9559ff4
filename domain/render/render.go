// Package render rasterises an overlay scene on top of the visible part of
// the photo. Drawing order is fixed: background, image, reference line,
// groups in group order (the active one opaque, the rest translucent) and
// finally the info boxes.
package render

import (
	"image"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

// Quality selects the resampling filter for the image blit.
type Quality int

const (
	Nearest Quality = iota
	Bilinear
)

// ParseQuality maps "nearest" and "bilinear"; anything else is nearest.
func ParseQuality(s string) Quality {
	if s == "bilinear" {
		return Bilinear
	}
	return Nearest
}

func (q Quality) interpolator() draw.Interpolator {
	if q == Bilinear {
		return draw.ApproxBiLinear
	}
	return draw.NearestNeighbor
}

// Renderer draws frames into an RGBA buffer.
type Renderer struct {
	quality Quality
}

// New returns a renderer using the given resampling quality.
func New(q Quality) *Renderer { return &Renderer{quality: q} }

// Frame renders one frame into a new buffer of the scene's bounds. src is
// the visible image rectangle and dst its letterboxed placement.
func (r *Renderer) Frame(img image.Image, src, dst viewport.Rect, sc overlay.Scene) *image.RGBA {
	w, h := int(math.Ceil(sc.Bounds.W)), int(math.Ceil(sc.Bounds.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	buf := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Draw(buf, img, src, dst, sc)
	return buf
}

// Draw renders into buf, which must cover the scene bounds.
func (r *Renderer) Draw(buf *image.RGBA, img image.Image, src, dst viewport.Rect, sc overlay.Scene) {
	draw.Draw(buf, buf.Bounds(), image.NewUniform(sc.Style.Background), image.Point{}, draw.Src)
	if img != nil && !src.Empty() && !dst.Empty() {
		r.blit(buf, img, src, dst)
	}
	Overlay(buf, sc)
}

// blit maps src onto dst with an affine transform clipped to dst.
func (r *Renderer) blit(buf *image.RGBA, img image.Image, src, dst viewport.Rect) {
	o := img.Bounds().Min
	sx, sy := dst.W/src.W, dst.H/src.H
	m := f64.Aff3{
		sx, 0, dst.X - sx*(src.X+float64(o.X)),
		0, sy, dst.Y - sy*(src.Y+float64(o.Y)),
	}
	sr := image.Rect(
		o.X+int(math.Floor(src.X)), o.Y+int(math.Floor(src.Y)),
		o.X+int(math.Ceil(src.X+src.W)), o.Y+int(math.Ceil(src.Y+src.H)),
	).Intersect(img.Bounds())
	clip := image.Rect(
		int(math.Floor(dst.X)), int(math.Floor(dst.Y)),
		int(math.Ceil(dst.X+dst.W)), int(math.Ceil(dst.Y+dst.H)),
	).Intersect(buf.Bounds())
	if clip.Empty() || sr.Empty() {
		return
	}
	target := buf.SubImage(clip).(*image.RGBA)
	r.quality.interpolator().Transform(target, m, img, sr, draw.Over, nil)
}

// Overlay draws the scene's annotations onto buf.
func Overlay(buf *image.RGBA, sc overlay.Scene) {
	dc := gg.NewContextForRGBA(buf)
	st := sc.Style

	if sc.Reference != nil {
		dc.SetColor(st.Reference)
		dc.SetLineWidth(st.LineWidth)
		dc.DrawLine(sc.Reference.A.X, sc.Reference.A.Y, sc.Reference.B.X, sc.Reference.B.Y)
		dc.Stroke()
		dc.DrawCircle(sc.Reference.A.X, sc.Reference.A.Y, st.LineWidth*2)
		dc.DrawCircle(sc.Reference.B.X, sc.Reference.B.Y, st.LineWidth*2)
		dc.Fill()
	}

	for _, g := range sc.Groups {
		drawGroup(dc, g, st)
	}

	dc.SetFontFace(overlay.Face)
	for _, box := range sc.InfoBoxes() {
		drawInfo(dc, box, st)
	}
}

func drawGroup(dc *gg.Context, g overlay.GroupScene, st overlay.Style) {
	alpha := 1.0
	if !g.Active {
		alpha = st.InactiveAlpha
	}
	col := overlay.WithAlpha(g.Color, alpha)

	dc.SetLineWidth(st.LineWidth)
	for _, h := range g.Holes {
		dc.SetColor(col)
		dc.DrawCircle(h.Center.X, h.Center.Y, h.Radius)
		dc.Stroke()
		if h.Selected {
			dc.SetColor(st.Selected)
			dc.DrawCircle(h.Center.X, h.Center.Y, h.Radius+st.LineWidth*2)
			dc.Stroke()
		}
	}

	dc.SetColor(col)
	if g.Offset != nil {
		dc.DrawLine(g.Offset.A.X, g.Offset.A.Y, g.Offset.B.X, g.Offset.B.Y)
		dc.Stroke()
	}
	if g.Centroid != nil {
		s := st.MarkerSize
		c := *g.Centroid
		dc.DrawLine(c.X-s, c.Y, c.X+s, c.Y)
		dc.DrawLine(c.X, c.Y-s, c.X, c.Y+s)
		dc.Stroke()
	}
	if g.Aim != nil {
		s := st.MarkerSize * 0.75
		a := *g.Aim
		dc.DrawLine(a.X-s, a.Y-s, a.X+s, a.Y+s)
		dc.DrawLine(a.X-s, a.Y+s, a.X+s, a.Y-s)
		dc.Stroke()
		dc.DrawCircle(a.X, a.Y, st.MarkerSize)
		dc.Stroke()
	}
}

func drawInfo(dc *gg.Context, box overlay.InfoBox, st overlay.Style) {
	r := box.Rect
	dc.SetColor(st.InfoFill)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()

	dc.SetColor(st.InfoText)
	ascent := float64(overlay.Face.Metrics().Ascent.Ceil())
	lh := overlay.LineHeight()
	for i, line := range box.Lines {
		dc.DrawString(line, r.X+st.InfoPadding, r.Y+st.InfoPadding+ascent+float64(i)*lh)
	}
}
