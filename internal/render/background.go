package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// compositeBackground places img over a solid base colour and, when bg is
// set, over bg scaled to cover the canvas and centred.
func compositeBackground(img *image.RGBA, base color.Color, bg image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(base), image.Point{}, draw.Src)
	if bg != nil {
		cover := imaging.Fill(bg, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(out, b, cover, image.Point{}, draw.Over)
	}
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
