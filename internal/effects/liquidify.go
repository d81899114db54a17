package effects

import (
	"image"
	"image/color"
)

// Liquidify box-blurs the straight (unpremultiplied) colour channels of img
// and thresholds the result: pixels whose blurred (R+G+B)/3 exceeds
// threshold become light, the rest dark. Alpha is taken from the source so transparent areas stay
// transparent. A radius of 0 thresholds without blurring.
func Liquidify(img *image.RGBA, radius int, threshold float64, light, dark color.NRGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	rgb := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			a := float64(row[x*4+3])
			if a == 0 {
				continue
			}
			k := (y*w + x) * 3
			rgb[k] = float64(row[x*4]) * 255 / a
			rgb[k+1] = float64(row[x*4+1]) * 255 / a
			rgb[k+2] = float64(row[x*4+2]) * 255 / a
		}
	}
	if radius > 0 {
		boxBlur(rgb, w, h, radius)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := (y*w + x) * 3
			c := dark
			if (rgb[k]+rgb[k+1]+rgb[k+2])/3 > threshold {
				c = light
			}
			a := uint32(img.Pix[y*img.Stride+x*4+3])
			o := out.Pix[y*out.Stride+x*4:]
			o[0] = uint8(uint32(c.R) * a / 255)
			o[1] = uint8(uint32(c.G) * a / 255)
			o[2] = uint8(uint32(c.B) * a / 255)
			o[3] = uint8(a)
		}
	}
	return out
}

// boxBlur averages each channel over a (2r+1)² window, horizontally then
// vertically. Windows are clipped at the image edges.
func boxBlur(px []float64, w, h, r int) {
	line := make([]float64, max(w, h)*3)
	pass := func(n int, at func(i int) int) {
		var sum [3]float64
		lo, hi := 0, -1
		for i := 0; i < n; i++ {
			for hi < min(n-1, i+r) {
				hi++
				k := at(hi)
				sum[0], sum[1], sum[2] = sum[0]+px[k], sum[1]+px[k+1], sum[2]+px[k+2]
			}
			for lo < i-r {
				k := at(lo)
				sum[0], sum[1], sum[2] = sum[0]-px[k], sum[1]-px[k+1], sum[2]-px[k+2]
				lo++
			}
			cnt := float64(hi - lo + 1)
			line[i*3], line[i*3+1], line[i*3+2] = sum[0]/cnt, sum[1]/cnt, sum[2]/cnt
		}
		for i := 0; i < n; i++ {
			k := at(i)
			px[k], px[k+1], px[k+2] = line[i*3], line[i*3+1], line[i*3+2]
		}
	}
	for y := 0; y < h; y++ {
		pass(w, func(i int) int { return (y*w + i) * 3 })
	}
	for x := 0; x < w; x++ {
		pass(h, func(i int) int { return (i*w + x) * 3 })
	}
}
