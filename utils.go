package hgi

import (
	"image"
	"image/draw"
)

// ToGray copies any image.Image into an *image.Gray with bounds starting at (0,0).
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	grayInto(dst, src)
	return dst
}

// grayInto fills dst, which must be anchored at (0,0) and as large as src.
// *image.Gray sources are copied row by row; everything else goes through
// draw.Draw and color.GrayModel.
func grayInto(dst *image.Gray, src image.Image) {
	b := src.Bounds()
	g, ok := src.(*image.Gray)
	if !ok {
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
		return
	}

	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		srcOff := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], g.Pix[srcOff:srcOff+w])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
