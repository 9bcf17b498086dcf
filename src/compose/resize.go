package compose

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize scales an image to the target width and height. If one dimension
// is zero it is derived from the source aspect ratio; if both are zero the
// image is returned unchanged. Resampling is Catmull-Rom.
func Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if width <= 0 && height <= 0 {
		return img
	}
	if width <= 0 {
		width = b.Dx() * height / b.Dy()
	}
	if height <= 0 {
		height = b.Dy() * width / b.Dx()
	}
	if width == b.Dx() && height == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
