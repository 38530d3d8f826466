package refine

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// errEmptyImage is returned when a grayscale buffer has no pixels.
var errEmptyImage = errors.New("refine: empty grayscale image")

// grayToMat converts a stdlib grayscale image into a single-channel
// 8-bit Mat. Rows are repacked when the image stride exceeds its
// width. The caller owns the returned Mat and must Close it.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errEmptyImage
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return gocv.NewMat(), errEmptyImage
	}

	if img.Stride == w {
		return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, img.Pix)
	}

	packed := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		copy(packed[y*w:], row)
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, packed)
}

// clampRect intersects a rectangle with the image bounds of a
// width×height mat.
func clampRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}
