package video

import (
	"image"

	"golang.org/x/image/draw"
)

// Fits srcW x srcH into maxW x maxH keeping the aspect ratio. Frames are
// never upscaled and both sides come back even, which ffmpeg's scaler needs.
func FitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}

	w, h := srcW, srcH
	if w > maxW || h > maxH {
		aspect := float64(srcW) / float64(srcH)
		if float64(maxW)/float64(maxH) > aspect {
			h = maxH
			w = int(float64(h) * aspect)
		} else {
			w = maxW
			h = int(float64(w) / aspect)
		}
	}

	w = clampEven(w, 2, maxW)
	h = clampEven(h, 2, maxH)
	return w, h
}

// Resamples src into a new RGBA image of the given size
func Scale(src *image.RGBA, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	ScaleInto(dst, src)
	return dst
}

// Resamples src to fill dst
func ScaleInto(dst, src *image.RGBA) {
	if src == nil || dst == nil {
		return
	}
	if src.Bounds().Size() == dst.Bounds().Size() {
		draw.Copy(dst, dst.Bounds().Min, src, src.Bounds(), draw.Src, nil)
		return
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

func clampEven(v, min, max int) int {
	v = (v / 2) * 2
	max = (max / 2) * 2
	if v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return v
}
