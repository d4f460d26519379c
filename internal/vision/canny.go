package vision

import (
	"image"
	"math"
)

// canny computes a Canny edge map: Sobel gradients, non-maximum suppression,
// then double-threshold with hysteresis. Edge pixels are 255, the rest 0.
func canny(gray *image.Gray, low, high float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	mag := make([]float64, w*h)
	dir := make([]uint8, w*h) // quantized gradient direction: 0, 45, 90, 135

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -int(gray.GrayAt(x-1, y-1).Y) + int(gray.GrayAt(x+1, y-1).Y) +
				-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
				-int(gray.GrayAt(x-1, y+1).Y) + int(gray.GrayAt(x+1, y+1).Y)
			gy := -int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - int(gray.GrayAt(x+1, y-1).Y) +
				int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + int(gray.GrayAt(x+1, y+1).Y)

			i := y*w + x
			mag[i] = math.Hypot(float64(gx), float64(gy))
			dir[i] = quantizeAngle(float64(gy), float64(gx))
		}
	}

	// non-maximum suppression: keep a pixel only if it is the local peak
	// along its gradient direction
	thin := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			var m1, m2 float64
			switch dir[i] {
			case 0: // horizontal gradient, compare left/right
				m1, m2 = mag[i-1], mag[i+1]
			case 45:
				m1, m2 = mag[(y-1)*w+x+1], mag[(y+1)*w+x-1]
			case 90: // vertical gradient, compare up/down
				m1, m2 = mag[(y-1)*w+x], mag[(y+1)*w+x]
			default: // 135
				m1, m2 = mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
			}
			if mag[i] >= m1 && mag[i] >= m2 {
				thin[i] = mag[i]
			}
		}
	}

	const (
		strong = 255
		weak   = 128
	)
	out := image.NewGray(image.Rect(0, 0, w, h))
	var strongPixels []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			switch {
			case thin[i] >= high:
				out.Pix[i] = strong
				strongPixels = append(strongPixels, image.Point{X: x, Y: y})
			case thin[i] >= low:
				out.Pix[i] = weak
			}
		}
	}

	// hysteresis: weak pixels survive only if connected to a strong one
	for len(strongPixels) > 0 {
		p := strongPixels[len(strongPixels)-1]
		strongPixels = strongPixels[:len(strongPixels)-1]
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				i := ny*w + nx
				if out.Pix[i] == weak {
					out.Pix[i] = strong
					strongPixels = append(strongPixels, image.Point{X: nx, Y: ny})
				}
			}
		}
	}
	for i := range out.Pix {
		if out.Pix[i] == weak {
			out.Pix[i] = 0
		}
	}
	return out
}

// quantizeAngle buckets a gradient angle into 0/45/90/135 degrees.
func quantizeAngle(gy, gx float64) uint8 {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return 0
	case angle < 67.5:
		return 45
	case angle < 112.5:
		return 90
	default:
		return 135
	}
}
