package vision

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// heritage is the default upload treatment: mild denoise plus a 1.2x
// saturation boost.
func heritage(img image.Image) image.Image {
	denoised := imaging.Blur(img, 0.8)
	return imaging.AdjustSaturation(denoised, 20)
}

// dilate5x5 grows bright regions with a 5x5 max filter per channel.
func dilate5x5(img image.Image) image.Image {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(b)

	const radius = 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var maxR, maxG, maxB uint8
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					i := src.PixOffset(nx, ny)
					if src.Pix[i] > maxR {
						maxR = src.Pix[i]
					}
					if src.Pix[i+1] > maxG {
						maxG = src.Pix[i+1]
					}
					if src.Pix[i+2] > maxB {
						maxB = src.Pix[i+2]
					}
				}
			}
			j := dst.PixOffset(x, y)
			dst.Pix[j] = maxR
			dst.Pix[j+1] = maxG
			dst.Pix[j+2] = maxB
			dst.Pix[j+3] = 0xff
		}
	}
	return dst
}

// edgeMap renders the Canny(100, 200) edge map back as a 3-channel image.
func edgeMap(img image.Image) image.Image {
	edges := canny(toGray(img), 100, 200)
	return grayToNRGBA(edges)
}

// removeBackground masks out near-white pixels (gray value above 240).
func removeBackground(img image.Image) image.Image {
	gray := toGray(img)
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if gray.GrayAt(x, y).Y > 240 {
				i := out.PixOffset(x, y)
				out.Pix[i] = 0
				out.Pix[i+1] = 0
				out.Pix[i+2] = 0
			}
		}
	}
	return out
}

// detectObjects blurs, extracts Canny(30, 150) external contours and draws
// them in gold over the original.
func detectObjects(img image.Image) image.Image {
	blurred := imaging.Blur(img, 1.4)
	edges := canny(toGray(blurred), 30, 150)

	out := imaging.Clone(img)
	gold := color.NRGBA{R: 255, G: 215, B: 0, A: 255}
	for _, contour := range externalContours(edges) {
		for _, p := range contour {
			drawDot(out, p.X, p.Y, gold)
		}
	}
	return out
}

// pencilSketch stylizes via gray + inverted blur + color dodge.
func pencilSketch(img image.Image) image.Image {
	gray := toGray(img)
	inverted := imaging.Invert(grayToNRGBA(gray))
	blurred := toGray(imaging.Blur(inverted, 8))

	b := gray.Bounds()
	sketch := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := int(gray.GrayAt(x, y).Y)
			d := 255 - int(blurred.GrayAt(x, y).Y)
			// color dodge: base / (1 - blend)
			var v int
			if d >= 255 {
				v = 255
			} else {
				v = g * 255 / (255 - d)
				if v > 255 {
					v = 255
				}
			}
			sketch.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return grayToNRGBA(sketch)
}

// detailEnhance sharpens with a moderate gaussian-difference amount.
func detailEnhance(img image.Image) image.Image {
	return imaging.Sharpen(img, 1.2)
}

// sharpen3x3 applies the unsharp kernel (center 9, neighbors -1).
func sharpen3x3(img image.Image) image.Image {
	return imaging.Convolve3x3(img, [9]float64{
		-1, -1, -1,
		-1, 9, -1,
		-1, -1, -1,
	}, nil)
}

// blackAndWhite converts to grayscale, kept 3-channel for uniform handling.
func blackAndWhite(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

// vintage applies the fixed sepia color-transform matrix.
func vintage(img image.Image) image.Image {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp255(0.393*r + 0.769*g + 0.189*b),
			G: clamp255(0.349*r + 0.686*g + 0.168*b),
			B: clamp255(0.272*r + 0.534*g + 0.131*b),
			A: c.A,
		}
	})
}

// resize75 scales both dimensions down to 75%.
func resize75(img image.Image) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * 0.75)
	h := int(float64(b.Dy()) * 0.75)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Box)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return gray
}

func grayToNRGBA(gray *image.Gray) *image.NRGBA {
	b := gray.Bounds()
	out := image.NewNRGBA(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := gray.GrayAt(x, y).Y
			i := out.PixOffset(x, y)
			out.Pix[i] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// drawDot paints a 2x2 block so contours render about two pixels thick.
func drawDot(img *image.NRGBA, x, y int, c color.NRGBA) {
	b := img.Bounds()
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			nx, ny := x+dx, y+dy
			if nx >= b.Dx() || ny >= b.Dy() {
				continue
			}
			i := img.PixOffset(nx, ny)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

func clamp255(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
