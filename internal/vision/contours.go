package vision

import "image"

// externalContours groups edge pixels into 8-connected components and
// returns, per component, the pixels that sit on its outer boundary (those
// with at least one non-edge 4-neighbor).
func externalContours(edges *image.Gray) [][]image.Point {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()

	visited := make([]bool, w*h)
	isEdge := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && edges.GrayAt(x, y).Y > 0
	}

	var contours [][]image.Point
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			if !isEdge(sx, sy) || visited[sy*w+sx] {
				continue
			}

			// flood fill one component, collecting boundary pixels
			var contour []image.Point
			stack := []image.Point{{X: sx, Y: sy}}
			visited[sy*w+sx] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if !isEdge(p.X-1, p.Y) || !isEdge(p.X+1, p.Y) ||
					!isEdge(p.X, p.Y-1) || !isEdge(p.X, p.Y+1) {
					contour = append(contour, p)
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if !isEdge(nx, ny) || visited[ny*w+nx] {
							continue
						}
						visited[ny*w+nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}
			contours = append(contours, contour)
		}
	}
	return contours
}
