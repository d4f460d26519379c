// Package vision implements the image operation dispatcher: load a stored
// image, bound its size, apply one named transform and persist the result
// under a deterministic derivative name.
package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"nirvana-heritage/internal/filestore"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnreadableImage means the source blob could not be decoded.
	ErrUnreadableImage = errors.New("image could not be decoded")

	// ErrUnknownOperation means the operation name is not in the table.
	// Unknown names fail closed instead of passing the image through.
	ErrUnknownOperation = errors.New("unknown operation")
)

// maxDimension bounds the longer side before any transform runs, keeping the
// worst-case processing cost and output size in check.
const maxDimension = 2500

// Operation names one transform from the fixed table.
type Operation string

const (
	OpDilation      Operation = "dilation"
	OpEdges         Operation = "edges"
	OpRemoveBG      Operation = "remove_bg"
	OpDetectObjects Operation = "detect_objects"
	OpSketch        Operation = "sketch"
	OpDetail        Operation = "detail"
	OpSharpen       Operation = "sharpen"
	OpBW            Operation = "bw"
	OpVintage       Operation = "vintage"
	OpResize        Operation = "resize"
)

type transform func(image.Image) image.Image

// artisanOps back the /process_artisan route, royalOps /process_advanced.
var (
	artisanOps = map[Operation]transform{
		OpDilation: dilate5x5,
		OpEdges:    edgeMap,
		OpRemoveBG: removeBackground,
	}

	royalOps = map[Operation]transform{
		OpDetectObjects: detectObjects,
		OpSketch:        pencilSketch,
		OpDetail:        detailEnhance,
		OpSharpen:       sharpen3x3,
		OpBW:            blackAndWhite,
		OpVintage:       vintage,
		OpResize:        resize75,
	}
)

// Dispatcher runs one named transform per call against the file store.
type Dispatcher struct {
	Files filestore.Store
}

func NewDispatcher(files filestore.Store) *Dispatcher {
	return &Dispatcher{Files: files}
}

// ApplyHeritage runs the default upload treatment (denoise + saturation
// boost) and stores the result as heritage_<name>.
func (d *Dispatcher) ApplyHeritage(ctx context.Context, filename string) (string, error) {
	return d.apply(ctx, filename, "heritage_"+filename, heritage)
}

// ApplyArtisan runs one artisan operation, producing artisan_<op>_<name>.
func (d *Dispatcher) ApplyArtisan(ctx context.Context, filename string, op Operation) (string, error) {
	fn, ok := artisanOps[op]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return d.apply(ctx, filename, fmt.Sprintf("artisan_%s_%s", op, filename), fn)
}

// ApplyRoyal runs one advanced operation, producing royal_<op>_<name>.
func (d *Dispatcher) ApplyRoyal(ctx context.Context, filename string, op Operation) (string, error) {
	fn, ok := royalOps[op]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return d.apply(ctx, filename, fmt.Sprintf("royal_%s_%s", op, filename), fn)
}

// apply resolves the source (processed folder first, then uploads), decodes,
// bounds the size, runs fn and writes exactly one new derivative. The source
// is never mutated; repeat calls overwrite the derivative.
func (d *Dispatcher) apply(ctx context.Context, source, derivative string, fn transform) (string, error) {
	folder, err := d.Files.Resolve(ctx, source)
	if err != nil {
		return "", err
	}

	r, err := d.Files.Open(ctx, folder, source)
	if err != nil {
		return "", err
	}
	defer r.Close()

	img, err := imaging.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	img = boundSize(img)
	out := fn(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, formatFor(derivative)); err != nil {
		return "", fmt.Errorf("encode derivative: %w", err)
	}
	if err := d.Files.Write(ctx, filestore.FolderProcessed, derivative, buf.Bytes()); err != nil {
		return "", fmt.Errorf("store derivative: %w", err)
	}
	return derivative, nil
}

// boundSize downscales proportionally with an area-averaging filter so the
// longer side is at most maxDimension.
func boundSize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxDimension, 0, imaging.Box)
	}
	return imaging.Resize(img, 0, maxDimension, imaging.Box)
}

func formatFor(filename string) imaging.Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, err := imaging.FormatFromExtension(ext); err == nil {
		return f
	}
	return imaging.JPEG
}
