// Package imageprocessor нормализует загружаемые фотографии: декодирует
// JPEG/PNG, при необходимости уменьшает и всегда перекодирует в PNG, чтобы в
// хранилище лежал единый формат независимо от того, что прислал клиент.
package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

type Processor struct {
	maxDim int // longest allowed side in pixels, 0 = no limit
}

func New(maxDim int) *Processor {
	return &Processor{maxDim: maxDim}
}

// NormalizePNG decodes the uploaded photo and re-encodes it as PNG,
// downscaling so that neither side exceeds maxDim. Aspect ratio is kept.
func (p *Processor) NormalizePNG(reader io.Reader) (*bytes.Buffer, error) {
	src, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}

	src = p.downscale(src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return &buf, nil
}

func (p *Processor) downscale(src image.Image) image.Image {
	if p.maxDim <= 0 {
		return src
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= p.maxDim {
		return src
	}

	scale := float64(p.maxDim) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(width)*scale), int(float64(height)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
