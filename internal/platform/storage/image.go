package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register webp
)

var ErrUnsupportedImage = errors.New("unsupported image")

const jpegQuality = 85

// DefaultMaxPixels bounds the decoded bitmap of an upload.
const DefaultMaxPixels = 40_000_000

// PrepareImage checks that content decodes as an image and scales jpeg, png
// and bmp photos down so neither side exceeds maxDimension. Other formats and
// photos already within bounds are returned untouched.
//
// The header is checked against maxPixels before any pixel data is decoded;
// a small compressed file can still declare a huge canvas.
func PrepareImage(content []byte, maxDimension, maxPixels int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty canvas %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, maxPixels)
	}

	if maxDimension <= 0 || (cfg.Width <= maxDimension && cfg.Height <= maxDimension) {
		return content, nil
	}

	switch format {
	case "jpeg", "png", "bmp":
	default:
		return content, nil
	}

	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	width, height := scaledSize(cfg.Width, cfg.Height, maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	case "bmp":
		err = bmp.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func scaledSize(width, height, limit int) (int, int) {
	if width >= height {
		h := height * limit / width
		if h < 1 {
			h = 1
		}
		return limit, h
	}

	w := width * limit / height
	if w < 1 {
		w = 1
	}
	return w, limit
}
