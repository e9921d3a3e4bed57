// Package imaging derives fixed-size avatar previews from uploaded
// originals. Previews are small by construction, so the encoded result
// is returned in memory for persistence as a database blob.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const jpegPreviewQuality = 85

// Preview holds the encoded preview bytes and their media type.
type Preview struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
}

// GeneratePreview decodes an image stream, downscales it to fit inside
// a bound×bound box preserving aspect ratio, and re-encodes it with the
// same codec the original used. Images already inside the box are
// re-encoded without scaling. Undecodable data and codecs other than
// PNG, JPEG and GIF are rejected.
func GeneratePreview(r io.Reader, bound int) (*Preview, error) {
	if bound <= 0 {
		return nil, fmt.Errorf("preview bound must be positive, got %d", bound)
	}

	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := scaleToFit(src, bound)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegPreviewQuality})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s preview: %w", format, err)
	}

	return &Preview{
		Data:      buf.Bytes(),
		MediaType: "image/" + format,
		Width:     dst.Bounds().Dx(),
		Height:    dst.Bounds().Dy(),
	}, nil
}

// scaleToFit downscales src so its longer side equals bound, keeping
// the aspect ratio. Smaller images pass through unscaled.
func scaleToFit(src image.Image, bound int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= bound && h <= bound {
		return src
	}

	var dw, dh int
	if w >= h {
		dw = bound
		dh = h * bound / w
	} else {
		dh = bound
		dw = w * bound / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
