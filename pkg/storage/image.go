package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ResizeImage scales the image so neither side exceeds maxDimension. JPEG
// input stays JPEG, anything else is re-encoded as PNG to keep transparency.
// Images already within bounds are returned unchanged.
func ResizeImage(data []byte, maxDimension int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension {
		return data, format, nil
	}

	newWidth, newHeight := maxDimension, maxDimension
	if width > height {
		newHeight = height * maxDimension / width
	} else {
		newWidth = width * maxDimension / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	} else {
		format = "png"
		err = png.Encode(&buf, resized)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), format, nil
}
