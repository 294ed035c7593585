package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodedImage is a PNG ready to hand back over JSON.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// StripBounds returns the rectangle of strip index when img is cut into
// strips of the given width.
func StripBounds(img image.Image, width, index int) (image.Rectangle, error) {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx()%width != 0 {
		return image.Rectangle{}, fmt.Errorf("strip width %d does not divide image width %d", width, bounds.Dx())
	}
	n := bounds.Dx() / width
	if index < 0 || index >= n {
		return image.Rectangle{}, fmt.Errorf("strip %d out of range [0, %d)", index, n)
	}
	x0 := bounds.Min.X + index*width
	return image.Rect(x0, bounds.Min.Y, x0+width, bounds.Max.Y), nil
}

// StripPreview cuts a single strip out of img and returns it as a PNG.
// A scale other than 1 resizes it with nearest-neighbour sampling so that
// pixel edges stay sharp when a narrow strip is enlarged.
func StripPreview(img image.Image, width, index int, scale float64) (*EncodedImage, error) {
	rect, err := StripBounds(img, width, index)
	if err != nil {
		return nil, err
	}

	strip := imaging.Crop(img, rect)
	if scale != 1.0 && scale > 0 {
		w := int(float64(strip.Bounds().Dx()) * scale)
		h := int(float64(strip.Bounds().Dy()) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		strip = imaging.Resize(strip, w, h, imaging.NearestNeighbor)
	}

	return EncodePNG(strip)
}
