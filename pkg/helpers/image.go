package helpers

import (
	"bytes"
	"errors"
	"io"

	"github.com/disintegration/imaging"
)

const MaxImageSide = 1200

var ErrInvalidImage = errors.New("invalid image")

// NormalizeImage decodes r, shrinks it to fit MaxImageSide and re-encodes
// it as JPEG. EXIF orientation is applied before resizing.
func NormalizeImage(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImage
	}
	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}
	out := &bytes.Buffer{}
	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return out, nil
}
