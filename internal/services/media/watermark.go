package media

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// Watermarker stamps a fixed overlay image onto the top-left corner of
// uploaded avatars. The overlay is loaded once at construction.
type Watermarker struct {
	overlay image.Image
}

func NewWatermarker(path string) (*Watermarker, error) {
	overlay, err := imaging.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("watermark asset %q does not exist", path)
		}
		return nil, fmt.Errorf("open watermark asset %q: %w", path, err)
	}
	return &Watermarker{overlay: overlay}, nil
}

// Apply decodes the source image, pastes the overlay at (0,0) and
// re-encodes the result as PNG regardless of the input format.
func (w *Watermarker) Apply(source []byte) ([]byte, error) {
	if len(source) == 0 {
		return nil, ErrValidation
	}
	if w.overlay == nil {
		return nil, fmt.Errorf("watermark overlay is not loaded")
	}

	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("decode avatar image: %w", err)
	}

	stamped := imaging.Overlay(img, w.overlay, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, stamped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode watermarked avatar: %w", err)
	}

	return buf.Bytes(), nil
}
