package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestWatermarker(t *testing.T) *Watermarker {
	t.Helper()

	overlay := imaging.New(2, 2, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "watermark.png")
	if err := imaging.Save(overlay, path); err != nil {
		t.Fatalf("save watermark asset: %v", err)
	}

	wm, err := NewWatermarker(path)
	if err != nil {
		t.Fatalf("load watermarker: %v", err)
	}
	return wm
}

func TestWatermarkerAppliesOverlayTopLeft(t *testing.T) {
	wm := newTestWatermarker(t)

	source := imaging.New(10, 10, color.NRGBA{B: 255, A: 255})
	out, err := wm.Apply(encodePNG(t, source))
	if err != nil {
		t.Fatalf("apply watermark: %v", err)
	}

	result, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Bounds().Dx() != 10 || result.Bounds().Dy() != 10 {
		t.Fatalf("unexpected result size: %v", result.Bounds())
	}

	r, _, b, _ := result.At(0, 0).RGBA()
	if r == 0 || b != 0 {
		t.Fatalf("top-left pixel must carry the overlay, got r=%d b=%d", r, b)
	}

	r, _, b, _ = result.At(9, 9).RGBA()
	if b == 0 || r != 0 {
		t.Fatalf("far corner must keep the source color, got r=%d b=%d", r, b)
	}
}

func TestWatermarkerRejectsGarbage(t *testing.T) {
	wm := newTestWatermarker(t)

	if _, err := wm.Apply([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error for garbage input")
	}
	if _, err := wm.Apply(nil); err == nil {
		t.Fatalf("expected validation error for empty input")
	}
}

func TestNewWatermarkerMissingAsset(t *testing.T) {
	if _, err := NewWatermarker(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func TestServiceStoresWatermarkedPNG(t *testing.T) {
	wm := newTestWatermarker(t)

	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	svc := NewService(wm, storage)

	source := imaging.New(4, 4, color.NRGBA{G: 255, A: 255})
	ref, err := svc.StoreAvatar(context.Background(), encodePNG(t, source))
	if err != nil {
		t.Fatalf("store avatar: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Fatalf("expected png object name, got %q", ref)
	}

	stored, err := os.ReadFile(filepath.Join(dir, ref))
	if err != nil {
		t.Fatalf("read stored avatar: %v", err)
	}
	if _, err := imaging.Decode(bytes.NewReader(stored)); err != nil {
		t.Fatalf("stored avatar must decode: %v", err)
	}
}
