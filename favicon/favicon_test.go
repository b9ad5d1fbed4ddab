package favicon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderGeometry(t *testing.T) {
	img := Render()
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Fatalf("base tile is %v, want 32x32", img.Bounds())
	}

	at := func(x, y int) (r, g, b, a uint32) {
		return img.At(x, y).RGBA()
	}

	// Center of the K's vertical bar is black.
	if r, g, b, _ := at(9, 15); r != 0 || g != 0 || b != 0 {
		t.Errorf("bar pixel (9,15) = %v, want black", img.At(9, 15))
	}
	// Tile interior away from the mark is white.
	if r, g, b, _ := at(25, 15); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("interior pixel (25,15) = %v, want white", img.At(25, 15))
	}
	// The extreme corner lies outside the rounded rectangle.
	if _, _, _, a := at(0, 0); a != 0 {
		t.Errorf("corner pixel (0,0) alpha = %d, want transparent", a)
	}
	// Straight edges carry the border color.
	if r, g, b, _ := at(15, 1); r>>8 != 229 || g>>8 != 231 || b>>8 != 235 {
		t.Errorf("edge pixel (15,1) = %v, want #e5e7eb", img.At(15, 1))
	}
	// The upper diagonal reaches toward the top-right of the glyph.
	if r, g, b, _ := at(16, 7); r != 0 || g != 0 || b != 0 {
		t.Errorf("upper diagonal pixel (16,7) = %v, want black", img.At(16, 7))
	}
}

func TestScale(t *testing.T) {
	img := Scale(Render(), 256)
	if img.Bounds().Dx() != 256 {
		t.Fatalf("scaled width = %d", img.Bounds().Dx())
	}
}

func TestGenerateWritesIconSet(t *testing.T) {
	dir := t.TempDir()
	files, err := Generate(dir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// One PNG per size, favicon.png, favicon.ico.
	if want := len(Sizes) + 2; len(files) != want {
		t.Fatalf("wrote %d files, want %d: %v", len(files), want, files)
	}
	if _, err := os.Stat(filepath.Join(dir, "favicon.ico")); err != nil {
		t.Errorf("missing favicon.ico: %v", err)
	}

	// Every PNG decodes at the advertised size.
	for _, size := range Sizes {
		f, err := os.Open(filepath.Join(dir, fmt.Sprintf("favicon-%d.png", size)))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("favicon-%d.png does not decode: %v", size, err)
		}
		if img.Bounds().Dx() != size {
			t.Errorf("favicon-%d.png is %d wide", size, img.Bounds().Dx())
		}
	}
}

func TestEncodeICO(t *testing.T) {
	base := Render()
	var buf bytes.Buffer
	if err := EncodeICO(&buf, []image.Image{Scale(base, 16), Scale(base, 32), Scale(base, 48)}); err != nil {
		t.Fatalf("EncodeICO failed: %v", err)
	}
	data := buf.Bytes()

	var reserved, icoType, count uint16
	r := bytes.NewReader(data)
	binary.Read(r, binary.LittleEndian, &reserved)
	binary.Read(r, binary.LittleEndian, &icoType)
	binary.Read(r, binary.LittleEndian, &count)
	if reserved != 0 || icoType != 1 || count != 3 {
		t.Fatalf("header = (%d, %d, %d), want (0, 1, 3)", reserved, icoType, count)
	}

	// First entry: 16x16, payload offset right after the directory.
	if data[6] != 16 || data[7] != 16 {
		t.Errorf("entry 0 dimensions = %dx%d", data[6], data[7])
	}
	offset := binary.LittleEndian.Uint32(data[6+12 : 6+16])
	if offset != 6+16*3 {
		t.Errorf("entry 0 offset = %d, want %d", offset, 6+16*3)
	}
	// Payload at the offset is a PNG.
	if !bytes.HasPrefix(data[offset:], []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("entry 0 payload is not PNG")
	}

	if _, err := png.Decode(bytes.NewReader(data[offset:])); err != nil {
		t.Errorf("entry 0 payload does not decode: %v", err)
	}
}

func TestEncodeICOEmpty(t *testing.T) {
	if err := EncodeICO(&bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for empty image list")
	}
}

func TestCopyFallback(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFallback(dir); err != nil {
		t.Fatalf("CopyFallback failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "favicon.svg"))
	if err != nil {
		t.Fatalf("fallback not written: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("fallback is not an SVG")
	}
}
