// Package favicon renders the site's icon set natively: a 32×32 white
// rounded-rectangle tile with a black "K" mark, scaled out to the usual
// favicon sizes plus a multi-resolution favicon.ico. If rendering or
// writing fails, the checked-in SVG fallback is copied instead.
package favicon

import (
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

//go:embed assets/fallback.svg
var fallbackFS embed.FS

// Sizes are the PNG edge lengths emitted alongside favicon.png.
var Sizes = []int{16, 32, 48, 96, 144, 256}

// icoSizes are the resolutions bundled into favicon.ico.
var icoSizes = []int{16, 32, 48}

const baseSize = 32

var (
	tileFill   = color.NRGBA{255, 255, 255, 255}
	tileBorder = color.NRGBA{229, 231, 235, 255} // #e5e7eb
	markFill   = color.NRGBA{0, 0, 0, 255}
)

// Render draws the base 32×32 tile: white rounded rectangle from (1,1) to
// (30,30) with corner radius 6 and a 1px border, and the K mark built from
// a vertical bar and two diagonals.
func Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, baseSize, baseSize))

	fillRoundedRect(img, 1, 1, 30, 30, 6, tileFill, tileBorder)

	// Vertical bar of the K.
	fillRect(img, 8, 6, 10, 25, markFill)
	// Upper diagonal.
	fillPolygon(img, []point{{10, 6}, {18, 6}, {18, 8}, {12, 14}, {10, 14}}, markFill)
	// Lower diagonal.
	fillPolygon(img, []point{{10, 17}, {12, 17}, {18, 25}, {18, 27}, {14, 27}, {10, 20}}, markFill)

	return img
}

// Scale resamples the base tile to size×size with Catmull-Rom, the same
// kernel used for uploaded images.
func Scale(base image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Over, nil)
	return dst
}

// Generate renders the icon set into outDir: favicon-<n>.png for every
// size, favicon.png at 32×32, and favicon.ico with 16/32/48 entries.
// It returns the files written.
func Generate(outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	base := Render()

	var written []string
	writePNG := func(name string, img image.Image) error {
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	for _, size := range Sizes {
		if err := writePNG(fmt.Sprintf("favicon-%d.png", size), Scale(base, size)); err != nil {
			return written, err
		}
	}
	if err := writePNG("favicon.png", base); err != nil {
		return written, err
	}

	icoPath := filepath.Join(outDir, "favicon.ico")
	f, err := os.Create(icoPath)
	if err != nil {
		return written, err
	}
	defer f.Close()
	icoImages := make([]image.Image, 0, len(icoSizes))
	for _, size := range icoSizes {
		icoImages = append(icoImages, Scale(base, size))
	}
	if err := EncodeICO(f, icoImages); err != nil {
		return written, fmt.Errorf("encode favicon.ico: %w", err)
	}
	written = append(written, icoPath)
	return written, nil
}

// GenerateOrFallback generates the icon set, and on failure copies the
// static SVG fallback into outDir and reports what happened through logf.
func GenerateOrFallback(outDir string, logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	files, err := Generate(outDir)
	if err == nil {
		logf("favicon: wrote %d files to %s", len(files), outDir)
		return nil
	}
	logf("favicon: generation failed (%v), copying static fallback", err)
	return CopyFallback(outDir)
}

// CopyFallback writes the embedded fallback SVG to outDir/favicon.svg.
func CopyFallback(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data, err := fallbackFS.ReadFile("assets/fallback.svg")
	if err != nil {
		return fmt.Errorf("read embedded fallback: %w", err)
	}
	return os.WriteFile(filepath.Join(outDir, "favicon.svg"), data, 0o644)
}

type point struct {
	x, y float64
}

// fillRect fills the inclusive pixel rectangle [x0,y0]..[x1,y1].
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.Set(x, y, c)
		}
	}
}

// fillRoundedRect fills a rounded rectangle with the given corner radius
// and draws a 1px outline just inside its boundary. Both tests run per
// pixel center; at 32×32 that is plenty fast and keeps corners clean.
func fillRoundedRect(img *image.RGBA, x0, y0, x1, y1, radius int, fill, outline color.Color) {
	inside := func(px, py float64, inset float64) bool {
		fx0, fy0 := float64(x0)+inset, float64(y0)+inset
		fx1, fy1 := float64(x1)+1-inset, float64(y1)+1-inset
		r := float64(radius) - inset
		if r < 0 {
			r = 0
		}
		if px < fx0 || px > fx1 || py < fy0 || py > fy1 {
			return false
		}
		// Corner circles.
		cx := px
		cy := py
		if px < fx0+r {
			cx = fx0 + r
		} else if px > fx1-r {
			cx = fx1 - r
		}
		if py < fy0+r {
			cy = fy0 + r
		} else if py > fy1-r {
			cy = fy1 - r
		}
		dx, dy := px-cx, py-cy
		return dx*dx+dy*dy <= r*r
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			if !inside(px, py, 0) {
				continue
			}
			if inside(px, py, 1) {
				img.Set(x, y, fill)
			} else {
				img.Set(x, y, outline)
			}
		}
	}
}

// fillPolygon rasterizes a simple polygon with even-odd ray casting
// against pixel centers.
func fillPolygon(img *image.RGBA, pts []point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := pts[0].x, pts[0].y
	for _, p := range pts[1:] {
		minX, maxX = minF(minX, p.x), maxF(maxX, p.x)
		minY, maxY = minF(minY, p.y), maxF(maxY, p.y)
	}
	for y := int(minY); y <= int(maxY); y++ {
		for x := int(minX); x <= int(maxX); x++ {
			if pointInPolygon(float64(x)+0.5, float64(y)+0.5, pts) {
				img.Set(x, y, c)
			}
		}
	}
}

func pointInPolygon(px, py float64, pts []point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := pts[i].x, pts[i].y
		xj, yj := pts[j].x, pts[j].y
		if (yi > py) != (yj > py) &&
			px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
