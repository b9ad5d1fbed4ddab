package kigo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes an image from src, resizes it to maxImageWidth if
// wider, and encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	ext := filepath.Ext(originalName)
	slug := Slugify(strings.TrimSuffix(originalName, ext))
	if slug == "" {
		slug = "image"
	}

	return Image{
		Filename:     slug + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// ensureUniqueFilename appends a counter while the filename collides with
// the filesystem or the image table.
func (a *App) ensureUniqueFilename(img *Image) error {
	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	existing, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		taken[ex.Filename] = struct{}{}
	}

	base := strings.TrimSuffix(img.Filename, ".jpg")
	candidate := img.Filename
	for counter := 1; ; counter++ {
		_, onDisk := os.Stat(filepath.Join(dir, candidate))
		_, inDB := taken[candidate]
		if onDisk != nil && !inDB {
			break
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter+1)
	}
	img.Filename = candidate
	return nil
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	if err := a.ensureUniqueFilename(&img); err != nil {
		return err
	}

	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := a.Store.SaveImage(img); err != nil {
		return err
	}

	return a.renderImageList(c)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		return c.String(http.StatusBadRequest, "Invalid filename")
	}

	// Remove the file first; ignore the error if it is already gone.
	_ = os.Remove(filepath.Join(a.Config.StaticDir, uploadsSubdir, filename))
	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}
	return a.renderImageList(c)
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c)
}

func (a *App) renderImageList(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}
