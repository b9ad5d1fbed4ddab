package favicon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

// EncodeICO writes images as a Windows ICO container with PNG-compressed
// entries. PNG payloads inside ICO are valid for all consumers we care
// about (browsers and Windows Vista+), and they keep this encoder to the
// 6-byte header plus one 16-byte directory entry per image.
func EncodeICO(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return fmt.Errorf("ico: no images")
	}

	payloads := make([][]byte, len(images))
	for i, img := range images {
		bounds := img.Bounds()
		if bounds.Dx() > 256 || bounds.Dy() > 256 {
			return fmt.Errorf("ico: image %d is %dx%d, max is 256", i, bounds.Dx(), bounds.Dy())
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encode entry %d: %w", i, err)
		}
		payloads[i] = buf.Bytes()
	}

	// ICONDIR: reserved, type (1 = icon), count.
	header := []uint16{0, 1, uint16(len(images))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	// Directory entries. A width or height byte of 0 means 256.
	offset := uint32(6 + 16*len(images))
	for i, img := range images {
		bounds := img.Bounds()
		entry := struct {
			Width, Height, Colors, Reserved byte
			Planes, BitCount                uint16
			Size, Offset                    uint32
		}{
			Width:    dimByte(bounds.Dx()),
			Height:   dimByte(bounds.Dy()),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(payloads[i])),
			Offset:   offset,
		}
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return err
		}
		offset += entry.Size
	}

	for _, payload := range payloads {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func dimByte(d int) byte {
	if d >= 256 {
		return 0
	}
	return byte(d)
}
