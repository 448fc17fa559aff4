package present

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/fractal"
)

// TGA header constants.
const (
	tgaHeaderSize    = 18
	tgaTrueColor     = 2
	tgaBitsPerPixel  = 32
	tgaDescriptor    = 0x28 // 8 alpha bits, top-left origin
	tgaMaxDimension  = 0xFFFF
	tgaWidthOffset   = 12
	tgaHeightOffset  = 14
	tgaDepthOffset   = 16
	tgaDescripOffset = 17
)

var (
	// ErrUnknownFormat is returned by Capture for an unsupported extension.
	ErrUnknownFormat = errors.New("present: unknown screenshot format")

	// ErrTooLarge is returned by WriteTGA when a side exceeds 65535 pixels.
	ErrTooLarge = errors.New("present: image too large for TGA")
)

// TGAHeader returns the 18-byte header of a w×h 32-bit TGA.
func TGAHeader(w, h int) [tgaHeaderSize]byte {
	var hdr [tgaHeaderSize]byte
	hdr[2] = tgaTrueColor
	binary.LittleEndian.PutUint16(hdr[tgaWidthOffset:], uint16(w))  //nolint:gosec // checked by WriteTGA
	binary.LittleEndian.PutUint16(hdr[tgaHeightOffset:], uint16(h)) //nolint:gosec // checked by WriteTGA
	hdr[tgaDepthOffset] = tgaBitsPerPixel
	hdr[tgaDescripOffset] = tgaDescriptor
	return hdr
}

// WriteTGA writes fb as an uncompressed 32-bit BGRA TGA, rows top to bottom.
func WriteTGA(w io.Writer, fb *fractal.Framebuffer) error {
	width, height := fb.Width(), fb.Height()
	if width > tgaMaxDimension || height > tgaMaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	hdr := TGAHeader(width, height)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	row := make([]byte, fb.Stride())
	data := fb.Data()
	for y := range height {
		SwapRB(row, data[y*fb.Stride():(y+1)*fb.Stride()])
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// SaveTGA writes fb to a TGA file at path.
func SaveTGA(path string, fb *fractal.Framebuffer) error {
	return saveFile(path, func(w io.Writer) error { return WriteTGA(w, fb) })
}

// Capture writes fb to path in the format named by its extension.
func Capture(path string, fb *fractal.Framebuffer) error {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		encode = func(w io.Writer) error { return WriteTGA(w, fb) }
	case ".png":
		encode = func(w io.Writer) error { return png.Encode(w, fb.ToImage()) }
	case ".bmp":
		encode = func(w io.Writer) error { return bmp.Encode(w, fb.ToImage()) }
	case ".tif", ".tiff":
		encode = func(w io.Writer) error {
			return tiff.Encode(w, fb.ToImage(), &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if err := saveFile(path, encode); err != nil {
		return err
	}
	fractal.Logger().Info("present: frame captured", "path", path, "width", fb.Width(), "height", fb.Height())
	return nil
}

func saveFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		return fmt.Errorf("present: encode %s: %w", path, err)
	}
	return bw.Flush()
}
