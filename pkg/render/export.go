package render

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedImageFormat is returned by Encode and Export for unknown
// formats.
var ErrUnsupportedImageFormat = errors.New("render: unsupported image format")

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatPNG   Format = "png"
	FormatBMP   Format = "bmp"
	FormatTIFF  Format = "tiff"
	FormatASCII Format = "txt"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "txt", "ascii":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, ext)
	}
}

// Encode writes the color buffer to w in format f.
func (t *RenderTarget) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, t.ToImage())
	case FormatBMP:
		return bmp.Encode(w, t.ToImage())
	case FormatTIFF:
		return tiff.Encode(w, t.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	case FormatASCII:
		_, err := io.WriteString(w, t.ASCII())
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedImageFormat, f)
	}
}

// Export writes the color buffer to path, choosing the format from the
// extension.
func (t *RenderTarget) Export(path string) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := t.Encode(file, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	Logger().Info("frame exported", "path", path, "format", string(f), "width", t.width, "height", t.height)
	return nil
}
