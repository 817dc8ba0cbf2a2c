package renderer

import (
	"bufio"
	"bytes"
	"fmt"
	"image/png"
	"io"
)

// Format selects the output encoding
type Format string

const (
	FormatPPM Format = "ppm" // Plain-text P3 portable pixmap
	FormatPNG Format = "png"
)

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatPPM, FormatPNG:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use ppm or png)", name)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// WritePPM writes the framebuffer as a P3 pixmap: one "r g b" line per pixel, top row first
func WritePPM(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.RGB8At(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", p.R, p.G, p.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// EncodePPM returns the complete P3 pixmap in memory
func EncodePPM(fb *Framebuffer) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail
	_ = WritePPM(&buf, fb)
	return buf.Bytes()
}

// Encode writes the framebuffer in the requested format
func Encode(w io.Writer, fb *Framebuffer, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, fb)
	case FormatPNG:
		return png.Encode(w, fb.ToRGBA())
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
