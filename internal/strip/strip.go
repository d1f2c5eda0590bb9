// Package strip rewrites images in place without any container metadata.
//
// The stripper decodes the full pixel stream, copies it onto a fresh canvas,
// and re-encodes in the original format. Nothing from the source container
// survives except pixels, so EXIF, XMP, ICC, and text chunks are dropped.
// Output is staged in a sibling temp file and renamed over the original.
package strip

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"assetpipe/internal/config"
	"assetpipe/internal/discover"
	"assetpipe/internal/fileutil"
	"assetpipe/internal/metadata"
)

// ErrUnsupportedFormat is returned for formats the stripper cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result describes one rewritten file.
type Result struct {
	Path        string
	Format      string
	Width       int
	Height      int
	Alpha       bool
	BytesBefore int64
	BytesAfter  int64
}

// Stripper re-encodes images with the configured quality settings.
type Stripper struct {
	jpegQuality    int
	webpQuality    int
	pngCompression png.CompressionLevel
}

// New returns a stripper using the strip section of the config.
func New(cfg config.Strip) *Stripper {
	return &Stripper{
		jpegQuality:    cfg.JPEGQuality,
		webpQuality:    cfg.WebPQuality,
		pngCompression: pngCompression(cfg.PNGCompression),
	}
}

func pngCompression(name string) png.CompressionLevel {
	switch name {
	case "default":
		return png.DefaultCompression
	case "fast":
		return png.BestSpeed
	case "none":
		return png.NoCompression
	default:
		return png.BestCompression
	}
}

// Strip rewrites img without metadata. On error the file on disk is unchanged.
func (s *Stripper) Strip(img discover.Image) (Result, error) {
	res := Result{Path: img.Path}

	info, err := os.Stat(img.Path)
	if err != nil {
		return res, err
	}
	res.BytesBefore = info.Size()

	src, decodedFormat, err := metadata.DecodeFile(img.Path)
	if err != nil {
		return res, fmt.Errorf("decode: %w", err)
	}
	format := img.Format
	if format == "" {
		format = decodedFormat
	}
	res.Format = format

	bounds := src.Bounds()
	res.Width, res.Height = bounds.Dx(), bounds.Dy()
	res.Alpha = hasAlpha(src) && format != "jpeg"

	canvas := newCanvas(src, res.Alpha)
	src = nil

	encode, err := s.encoder(format)
	if err != nil {
		return res, err
	}
	if err := fileutil.WriteAtomic(img.Path, func(w io.Writer) error {
		return encode(w, canvas)
	}); err != nil {
		return res, fmt.Errorf("encode %s: %w", format, err)
	}

	if info, err := os.Stat(img.Path); err == nil {
		res.BytesAfter = info.Size()
	}
	return res, nil
}

func (s *Stripper) encoder(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: s.pngCompression}
		return enc.Encode, nil
	case "jpeg":
		return func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: s.jpegQuality})
		}, nil
	case "webp":
		return func(w io.Writer, m image.Image) error {
			return webp.Encode(w, m, &webp.Options{Quality: float32(s.webpQuality)})
		}, nil
	case "gif":
		return func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// newCanvas copies src onto a blank image. With alpha the canvas is NRGBA;
// without it the alpha channel is discarded and the canvas is opaque RGBA.
func newCanvas(src image.Image, alpha bool) image.Image {
	bounds := src.Bounds()
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if alpha {
		canvas := image.NewNRGBA(rect)
		draw.Draw(canvas, rect, src, bounds.Min, draw.Src)
		return canvas
	}
	canvas := image.NewRGBA(rect)
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			canvas.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return canvas
}

type opaquer interface {
	Opaque() bool
}

// hasAlpha reports whether src carries transparency that must survive.
func hasAlpha(src image.Image) bool {
	switch m := src.(type) {
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return true
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	}
	if o, ok := src.(opaquer); ok {
		return !o.Opaque()
	}
	switch src.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}
