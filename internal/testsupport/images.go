package testsupport

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
)

// OpaqueImage returns a w x h gradient with no transparency.
func OpaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(w, 1)), G: uint8(y * 255 / max(h, 1)), B: 128, A: 255})
		}
	}
	return img
}

// TransparentImage returns a w x h image whose left half is fully transparent.
func TransparentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if x < w/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: uint8(y), A: a})
		}
	}
	return img
}

// PalettedImage returns a paletted image whose first palette entry is
// transparent and used by the top row.
func PalettedImage(w, h int) *image.Paletted {
	palette := color.Palette{
		color.NRGBA{A: 0},
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case y == 0:
				img.SetColorIndex(x, y, 0)
			case x%2 == 0:
				img.SetColorIndex(x, y, 1)
			default:
				img.SetColorIndex(x, y, 2)
			}
		}
	}
	return img
}

// TextChunk is one PNG tEXt entry.
type TextChunk struct {
	Keyword string
	Text    string
}

// EncodePNG encodes img and inserts tEXt chunks right after IHDR.
func EncodePNG(t testing.TB, img image.Image, texts ...TextChunk) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	if len(texts) == 0 {
		return data
	}
	// 8-byte signature plus the 25-byte IHDR chunk.
	const afterIHDR = 33
	var out bytes.Buffer
	out.Write(data[:afterIHDR])
	for _, text := range texts {
		payload := append([]byte(text.Keyword), 0)
		payload = append(payload, text.Text...)
		out.Write(pngChunk("tEXt", payload))
	}
	out.Write(data[afterIHDR:])
	return out.Bytes()
}

// EncodeOpaqueRGBAPNG writes a w x h truecolor-with-alpha PNG (color type 6)
// whose pixels are all fully opaque, the layout image editors emit and Go's
// encoder never produces. Pixels match OpaqueImage(w, h).
func EncodeOpaqueRGBAPNG(t testing.TB, w, h int, texts ...TextChunk) []byte {
	t.Helper()

	src := OpaqueImage(w, h)
	var raw bytes.Buffer
	for y := 0; y < h; y++ {
		raw.WriteByte(0) // filter: none
		raw.Write(src.Pix[y*src.Stride : y*src.Stride+w*4])
	}
	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatalf("compress idat: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zlib: %v", err)
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	var out bytes.Buffer
	out.WriteString("\x89PNG\r\n\x1a\n")
	out.Write(pngChunk("IHDR", ihdr))
	for _, text := range texts {
		payload := append([]byte(text.Keyword), 0)
		payload = append(payload, text.Text...)
		out.Write(pngChunk("tEXt", payload))
	}
	out.Write(pngChunk("IDAT", idat.Bytes()))
	out.Write(pngChunk("IEND", nil))
	return out.Bytes()
}

func pngChunk(kind string, payload []byte) []byte {
	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(payload)))
	chunk.WriteString(kind)
	chunk.Write(payload)
	crc := crc32.NewIEEE()
	crc.Write([]byte(kind))
	crc.Write(payload)
	_ = binary.Write(&chunk, binary.BigEndian, crc.Sum32())
	return chunk.Bytes()
}

// SoftwareEXIF returns a little-endian TIFF blob holding a single IFD0
// Software tag with the given value.
func SoftwareEXIF(value string) []byte {
	str := append([]byte(value), 0)
	var buf bytes.Buffer
	buf.WriteString("II*\x00")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(0x0131))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(str)))
	if len(str) <= 4 {
		inline := make([]byte, 4)
		copy(inline, str)
		buf.Write(inline)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
		return buf.Bytes()
	}
	// IFD0 at 8: count(2) + entry(12) + next(4) puts data at 26.
	_ = binary.Write(&buf, binary.LittleEndian, uint32(26))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(str)
	return buf.Bytes()
}

// EncodeJPEG encodes img and, when exifTIFF is non-empty, inserts it as an
// APP1 Exif segment right after SOI.
func EncodeJPEG(t testing.TB, img image.Image, exifTIFF []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	data := buf.Bytes()
	if len(exifTIFF) == 0 {
		return data
	}
	payload := append([]byte("Exif\x00\x00"), exifTIFF...)
	var out bytes.Buffer
	out.Write(data[:2])
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(data[2:])
	return out.Bytes()
}

// RIFFChunk is one WebP container chunk.
type RIFFChunk struct {
	FourCC string
	Data   []byte
}

const (
	vp8xEXIF = 0x08
	vp8xXMP  = 0x04
)

// EncodeWebP encodes img losslessly and appends the given metadata chunks
// using the extended (VP8X) layout.
func EncodeWebP(t testing.TB, img image.Image, extra ...RIFFChunk) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		t.Fatalf("encode webp: %v", err)
	}
	data := buf.Bytes()
	if len(extra) == 0 {
		return data
	}
	if len(data) < 20 || string(data[12:16]) == "VP8X" {
		t.Fatalf("unexpected webp layout from encoder")
	}
	bounds := img.Bounds()
	var flags byte
	for _, c := range extra {
		switch c.FourCC {
		case "EXIF":
			flags |= vp8xEXIF
		case "XMP ":
			flags |= vp8xXMP
		}
	}
	vp8x := make([]byte, 10)
	vp8x[0] = flags
	putUint24(vp8x[4:7], uint32(bounds.Dx()-1))
	putUint24(vp8x[7:10], uint32(bounds.Dy()-1))

	var body bytes.Buffer
	body.WriteString("WEBP")
	body.Write(riffChunk("VP8X", vp8x))
	body.Write(data[12:])
	for _, c := range extra {
		body.Write(riffChunk(c.FourCC, c.Data))
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func riffChunk(fourCC string, payload []byte) []byte {
	var chunk bytes.Buffer
	chunk.WriteString(fourCC)
	_ = binary.Write(&chunk, binary.LittleEndian, uint32(len(payload)))
	chunk.Write(payload)
	if len(payload)%2 == 1 {
		chunk.WriteByte(0)
	}
	return chunk.Bytes()
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}
