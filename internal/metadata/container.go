package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/webp"
	"golang.org/x/text/encoding/charmap"
)

const (
	infoEXIF    = "exif"
	infoXMP     = "xmp"
	infoICC     = "icc_profile"
	infoComment = "comment"

	maxInflated = 16 << 20
)

var (
	pngSignature  = []byte("\x89PNG\r\n\x1a\n")
	exifHeader    = []byte("Exif\x00\x00")
	xmpHeader     = []byte("http://ns.adobe.com/xap/1.0/\x00")
	iccHeader     = []byte("ICC_PROFILE\x00")
	latin1Decoder = charmap.ISO8859_1.NewDecoder()
)

// Document is everything read from one image file.
type Document struct {
	Format string
	Width  int
	Height int
	Tags   []Tag
	Info   Info
}

// Read opens path, decodes its pixels, and collects EXIF tags and container
// metadata. Only a pixel decode failure is returned as an error.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	doc := &Document{Format: format, Width: bounds.Dx(), Height: bounds.Dy()}

	switch format {
	case "png":
		doc.Info = parsePNG(data)
	case "jpeg":
		doc.Info = parseJPEG(data)
	case "webp":
		doc.Info = parseWebP(data)
	}

	if raw, ok := doc.Info.Get(infoEXIF); ok {
		if blob, isBinary := raw.(BinaryValue); isBinary {
			doc.Tags = decodeEXIF(blob)
		}
	}
	return doc, nil
}

// DecodeFile decodes the image stored at path and reports its format name.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}

// The container parsers are best effort: the pixels already decoded, so a
// malformed or truncated chunk ends the walk and keeps what was collected.

func parsePNG(data []byte) Info {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	var info Info
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		kind := string(data[pos+4 : pos+8])
		start := pos + 8
		end := start + length
		if length < 0 || end+4 > len(data) {
			return info
		}
		chunk := data[start:end]
		pos = end + 4

		switch kind {
		case "tEXt":
			key, text, ok := bytes.Cut(chunk, []byte{0})
			if !ok {
				continue
			}
			info.set(latin1(key), TextValue(latin1(text)))
		case "zTXt":
			key, rest, ok := bytes.Cut(chunk, []byte{0})
			if !ok || len(rest) < 1 {
				continue
			}
			text, err := inflate(rest[1:])
			if err != nil {
				continue
			}
			info.set(latin1(key), TextValue(latin1(text)))
		case "iTXt":
			key, text, ok := parseITXt(chunk)
			if !ok {
				continue
			}
			info.set(key, TextValue(text))
		case "iCCP":
			_, rest, ok := bytes.Cut(chunk, []byte{0})
			if !ok || len(rest) < 1 {
				continue
			}
			profile, err := inflate(rest[1:])
			if err != nil {
				continue
			}
			info.set(infoICC, BinaryValue(profile))
		case "eXIf":
			info.set(infoEXIF, BinaryValue(bytes.Clone(chunk)))
		case "IEND":
			return info
		}
	}
	return info
}

func parseITXt(chunk []byte) (string, string, bool) {
	key, rest, ok := bytes.Cut(chunk, []byte{0})
	if !ok || len(rest) < 2 {
		return "", "", false
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	_, rest, ok = bytes.Cut(rest, []byte{0}) // language tag
	if !ok {
		return "", "", false
	}
	_, text, ok := bytes.Cut(rest, []byte{0}) // translated keyword
	if !ok {
		return "", "", false
	}
	if compressed {
		inflated, err := inflate(text)
		if err != nil {
			return "", "", false
		}
		text = inflated
	}
	return latin1(key), string(text), true
}

func parseJPEG(data []byte) Info {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil
	}
	var (
		info Info
		icc  []byte
	)
	pos := 2
	for pos+2 <= len(data) {
		// Decoders skip stray bytes between segments.
		if data[pos] != 0xFF {
			pos++
			continue
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++
			continue
		}
		pos += 2
		if marker == 0xD9 || marker == 0xDA {
			break
		}
		if marker == 0x00 || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}
		if pos+2 > len(data) {
			break
		}
		length := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		if length < 2 || pos+length > len(data) {
			break
		}
		payload := data[pos+2 : pos+length]
		pos += length

		switch marker {
		case 0xE1:
			switch {
			case bytes.HasPrefix(payload, exifHeader):
				info.set(infoEXIF, BinaryValue(bytes.Clone(payload)))
			case bytes.HasPrefix(payload, xmpHeader):
				info.set(infoXMP, BinaryValue(bytes.Clone(payload[len(xmpHeader):])))
			}
		case 0xE2:
			if bytes.HasPrefix(payload, iccHeader) && len(payload) > len(iccHeader)+2 {
				icc = append(icc, payload[len(iccHeader)+2:]...)
			}
		case 0xFE:
			info.set(infoComment, BinaryValue(bytes.Clone(payload)))
		}
	}
	if len(icc) > 0 {
		info.set(infoICC, BinaryValue(icc))
	}
	return info
}

func parseWebP(data []byte) Info {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil
	}
	var info Info
	pos := 12
	for pos+8 <= len(data) {
		kind := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		start := pos + 8
		end := start + size
		if size < 0 || end > len(data) {
			return info
		}
		chunk := data[start:end]
		pos = end + size%2

		switch kind {
		case "ICCP":
			info.set(infoICC, BinaryValue(bytes.Clone(chunk)))
		case "EXIF":
			info.set(infoEXIF, BinaryValue(bytes.Clone(chunk)))
		case "XMP ":
			info.set(infoXMP, BinaryValue(bytes.Clone(chunk)))
		}
	}
	return info
}

func inflate(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(io.LimitReader(r, maxInflated))
}

func latin1(raw []byte) string {
	out, err := latin1Decoder.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
