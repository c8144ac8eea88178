package testkit

import (
	"bytes"
	"encoding/binary"
	"image"
)

// TIFF/EXIF tag IDs used by the metadata inspector.
const (
	tagMake     = 0x010F
	tagModel    = 0x0110
	tagSoftware = 0x0131
)

// ExifTags holds the string tags to embed in a synthetic EXIF segment.
// Empty fields are omitted from the IFD.
type ExifTags struct {
	Make     string
	Model    string
	Software string
}

// JPEGWithExif encodes img as JPEG and splices a hand-built EXIF APP1 segment
// directly after the SOI marker, which is where parsers expect it.
func JPEGWithExif(img image.Image, quality int, tags ExifTags) []byte {
	plain := JPEGBytes(img, quality)
	app1 := buildAPP1(tags)

	out := make([]byte, 0, len(plain)+len(app1))
	out = append(out, plain[:2]...) // SOI
	out = append(out, app1...)
	out = append(out, plain[2:]...)
	return out
}

// buildAPP1 assembles an APP1 marker segment containing a minimal
// little-endian TIFF structure with one IFD of ASCII tags.
func buildAPP1(tags ExifTags) []byte {
	type entry struct {
		tag   uint16
		value string
	}
	var entries []entry
	if tags.Make != "" {
		entries = append(entries, entry{tagMake, tags.Make})
	}
	if tags.Model != "" {
		entries = append(entries, entry{tagModel, tags.Model})
	}
	if tags.Software != "" {
		entries = append(entries, entry{tagSoftware, tags.Software})
	}

	var tiff bytes.Buffer
	tiff.WriteString("II")                                // little endian
	binary.Write(&tiff, binary.LittleEndian, uint16(42))  // TIFF magic
	binary.Write(&tiff, binary.LittleEndian, uint32(8))   // IFD0 offset

	// IFD0: entry count, entries, next-IFD offset, then the data area for
	// ASCII values longer than four bytes.
	binary.Write(&tiff, binary.LittleEndian, uint16(len(entries)))
	dataStart := uint32(8 + 2 + len(entries)*12 + 4)
	var data bytes.Buffer
	for _, e := range entries {
		value := append([]byte(e.value), 0) // NUL-terminated ASCII
		binary.Write(&tiff, binary.LittleEndian, e.tag)
		binary.Write(&tiff, binary.LittleEndian, uint16(2)) // ASCII type
		binary.Write(&tiff, binary.LittleEndian, uint32(len(value)))
		if len(value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, value)
			tiff.Write(inline)
		} else {
			binary.Write(&tiff, binary.LittleEndian, dataStart+uint32(data.Len()))
			data.Write(value)
		}
	}
	binary.Write(&tiff, binary.LittleEndian, uint32(0)) // no next IFD
	tiff.Write(data.Bytes())

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var seg bytes.Buffer
	seg.Write([]byte{0xFF, 0xE1})
	binary.Write(&seg, binary.BigEndian, uint16(len(payload)+2))
	seg.Write(payload)
	return seg.Bytes()
}
