// Package datfile reads the legacy binary object-data container: a
// 16-byte header, then one encoded chunk holding the category-specific
// property block, the localized string tables, and the image directory.
package datfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
)

var (
	// ErrTruncated reports a file or chunk shorter than its declared
	// layout requires.
	ErrTruncated = errors.New("datfile: truncated data")
	// ErrUnsupportedEncoding reports an unknown chunk encoding byte.
	ErrUnsupportedEncoding = errors.New("datfile: unsupported chunk encoding")
)

const headerSize = 16

// propertyBlockSize is the fixed size of each category's property
// block inside the decoded chunk. These are positional contracts of
// the legacy layout.
var propertyBlockSize = map[legacy.Category]int{
	legacy.CategoryRide:           0x1C2,
	legacy.CategorySmallScenery:   0x1C,
	legacy.CategoryLargeScenery:   0x1A,
	legacy.CategoryWall:           0x0E,
	legacy.CategoryFootpathBanner: 0x0C,
	legacy.CategoryFootpath:       0x0E,
	legacy.CategoryFootpathItem:   0x12,
	legacy.CategorySceneryGroup:   0x10E,
	legacy.CategoryParkEntrance:   0x08,
	legacy.CategoryWater:          0x10,
	legacy.CategoryOther:          0x08,
}

// Footpath property-block flag bits.
const (
	FootpathFlagPoleSupports  = 1 << 0
	FootpathFlagSupportImages = 1 << 1
)

// FootpathFlagsOffset locates the support-flags byte in the footpath
// property block.
const FootpathFlagsOffset = 0x0C

// Ride property-block offsets.
const (
	RideTypesOffset   = 0x08
	RideMinCarsOffset = 0x0B
	RideMaxCarsOffset = 0x0C
)

// PropertyBlockSize returns the fixed property-block size for the
// category.
func PropertyBlockSize(c legacy.Category) int { return propertyBlockSize[c] }

var _ legacy.Reader = (*Reader)(nil)

// Reader implements legacy.Reader for the on-disk container format.
type Reader struct{}

// NewReader constructs a Reader.
func NewReader() *Reader { return &Reader{} }

// Read parses the file at path into a legacy.Object.
//
// Precondition: path names a readable legacy object-data file.
// Postcondition: returns a fully-populated Object or a non-nil error;
// the Object is never partially populated.
func (r *Reader) Read(path string) (*legacy.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	obj, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return obj, nil
}

// Decode parses a raw object-data file image.
func Decode(data []byte) (*legacy.Object, error) {
	if len(data) < headerSize+5 {
		return nil, fmt.Errorf("file header: %w", ErrTruncated)
	}

	flags := binary.LittleEndian.Uint32(data[0:4])
	name := strings.TrimRight(string(data[4:12]), " \x00")
	checksum := binary.LittleEndian.Uint32(data[12:16])

	category := legacy.CategoryFromType(byte(flags) & 0x0F)
	provenance := legacy.ProvenanceFromSourceGame(byte(flags) >> 4)

	chunkEnc := data[16]
	chunkLen := int(binary.LittleEndian.Uint32(data[17:21]))
	if len(data) < headerSize+5+chunkLen {
		return nil, fmt.Errorf("chunk declares %d bytes: %w", chunkLen, ErrTruncated)
	}
	chunk := data[headerSize+5 : headerSize+5+chunkLen]

	switch chunkEnc {
	case EncodingNone:
	case EncodingRLE:
		var err error
		chunk, err = DecodeRLE(chunk)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("encoding %d: %w", chunkEnc, ErrUnsupportedEncoding)
	}

	obj := &legacy.Object{
		Provenance: provenance,
		Category:   category,
		FileName:   name,
		Checksum:   checksum,
		Flags:      flags,
	}

	blockSize := propertyBlockSize[category]
	if len(chunk) < blockSize {
		return nil, fmt.Errorf("property block needs %d bytes: %w", blockSize, ErrTruncated)
	}
	block := chunk[:blockSize]
	rest := chunk[blockSize:]

	switch category {
	case legacy.CategoryFootpath:
		sf := block[FootpathFlagsOffset]
		obj.Footpath = &legacy.FootpathData{
			SupportFlags:     sf,
			HasPoleSupports:  sf&FootpathFlagPoleSupports != 0,
			HasSupportImages: sf&FootpathFlagSupportImages != 0,
		}
	case legacy.CategoryRide:
		obj.Ride = &legacy.RideData{
			Types:           [3]uint8{block[RideTypesOffset], block[RideTypesOffset+1], block[RideTypesOffset+2]},
			MinCarsPerTrain: block[RideMinCarsOffset],
			MaxCarsPerTrain: block[RideMaxCarsOffset],
		}
	}

	slots := 1
	if category == legacy.CategoryRide {
		slots = 3
	}
	table, rest, err := decodeStringTable(rest, slots)
	if err != nil {
		return nil, err
	}
	obj.Strings = table

	images, err := decodeImageDirectory(rest)
	if err != nil {
		return nil, err
	}
	obj.Images = images
	obj.ImageCount = len(images)

	return obj, nil
}

// decodeStringTable reads slots consecutive string tables. Each table
// is a run of (language byte, NUL-terminated text) pairs closed by a
// 0xFF terminator.
func decodeStringTable(data []byte, slots int) (legacy.StringTable, []byte, error) {
	table := legacy.StringTable{Entries: make([]legacy.StringEntry, slots)}
	for s := 0; s < slots; s++ {
		for {
			if len(data) == 0 {
				return legacy.StringTable{}, nil, fmt.Errorf("string table slot %d: %w", s, ErrTruncated)
			}
			lang := data[0]
			data = data[1:]
			if lang == 0xFF {
				break
			}
			end := 0
			for end < len(data) && data[end] != 0 {
				end++
			}
			if end == len(data) {
				return legacy.StringTable{}, nil, fmt.Errorf("unterminated string in slot %d: %w", s, ErrTruncated)
			}
			raw := make([]byte, end)
			copy(raw, data[:end])
			table.Entries[s].Texts = append(table.Entries[s].Texts, legacy.LocalizedText{
				Language: legacy.Language(lang),
				Raw:      raw,
			})
			data = data[end+1:]
		}
	}
	return table, data, nil
}

// decodeImageDirectory reads the image directory: a count and total
// payload size, count 16-byte entries, then the pixel payload the
// entries' offsets index into.
func decodeImageDirectory(data []byte) ([]legacy.Image, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("image directory header: %w", ErrTruncated)
	}
	count := int(binary.LittleEndian.Uint32(data[0:4]))
	payloadSize := int(binary.LittleEndian.Uint32(data[4:8]))
	data = data[8:]

	const entrySize = 16
	if len(data) < count*entrySize+payloadSize {
		return nil, fmt.Errorf("image directory declares %d entries, %d payload bytes: %w",
			count, payloadSize, ErrTruncated)
	}
	entries := data[:count*entrySize]
	payload := data[count*entrySize : count*entrySize+payloadSize]

	images := make([]legacy.Image, count)
	for i := 0; i < count; i++ {
		e := entries[i*entrySize:]
		offset := int(binary.LittleEndian.Uint32(e[0:4]))
		width := binary.LittleEndian.Uint16(e[4:6])
		height := binary.LittleEndian.Uint16(e[6:8])
		xoff := int16(binary.LittleEndian.Uint16(e[8:10]))
		yoff := int16(binary.LittleEndian.Uint16(e[10:12]))

		end := payloadSize
		if i+1 < count {
			end = int(binary.LittleEndian.Uint32(entries[(i+1)*entrySize:][0:4]))
		}
		if offset > end || end > payloadSize {
			return nil, fmt.Errorf("image %d payload range [%d, %d): %w", i, offset, end, ErrTruncated)
		}
		images[i] = legacy.Image{
			Data:    payload[offset:end],
			XOffset: xoff,
			YOffset: yoff,
			Width:   width,
			Height:  height,
		}
	}
	return images, nil
}
