// Package testutil provides test helpers for synthesizing legacy
// object-data files.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/leicestersquare/OpenGraphics/internal/legacy"
	"github.com/leicestersquare/OpenGraphics/internal/legacy/datfile"
)

// StringFixture is one string-table entry: a language slot byte and
// its raw encoded text.
type StringFixture struct {
	Lang byte
	Text string
}

// ImageFixture is one image-directory entry.
type ImageFixture struct {
	Data []byte
	X, Y int16
	W, H uint16
}

// ObjectFixture describes a synthetic legacy object file.
type ObjectFixture struct {
	// Name is the 8.3 base name, at most 8 characters.
	Name string
	// Type is the object-type nibble; Source the source-game nibble.
	Type   byte
	Source byte
	// Checksum is carried into the header verbatim.
	Checksum uint32
	// Encoding selects the chunk codec; defaults to EncodingNone.
	Encoding byte
	// PropertyBlock seeds the category's fixed block; it is zero-padded
	// to the category's size.
	PropertyBlock []byte
	// Slots holds the string tables. Missing slots are emitted empty;
	// the builder always writes the category's full slot count.
	Slots [][]StringFixture
	// Images populates the image directory.
	Images []ImageFixture
	// Truncate drops that many bytes from the end of the finished file
	// to simulate corruption.
	Truncate int
}

// Header flags for fixtures.
func (f ObjectFixture) flags() uint32 {
	return uint32(f.Type&0x0F) | uint32(f.Source&0x0F)<<4
}

// Build renders the fixture as legacy object-data file bytes matching
// the datfile layout.
func (f ObjectFixture) Build() []byte {
	category := legacy.CategoryFromType(f.Type)

	// Chunk: property block, string tables, image directory.
	block := make([]byte, datfile.PropertyBlockSize(category))
	copy(block, f.PropertyBlock)
	chunk := append([]byte{}, block...)

	slots := 1
	if category == legacy.CategoryRide {
		slots = 3
	}
	for s := 0; s < slots; s++ {
		if s < len(f.Slots) {
			for _, str := range f.Slots[s] {
				chunk = append(chunk, str.Lang)
				chunk = append(chunk, []byte(str.Text)...)
				chunk = append(chunk, 0)
			}
		}
		chunk = append(chunk, 0xFF)
	}

	var payload []byte
	dir := make([]byte, 0, len(f.Images)*16)
	for _, img := range f.Images {
		entry := make([]byte, 16)
		binary.LittleEndian.PutUint32(entry[0:4], uint32(len(payload)))
		binary.LittleEndian.PutUint16(entry[4:6], img.W)
		binary.LittleEndian.PutUint16(entry[6:8], img.H)
		binary.LittleEndian.PutUint16(entry[8:10], uint16(img.X))
		binary.LittleEndian.PutUint16(entry[10:12], uint16(img.Y))
		dir = append(dir, entry...)
		payload = append(payload, img.Data...)
	}
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(f.Images)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(payload)))
	chunk = append(chunk, hdr...)
	chunk = append(chunk, dir...)
	chunk = append(chunk, payload...)

	if f.Encoding == datfile.EncodingRLE {
		chunk = datfile.EncodeRLE(chunk)
	}

	name := f.Name
	for len(name) < 8 {
		name += " "
	}
	out := make([]byte, 16, 16+5+len(chunk))
	binary.LittleEndian.PutUint32(out[0:4], f.flags())
	copy(out[4:12], name[:8])
	binary.LittleEndian.PutUint32(out[12:16], f.Checksum)
	out = append(out, f.Encoding)
	lenField := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenField, uint32(len(chunk)))
	out = append(out, lenField...)
	out = append(out, chunk...)

	if f.Truncate > 0 && f.Truncate < len(out) {
		out = out[:len(out)-f.Truncate]
	}
	return out
}

// Write writes the fixture into dir as <Name>.DAT and returns the
// path.
func (f ObjectFixture) Write(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, f.Name+".DAT")
	if err := os.WriteFile(path, f.Build(), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// FootpathBlock builds a footpath property block with the given
// support flags.
func FootpathBlock(poleSupports, supportImages bool) []byte {
	block := make([]byte, datfile.PropertyBlockSize(legacy.CategoryFootpath))
	var flags byte
	if poleSupports {
		flags |= datfile.FootpathFlagPoleSupports
	}
	if supportImages {
		flags |= datfile.FootpathFlagSupportImages
	}
	block[datfile.FootpathFlagsOffset] = flags
	return block
}

// RideBlock builds a ride property block with the given type slots and
// train bounds.
func RideBlock(types [3]uint8, minCars, maxCars uint8) []byte {
	block := make([]byte, datfile.PropertyBlockSize(legacy.CategoryRide))
	copy(block[datfile.RideTypesOffset:], types[:])
	block[datfile.RideMinCarsOffset] = minCars
	block[datfile.RideMaxCarsOffset] = maxCars
	return block
}

// Images returns n distinct single-byte image fixtures, convenient for
// slice-plan tests that only care about counts and indices.
func Images(n int) []ImageFixture {
	out := make([]ImageFixture, n)
	for i := range out {
		out[i] = ImageFixture{Data: []byte{byte(i)}, X: int16(i), Y: int16(-i)}
	}
	return out
}
