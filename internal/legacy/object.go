// Package legacy defines the decoded in-memory model of a legacy
// object-data file: its category, provenance, localized string table,
// image payloads, and the category-specific property block.
package legacy

// Category is the functional kind of a legacy object, fixed at decode
// time. The set is closed: dispatch over categories uses exhaustive
// switches so a new category is a compile-time-checked addition.
type Category int

const (
	CategoryRide Category = iota
	CategorySmallScenery
	CategoryLargeScenery
	CategoryWall
	CategoryFootpathBanner
	CategoryFootpath
	CategoryFootpathItem
	CategorySceneryGroup
	CategoryParkEntrance
	CategoryWater
	// CategoryOther covers the non-exportable meta kinds (scenario
	// text and anything the format added later).
	CategoryOther
)

// CategoryFromType maps the object-type nibble of the file header to a
// Category. Unknown values map to CategoryOther.
func CategoryFromType(t byte) Category {
	switch t {
	case 0:
		return CategoryRide
	case 1:
		return CategorySmallScenery
	case 2:
		return CategoryLargeScenery
	case 3:
		return CategoryWall
	case 4:
		return CategoryFootpathBanner
	case 5:
		return CategoryFootpath
	case 6:
		return CategoryFootpathItem
	case 7:
		return CategorySceneryGroup
	case 8:
		return CategoryParkEntrance
	case 9:
		return CategoryWater
	default:
		return CategoryOther
	}
}

// TypeTag returns the descriptor objectType tag for the category.
func (c Category) TypeTag() string {
	switch c {
	case CategoryRide:
		return "ride"
	case CategorySmallScenery:
		return "scenery_small"
	case CategoryLargeScenery:
		return "scenery_large"
	case CategoryWall:
		return "wall"
	case CategoryFootpathBanner:
		return "footpath_banner"
	case CategoryFootpath:
		return "footpath"
	case CategoryFootpathItem:
		return "footpath_item"
	case CategorySceneryGroup:
		return "scenery_group"
	case CategoryParkEntrance:
		return "park_entrance"
	case CategoryWater:
		return "water"
	default:
		return "other"
	}
}

func (c Category) String() string { return c.TypeTag() }

// Provenance identifies which original game edition or expansion an
// object came from. It determines the identifier source tag and the
// default author list.
type Provenance int

const (
	ProvenanceCustom Provenance = iota
	ProvenanceRCT1
	ProvenanceRCT2
	ProvenanceWW
	ProvenanceTT
)

// ProvenanceFromSourceGame maps the source-game nibble of the file
// header to a Provenance. Unknown values map to ProvenanceCustom.
func ProvenanceFromSourceGame(v byte) Provenance {
	switch v {
	case 1:
		return ProvenanceWW
	case 2:
		return ProvenanceTT
	case 4:
		return ProvenanceRCT1
	case 8:
		return ProvenanceRCT2
	default:
		return ProvenanceCustom
	}
}

// Tag returns the identifier source tag for the provenance. The four
// known provenances map to fixed tags; anything else is "other".
func (p Provenance) Tag() string {
	switch p {
	case ProvenanceRCT1:
		return "rct1"
	case ProvenanceRCT2:
		return "rct2"
	case ProvenanceWW:
		return "rct2.ww"
	case ProvenanceTT:
		return "rct2.tt"
	default:
		return "other"
	}
}

func (p Provenance) String() string { return p.Tag() }

// Image is one decoded image payload from the object's image directory.
type Image struct {
	// Data is the encoded pixel payload as stored in the source file.
	Data []byte
	// XOffset and YOffset position the image relative to its anchor.
	XOffset int16
	YOffset int16
	Width   uint16
	Height  uint16
}

// FootpathData carries the footpath category's decoded property block.
// The support flags drive the railings image slice plan.
type FootpathData struct {
	SupportFlags     uint8
	HasPoleSupports  bool
	HasSupportImages bool
}

// RideData carries the ride category's decoded property block.
type RideData struct {
	// Types holds up to three ride type slots; 0xFF marks an unused slot.
	Types           [3]uint8
	MinCarsPerTrain uint8
	MaxCarsPerTrain uint8
}

// Object is one decoded legacy object. It is produced by a Reader and
// is read-only afterwards: the export pipeline never mutates it, so a
// single Object may be shared across concurrent export tasks.
type Object struct {
	Provenance Provenance
	Category   Category
	// FileName is the 8-character source file name without extension,
	// trailing padding trimmed, original case preserved.
	FileName string
	Checksum uint32
	Flags    uint32

	ImageCount int
	Images     []Image
	Strings    StringTable

	// Footpath is non-nil exactly when Category is CategoryFootpath;
	// Ride is non-nil exactly when Category is CategoryRide. Carrying
	// the payload on the variant removes any need for runtime type
	// checks downstream.
	Footpath *FootpathData
	Ride     *RideData
}

// Reader parses a raw legacy object-data file into an Object. The
// binary layout is the reader's concern; the export pipeline depends
// only on this interface.
type Reader interface {
	Read(path string) (*Object, error)
}
